package universal

import (
	"bufio"
	"context"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Snap implements the Manager interface for Snap.
type Snap struct {
	id          manager.ID
	displayName string
	binary      string
	runner      manager.Runner
	opts        manager.InstallOptions
}

// NewSnap creates a new Snap manager instance.
func NewSnap(runner manager.Runner) *Snap {
	return &Snap{
		id:          manager.Snap,
		displayName: "Snap",
		binary:      "snap",
		runner:      runner,
	}
}

// ID returns the source identifier.
func (s *Snap) ID() manager.ID {
	return s.id
}

// DisplayName returns the human-readable name.
func (s *Snap) DisplayName() string {
	return s.displayName
}

// IsAvailable returns true if Snap is installed.
func (s *Snap) IsAvailable(_ context.Context) bool {
	return s.runner.FindExecutable(s.binary)
}

// SetElevation overrides the prefix used by install commands.
func (s *Snap) SetElevation(prefix string) {
	s.opts.Elevation = prefix
}

// InstallCommand returns the (elevated) `snap install` command.
func (s *Snap) InstallCommand(identifier, version string) manager.Command {
	return manager.BuildInstallCommand(s.id, identifier, version, s.opts)
}

// ListInstalled returns all installed Snap packages.
func (s *Snap) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	res, err := manager.Check(ctx, s.runner, s.id, s.binary, "list")
	if err != nil {
		return []manager.Item{}, err
	}
	return ParseSnapList(res.Stdout), nil
}

// ParseSnapList parses the table printed by `snap list`.
// The first non-empty line is the column header.
func ParseSnapList(output string) []manager.Item {
	items := []manager.Item{}
	scanner := bufio.NewScanner(strings.NewReader(output))
	headerSkipped := false

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Skip header
		if !headerSkipped {
			headerSkipped = true
			if strings.HasPrefix(line, "Name") {
				continue
			}
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		item := manager.SnapItem{
			Name:    fields[0],
			Version: fields[1],
		}
		if len(fields) > 2 {
			item.Revision = fields[2]
		}
		if len(fields) > 3 {
			item.Tracking = fields[3]
		}
		items = append(items, item)
	}

	return items
}
