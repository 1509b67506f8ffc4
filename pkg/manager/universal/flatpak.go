package universal

import (
	"bufio"
	"context"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Flatpak implements the Manager interface for Flatpak applications.
// Runtimes are not listed; they are pulled in by the applications that need them.
type Flatpak struct {
	id            manager.ID
	displayName   string
	binary        string
	defaultRemote string
	runner        manager.Runner
}

// NewFlatpak creates a new Flatpak manager instance.
// An empty remote falls back to flathub.
func NewFlatpak(runner manager.Runner, remote string) *Flatpak {
	if remote == "" {
		remote = manager.DefaultFlatpakRemote
	}
	return &Flatpak{
		id:            manager.Flatpak,
		displayName:   "Flatpak",
		binary:        "flatpak",
		defaultRemote: remote,
		runner:        runner,
	}
}

// ID returns the source identifier.
func (f *Flatpak) ID() manager.ID {
	return f.id
}

// DisplayName returns the human-readable name.
func (f *Flatpak) DisplayName() string {
	return f.displayName
}

// IsAvailable returns true if Flatpak is installed.
func (f *Flatpak) IsAvailable(_ context.Context) bool {
	return f.runner.FindExecutable(f.binary)
}

// InstallCommand installs from the configured remote.
func (f *Flatpak) InstallCommand(identifier, version string) manager.Command {
	return manager.BuildInstallCommand(f.id, identifier, version, manager.InstallOptions{FlatpakRemote: f.defaultRemote})
}

// ListInstalled returns all installed Flatpak applications.
func (f *Flatpak) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	res, err := manager.Check(ctx, f.runner, f.id, f.binary,
		"list", "--app", "--columns=name,application,version,branch,origin")
	if err != nil {
		return []manager.Item{}, err
	}
	return ParseFlatpakList(res.Stdout), nil
}

// ParseFlatpakList parses tab-separated name, application, version, branch, origin rows.
// Rows without an application ID are skipped.
func ParseFlatpakList(output string) []manager.Item {
	items := []manager.Item{}
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 2 {
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if fields[1] == "" {
			continue
		}

		item := manager.FlatpakItem{
			Name:        fields[0],
			Application: fields[1],
		}
		if len(fields) > 2 {
			item.Version = fields[2]
		}
		if len(fields) > 3 {
			item.Branch = fields[3]
		}
		if len(fields) > 4 {
			item.Origin = fields[4]
		}
		items = append(items, item)
	}

	return items
}
