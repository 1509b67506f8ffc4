package native

import (
	"bufio"
	"context"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Pacman lists packages on Arch Linux and derivatives.
type Pacman struct {
	*BaseManager
}

// NewPacman creates a new Pacman manager instance.
func NewPacman(runner manager.Runner) *Pacman {
	return &Pacman{
		BaseManager: NewBaseManager(manager.Pacman, runner),
	}
}

// ListInstalled returns explicitly and implicitly installed packages from `pacman -Q`.
func (p *Pacman) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	out, err := p.check(ctx, "pacman", "-Q")
	if err != nil {
		return empty(), err
	}
	return ParsePacmanQuery(out), nil
}

// ParsePacmanQuery parses "name version" lines.
func ParsePacmanQuery(output string) []manager.Item {
	items := empty()
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		items = append(items, manager.PacmanItem{
			Name:    fields[0],
			Version: fields[1],
		})
	}

	return items
}
