package native

import (
	"bufio"
	"context"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Brew lists Homebrew formulae and casks.
type Brew struct {
	*BaseManager
}

// NewBrew creates a new Homebrew manager instance.
func NewBrew(runner manager.Runner) *Brew {
	return &Brew{
		BaseManager: NewBaseManager(manager.Homebrew, runner),
	}
}

// ListInstalled returns installed formulae and casks from `brew list --versions`.
func (b *Brew) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	out, err := b.check(ctx, "brew", "list", "--versions")
	if err != nil {
		return empty(), err
	}
	return ParseBrewVersions(out), nil
}

// ParseBrewVersions parses "name v1 [v2 ...]" lines. When several versions
// are kept side by side the last one listed is reported.
func ParseBrewVersions(output string) []manager.Item {
	items := empty()
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		item := manager.HomebrewItem{Name: fields[0]}
		if len(fields) > 1 {
			item.Version = fields[len(fields)-1]
		}
		items = append(items, item)
	}

	return items
}
