package native

import (
	"bufio"
	"context"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Zypper lists packages on openSUSE and SLES.
type Zypper struct {
	*BaseManager
}

// NewZypper creates a new Zypper manager instance.
func NewZypper(runner manager.Runner) *Zypper {
	return &Zypper{
		BaseManager: NewBaseManager(manager.Zypper, runner),
	}
}

// ListInstalled returns installed packages from `zypper se -i -s`.
func (z *Zypper) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	out, err := z.check(ctx, "zypper", "--non-interactive", "se", "-i", "-s")
	if err != nil {
		return empty(), err
	}
	return ParseZypperSearch(out), nil
}

// ParseZypperSearch parses the pipe-delimited table printed by `zypper se`.
// Columns are located through the header row so optional columns do not shift them.
// Only package rows are kept and each name is reported once.
func ParseZypperSearch(output string) []manager.Item {
	items := empty()
	scanner := bufio.NewScanner(strings.NewReader(output))
	cols := map[string]int{}
	seen := map[string]bool{}

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "|") {
			continue
		}
		if isSeparatorRow(line) {
			continue
		}

		cells := strings.Split(line, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}

		if len(cols) == 0 {
			for i, c := range cells {
				cols[strings.ToLower(c)] = i
			}
			continue
		}

		name := cell(cells, cols, "name")
		if name == "" || seen[name] {
			continue
		}
		if t := cell(cells, cols, "type"); t != "" && t != "package" {
			continue
		}
		if _, ok := cols["s"]; ok && !strings.HasPrefix(cell(cells, cols, "s"), "i") {
			continue
		}

		seen[name] = true
		items = append(items, manager.YumItem{
			Name:         name,
			Version:      cell(cells, cols, "version"),
			Architecture: cell(cells, cols, "arch"),
		})
	}

	return items
}

func isSeparatorRow(line string) bool {
	return strings.Trim(line, "-+| ") == ""
}

func cell(cells []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}
