package native

import (
	"bufio"
	"context"
	"regexp"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// YUM lists RPM packages through yum or dnf, which share an output format.
type YUM struct {
	*BaseManager
}

// NewYUM creates the yum adapter.
func NewYUM(runner manager.Runner) *YUM {
	return &YUM{BaseManager: NewBaseManager(manager.YUM, runner)}
}

// NewDNF creates the dnf adapter.
func NewDNF(runner manager.Runner) *YUM {
	return &YUM{BaseManager: NewBaseManager(manager.DNF, runner)}
}

// ListInstalled returns packages from `<yum|dnf> list installed`.
func (y *YUM) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	out, err := y.check(ctx, y.Binary(), "list", "installed")
	if err != nil {
		return empty(), err
	}
	return ParseYumList(out), nil
}

// rpmArch matches the architecture suffix of a `name.arch` token: noarch,
// src, or a lowercase word containing a digit (x86_64, i486, riscv64, armv7hnl).
var rpmArch = regexp.MustCompile(`^(noarch|src|[a-z][a-z0-9_]*[0-9][a-z0-9_]*)$`)

// ParseYumList parses `list installed` output. Banner lines are skipped and
// rows wrapped by long package names are joined back together. A repo column
// wrapped onto its own line ("@updates") belongs to the row above and is dropped.
func ParseYumList(output string) []manager.Item {
	items := empty()
	scanner := bufio.NewScanner(strings.NewReader(output))
	var pending string

	for scanner.Scan() {
		line := scanner.Text()
		lower := strings.ToLower(line)
		if strings.Contains(lower, "installed packages") ||
			strings.Contains(lower, "loaded plugins") ||
			strings.Contains(lower, "last metadata") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if pending == "" && len(fields) == 1 && strings.HasPrefix(fields[0], "@") {
			continue
		}
		if pending != "" {
			fields = append([]string{pending}, fields...)
			pending = ""
		}
		if len(fields) == 1 {
			pending = fields[0]
			continue
		}

		name, arch := splitNameArch(fields[0])
		version, release := splitVersionRelease(fields[1])
		items = append(items, manager.YumItem{
			Name:         name,
			Version:      version,
			Release:      release,
			Architecture: arch,
		})
	}

	return items
}

func splitNameArch(s string) (string, string) {
	if i := strings.LastIndex(s, "."); i > 0 && rpmArch.MatchString(s[i+1:]) {
		return s[:i], s[i+1:]
	}
	return s, "noarch"
}

func splitVersionRelease(s string) (string, string) {
	if i := strings.LastIndex(s, "-"); i > 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}
