package native

import (
	"bufio"
	"context"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// APT lists packages through dpkg on Debian and Ubuntu.
type APT struct {
	*BaseManager
}

// NewAPT creates a new APT manager instance.
func NewAPT(runner manager.Runner) *APT {
	return &APT{
		BaseManager: NewBaseManager(manager.APT, runner),
	}
}

// ListInstalled returns every package whose dpkg status is "ii".
func (a *APT) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	out, err := a.check(ctx, "dpkg", "-l")
	if err != nil {
		return empty(), err
	}
	return ParseDpkgList(out), nil
}

// ParseDpkgList parses `dpkg -l` output. Only rows whose status column is
// exactly "ii" describe installed packages; "rc" and friends are skipped.
func ParseDpkgList(output string) []manager.Item {
	items := empty()
	scanner := bufio.NewScanner(strings.NewReader(output))

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "Desired") ||
			strings.HasPrefix(line, "||/") ||
			strings.HasPrefix(line, "+++") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "ii" {
			continue
		}

		item := manager.AptItem{
			Package: fields[1],
			Version: fields[2],
		}
		if len(fields) > 3 {
			item.Architecture = fields[3]
		}
		items = append(items, item)
	}

	return items
}
