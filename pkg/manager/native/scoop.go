package native

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Scoop lists apps installed with Scoop on Windows.
// Scoop is a PowerShell module, so every call goes through powershell.
type Scoop struct {
	*BaseManager
}

// NewScoop creates a new Scoop manager instance.
func NewScoop(runner manager.Runner) *Scoop {
	return &Scoop{
		BaseManager: NewBaseManager(manager.Scoop, runner),
	}
}

// IsAvailable requires both the shim on PATH and a working `scoop --version`.
func (s *Scoop) IsAvailable(ctx context.Context) bool {
	if !s.Runner().FindExecutable(s.Binary()) {
		return false
	}
	return s.Runner().Run(ctx, "powershell", "-NoProfile", "-Command", "scoop --version").OK()
}

// ListInstalled returns apps from `scoop export`.
func (s *Scoop) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	out, err := s.check(ctx, "powershell", "-NoProfile", "-Command", "scoop export")
	if err != nil {
		return empty(), err
	}
	items, err := ParseScoopExport(out)
	if err != nil {
		return empty(), &manager.ParseError{Source: manager.Scoop, Err: err}
	}
	return items, nil
}

type scoopExport struct {
	Apps []struct {
		Name    string `json:"Name"`
		Version string `json:"Version"`
		Source  string `json:"Source"`
	} `json:"apps"`
}

// ParseScoopExport parses the JSON document printed by `scoop export`.
// Missing versions are recorded as "latest".
func ParseScoopExport(output string) ([]manager.Item, error) {
	items := empty()
	if strings.TrimSpace(output) == "" {
		return items, nil
	}

	var doc scoopExport
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		return items, err
	}

	for _, app := range doc.Apps {
		if app.Name == "" {
			continue
		}
		version := app.Version
		if version == "" {
			version = "latest"
		}
		items = append(items, manager.ScoopItem{
			Name:    app.Name,
			Version: version,
			Source:  app.Source,
		})
	}
	return items, nil
}
