package native

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// NameResolver maps package identifiers to display names.
type NameResolver interface {
	ResolveAll(ctx context.Context, ids []string) map[string]string
}

// Winget lists packages from one winget source: "winget" or "msstore".
// The export format carries no display names, so they come from a NameResolver.
type Winget struct {
	*BaseManager
	source   string
	resolver NameResolver
}

// NewWinget creates the adapter for the community winget source.
func NewWinget(runner manager.Runner, resolver NameResolver) *Winget {
	return &Winget{
		BaseManager: NewBaseManager(manager.Winget, runner),
		source:      "winget",
		resolver:    resolver,
	}
}

// NewMSStore creates the adapter for the Microsoft Store source.
func NewMSStore(runner manager.Runner, resolver NameResolver) *Winget {
	return &Winget{
		BaseManager: NewBaseManager(manager.MSStore, runner),
		source:      "msstore",
		resolver:    resolver,
	}
}

// ListInstalled runs `winget export` into a temporary file and resolves a display name per package.
func (w *Winget) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	dir, err := os.MkdirTemp("", "abr-")
	if err != nil {
		return empty(), fmt.Errorf("%s: %w", w.ID(), err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "export.json")
	if _, err := w.check(ctx, "winget", "export", "-s", w.source, "-o", file,
		"--disable-interactivity", "--include-versions"); err != nil {
		return empty(), err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return empty(), &manager.ExecutionError{Source: w.ID(), Program: "winget", Stderr: err.Error()}
	}

	packages, err := ParseWingetExport(data)
	if err != nil {
		return empty(), &manager.ParseError{Source: w.ID(), Err: err}
	}

	var names map[string]string
	if w.resolver != nil {
		ids := make([]string, 0, len(packages))
		for _, p := range packages {
			ids = append(ids, p.PackageID)
		}
		names = w.resolver.ResolveAll(ctx, ids)
	}

	items := make([]manager.Item, 0, len(packages))
	for _, p := range packages {
		p.Name = names[p.PackageID]
		items = append(items, p)
	}
	return items, nil
}

type wingetExport struct {
	Sources []struct {
		Packages []struct {
			PackageIdentifier string `json:"PackageIdentifier"`
			Version           string `json:"Version"`
		} `json:"Packages"`
	} `json:"Sources"`
}

// ParseWingetExport reads the package list of the first source that has one.
// Missing versions are recorded as "latest"; names are left empty.
// An empty export means nothing is installed from the source.
func ParseWingetExport(data []byte) ([]manager.WingetItem, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var doc wingetExport
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var out []manager.WingetItem
	for _, src := range doc.Sources {
		if src.Packages == nil {
			continue
		}
		for _, p := range src.Packages {
			if p.PackageIdentifier == "" {
				continue
			}
			version := p.Version
			if version == "" {
				version = "latest"
			}
			out = append(out, manager.WingetItem{PackageID: p.PackageIdentifier, Version: version})
		}
		break
	}
	return out, nil
}
