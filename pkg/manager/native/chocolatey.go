package native

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Chocolatey lists packages installed with Chocolatey on Windows.
type Chocolatey struct {
	*BaseManager
}

// NewChocolatey creates a new Chocolatey manager instance.
func NewChocolatey(runner manager.Runner) *Chocolatey {
	return &Chocolatey{
		BaseManager: NewBaseManager(manager.Chocolatey, runner),
	}
}

// ListInstalled exports the package list to a temporary packages.config and parses it.
func (c *Chocolatey) ListInstalled(ctx context.Context) ([]manager.Item, error) {
	dir, err := os.MkdirTemp("", "abr-choco-")
	if err != nil {
		return empty(), fmt.Errorf("chocolatey: %w", err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "export.config")
	if _, err := c.check(ctx, "choco", "export", file, "--include-version-numbers"); err != nil {
		return empty(), err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return empty(), &manager.ExecutionError{Source: manager.Chocolatey, Program: "choco", Stderr: err.Error()}
	}

	items, err := ParseChocolateyExport(data)
	if err != nil {
		return empty(), &manager.ParseError{Source: manager.Chocolatey, Err: err}
	}
	return items, nil
}

// ParseChocolateyExport reads <package id version> elements at any depth.
// The chocolatey meta-packages are excluded.
func ParseChocolateyExport(data []byte) ([]manager.Item, error) {
	items := empty()
	if len(strings.TrimSpace(string(data))) == 0 {
		return items, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return items, err
	}

	for _, el := range doc.FindElements("//package") {
		id := el.SelectAttrValue("id", "")
		if id == "" || strings.HasPrefix(id, "chocolatey") {
			continue
		}
		version := el.SelectAttrValue("version", "")
		if version == "" {
			version = "latest"
		}
		items = append(items, manager.ChocolateyItem{
			PackageID: id,
			Title:     id,
			Version:   version,
		})
	}
	return items, nil
}
