package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// Output formats accepted by --output.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ParseFormat validates an --output value.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q is not an encoding", format)
}

// ItemRow is the encoded form of a listed item.
type ItemRow struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// ItemRows converts items to rows for encoding.
func ItemRows(items []manager.Item) []ItemRow {
	rows := make([]ItemRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, ItemRow{ID: it.Identity(), Name: it.DisplayName(), Version: it.VersionString()})
	}
	return rows
}
