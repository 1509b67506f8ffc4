package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/restore"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", FormatTable, true},
		{"table", FormatTable, true},
		{"JSON", FormatJSON, true},
		{" yaml ", FormatYAML, true},
		{"xml", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		} else {
			assert.Error(t, err, tt.in)
		}
	}
}

func TestEncodeMerged(t *testing.T) {
	items := []snapshot.MergedItem{
		{ID: "Git.Git", DisplayName: "Git", Version: "2.44.0", IsInstalled: true, Provenance: snapshot.ProvenanceBoth},
	}

	var js bytes.Buffer
	require.NoError(t, Encode(&js, FormatJSON, items))
	assert.Contains(t, js.String(), `"provenance": "both"`)

	var ym bytes.Buffer
	require.NoError(t, Encode(&ym, FormatYAML, items))
	assert.Contains(t, ym.String(), "provenance: both")

	assert.Error(t, Encode(&js, FormatTable, items))
}

func TestItemRows(t *testing.T) {
	rows := ItemRows([]manager.Item{
		manager.WingetItem{PackageID: "Git.Git", Name: "Git", Version: "2.44.0"},
		manager.ExtensionItem{ID: "golang.go"},
	})
	assert.Equal(t, []ItemRow{
		{ID: "Git.Git", Name: "Git", Version: "2.44.0"},
		{ID: "golang.go", Name: "golang.go"},
	}, rows)
}

func TestPrintMerged(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	PrintMerged(&buf, []snapshot.MergedItem{
		{ID: "a", DisplayName: "Alpha", Version: "1", IsInstalled: true, Provenance: snapshot.ProvenanceInstalled},
		{ID: "c", DisplayName: "Charlie", Version: "3", Provenance: snapshot.ProvenanceBackupOnly},
	})

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Charlie")
	assert.Contains(t, out, "1 installed, 1 only in backup")
}

func TestPrintItemsEmpty(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	PrintItems(&buf, nil)
	assert.Equal(t, "No items found\n", buf.String())
}

func TestPrintRestoreReport(t *testing.T) {
	noColor(t)

	report := restore.Report{Target: manager.APT, Outcomes: []restore.Outcome{
		{Identifier: "git", Status: restore.StatusInstalled},
		{Identifier: "nope", Status: restore.StatusFailed, ExitCode: 100, Message: "E: Unable to locate package nope",
			Failure: manager.ClassifyInstallFailure("E: Unable to locate package nope")},
	}}

	var buf bytes.Buffer
	PrintRestoreReport(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "(not found, exit 100)")
	assert.Contains(t, out, "renamed or removed")
	assert.True(t, strings.HasSuffix(out, "1 installed, 1 failed\n"))
}

func TestTableRender(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	tbl := NewTableWriter(&buf, []string{"source", "name"})
	tbl.AddRow("apt", "APT")
	tbl.AddRow("flatpak", "Flatpak")
	tbl.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SOURCE   NAME", lines[0])
	assert.Equal(t, "flatpak  Flatpak", lines[2])
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"1", []int{0}},
		{"3 1", []int{0, 2}},
		{"1,2-4", []int{0, 1, 2, 3}},
		{" 2 , 2 ", []int{1}},
		{"ALL", []int{0, 1, 2, 3, 4}},
	}
	for _, tt := range tests {
		got, err := ParseSelection(tt.in, 5)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "0", "6", "x", "4-2", "1-9"} {
		_, err := ParseSelection(bad, 5)
		assert.Error(t, err, bad)
	}
}
