package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/restore"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

// Table wraps tabwriter for consistent styling.
type Table struct {
	writer  *tabwriter.Writer
	headers []string
	rows    [][]string
}

// NewTableWriter creates a new table that writes to a specific writer.
func NewTableWriter(w io.Writer, header []string) *Table {
	return &Table{
		writer:  tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: header,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Render outputs the header followed by the rows.
func (t *Table) Render() {
	if len(t.headers) > 0 {
		headerRow := make([]string, len(t.headers))
		for i, h := range t.headers {
			headerRow[i] = Strong.Sprint(strings.ToUpper(h))
		}
		fmt.Fprintln(t.writer, strings.Join(headerRow, "\t"))
	}
	for _, row := range t.rows {
		fmt.Fprintln(t.writer, strings.Join(row, "\t"))
	}
	t.writer.Flush()
}

// PrintItems prints a live or backed-up listing.
func PrintItems(w io.Writer, items []manager.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No items found"))
		return
	}

	t := NewTableWriter(w, []string{"id", "name", "version"})
	for _, it := range items {
		name := it.DisplayName()
		if name == it.Identity() {
			name = ""
		}
		t.AddRow(ItemName.Sprint(it.Identity()), name, ItemVersion.Sprint(it.VersionString()))
	}
	t.Render()
}

// PrintMerged prints a reconciled list with a provenance marker per row.
func PrintMerged(w io.Writer, items []snapshot.MergedItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, Muted.Sprint("No items found"))
		return
	}

	t := NewTableWriter(w, []string{"", "name", "id", "version"})
	for _, it := range items {
		t.AddRow(provenanceMark(it.Provenance), ItemName.Sprint(it.DisplayName), it.ID, ItemVersion.Sprint(it.Version))
	}
	t.Render()

	installed, missing := len(snapshot.Installed(items)), len(snapshot.Missing(items))
	fmt.Fprintf(w, "\n%d installed, %d only in backup\n", installed, missing)
}

func provenanceMark(p snapshot.Provenance) string {
	switch p {
	case snapshot.ProvenanceInstalled:
		return Installed.Sprint(p.Symbol())
	case snapshot.ProvenanceBackupOnly:
		return BackupOnly.Sprint(p.Symbol())
	}
	return Both.Sprint(p.Symbol())
}

// SourceStatus is one row of the detect table.
type SourceStatus struct {
	ID         manager.ID
	Label      string
	Available  bool
	LastBackup time.Time
}

// PrintSources prints which sources are available and when each was last backed up.
func PrintSources(w io.Writer, rows []SourceStatus) {
	t := NewTableWriter(w, []string{"source", "name", "available", "last backup"})
	for _, r := range rows {
		avail := Muted.Sprint(SymbolError)
		if r.Available {
			avail = Installed.Sprint(SymbolSuccess)
		}
		last := Muted.Sprint("never")
		if !r.LastBackup.IsZero() {
			last = r.LastBackup.Local().Format("2006-01-02 15:04")
		}
		t.AddRow(SourceName.Sprint(string(r.ID)), r.Label, avail, last)
	}
	t.Render()
}

// PrintRestoreReport prints the outcome of every install attempt.
func PrintRestoreReport(w io.Writer, report restore.Report) {
	for _, o := range report.Outcomes {
		switch o.Status {
		case restore.StatusInstalled:
			fmt.Fprintf(w, "%s %s\n", Success.Sprint(SymbolSuccess), o.Identifier)
		case restore.StatusSkipped:
			fmt.Fprintf(w, "%s %s %s\n", Muted.Sprint(SymbolPending), o.Identifier, Muted.Sprint("(skipped)"))
		default:
			fmt.Fprintf(w, "%s %s %s\n", Error.Sprint(SymbolError), o.Identifier,
				Muted.Sprintf("(%s, exit %d)", o.Failure.Kind, o.ExitCode))
			if o.Message != "" {
				fmt.Fprintf(w, "    %s\n", o.Message)
			}
			if o.Failure.Suggestion != "" {
				fmt.Fprintf(w, "    %s %s\n", SymbolArrow, o.Failure.Suggestion)
			}
		}
	}
	fmt.Fprintf(w, "\n%d installed, %d failed\n", len(report.Succeeded()), len(report.Failed()))
}

// PrintSystemInfo prints system information.
func PrintSystemInfo(w io.Writer, prettyName, arch, distro, nativeManager string) {
	fmt.Fprintln(w, Header.Sprint("System Information"))

	printField(w, "Operating System", prettyName)
	printField(w, "Architecture", arch)
	if distro != "" {
		printField(w, "Distribution", distro)
	}
	if nativeManager != "" {
		printField(w, "Native Package Manager", nativeManager)
	}
	fmt.Fprintln(w)
}

// printField prints a single field with formatting.
func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s: %s\n", Info.Sprint(label), value)
}
