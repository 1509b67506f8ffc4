package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kakehashi-inc/app-backup-restore/internal/history"
	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
	"github.com/kakehashi-inc/app-backup-restore/pkg/inventory"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

var (
	backupOnly   []string
	backupOutput string
)

var backupCmd = &cobra.Command{
	Use:   "backup [sources...]",
	Short: "Write snapshots of installed items",
	Long: `Back up the installed items of the given sources, or of every
available source when none is given. Editor backups also copy settings,
keybindings and auxiliary config files.

A source whose listing fails keeps its previous snapshot; the other
sources are still backed up.

Examples:
  abr backup                        # Every available source
  abr backup apt flatpak            # Only these sources
  abr backup winget --only Git.Git  # Only selected identifiers`,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().StringSliceVar(&backupOnly, "only", nil, "identifiers to keep (single source only)")
	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", ui.FormatTable, "output format (table, json, yaml)")
}

func runBackup(cmd *cobra.Command, args []string) error {
	format, err := ui.ParseFormat(backupOutput)
	if err != nil {
		return err
	}
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	only := splitList(backupOnly)
	if len(only) > 0 && len(ids) != 1 {
		return fmt.Errorf("--only needs exactly one source")
	}

	target := ""
	if len(ids) == 1 {
		target = string(ids[0])
	}
	entry := history.NewEntry(history.OpBackup, target)

	sp, stop := startSpinner("Backing up")
	var result inventory.BackupResult
	if len(only) > 0 {
		result, err = service().BackupSelected(cmd.Context(), ids[0], only)
	} else {
		done := 0
		result, err = service().Backup(cmd.Context(), ids, func(id manager.ID, written []string, err error) {
			done++
			sp.UpdateMessage(fmt.Sprintf("Backing up (%d done, last: %s)", done, id))
		})
	}
	stop()

	if err != nil {
		entry.MarkFailed(err)
		recordHistory(entry)
		return err
	}

	for _, id := range result.Succeeded {
		entry.AddOutcome(string(id), nil)
	}
	for id, msg := range result.Failed {
		entry.AddStatus(string(id), history.StatusFailed, msg)
	}
	entry.Finish()
	recordHistory(entry)

	if format != ui.FormatTable {
		return ui.Encode(os.Stdout, format, result)
	}
	printBackupResult(result)
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d sources failed", len(result.Failed), len(result.Failed)+len(result.Succeeded))
	}
	return nil
}

func printBackupResult(result inventory.BackupResult) {
	for _, id := range result.Succeeded {
		ui.SuccessMsg("%s", id)
	}
	for id, msg := range result.Failed {
		ui.ErrorMsg("%s: %s", id, msg)
	}
	if verbose {
		for _, path := range result.Written {
			ui.MutedMsg("  %s", path)
		}
	}
	ui.MutedMsg("\n%d files written", len(result.Written))
}
