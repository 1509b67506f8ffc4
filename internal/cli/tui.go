package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
	"github.com/kakehashi-inc/app-backup-restore/internal/tui"
	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
	"github.com/kakehashi-inc/app-backup-restore/pkg/restore"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

var (
	tuiWSL    bool
	tuiPin    bool
	tuiScript string
)

var tuiCmd = &cobra.Command{
	Use:   "tui [source]",
	Short: "Pick items to restore interactively",
	Long: `Show installed and backed-up items of a source side by side and
select which ones to reinstall. Items that are only in the backup start
out selected.

Navigation:
  - Use arrow keys or j/k to move
  - Press tab to switch between all, backup only and installed
  - Press space to toggle, a/n to select all or none
  - Press / to filter
  - Press enter to restore the selection
  - Press q to quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiWSL, "wsl", false, "work on the WSL track of an editor")
	tuiCmd.Flags().BoolVar(&tuiPin, "pin", false, "pin the versions recorded in the backup")
	tuiCmd.Flags().StringVar(&tuiScript, "script", "", "write the selection to a script instead of installing (--script=path)")
	tuiCmd.Flags().Lookup("script").NoOptDefVal = scriptDefaultPath
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !ui.Interactive() {
		return ErrNotInteractive
	}
	id, err := sourceArg(cmd.Context(), args)
	if err != nil {
		return err
	}

	title := "abr restore: " + string(id)
	if tuiWSL {
		title += " (wsl)"
	}
	load := func(ctx context.Context) ([]snapshot.MergedItem, error) {
		if tuiWSL {
			return service().ReconcileWSL(ctx, id)
		}
		return service().Reconcile(ctx, id)
	}

	result, err := tui.Run(cmd.Context(), title, load)
	if err != nil {
		return err
	}
	if !result.Confirmed {
		return nil
	}
	if len(result.Items) == 0 {
		return ErrNothingToRestore
	}

	req := restore.Request{
		Target:      id,
		Identifiers: snapshot.IDs(result.Items),
		WSL:         tuiWSL,
	}
	if tuiPin {
		req.Versions = mergeVersions(snapshot.Versions(result.Items), nil)
	}

	if tuiScript != "" {
		return writeRestoreScript(req, tuiScript)
	}

	if !req.WSL {
		if err := executor.CheckElevation(elevationProgram(req)); err != nil {
			return err
		}
	}
	report, err := runRestoreRequest(cmd, req)
	if err != nil {
		return err
	}
	return reportError(report)
}
