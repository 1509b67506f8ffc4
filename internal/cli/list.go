package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

var (
	listOutput   string
	listWSL      bool
	statusOutput string
	statusWSL    bool
	statusFilter string
)

var listCmd = &cobra.Command{
	Use:   "list [source]",
	Short: "List what a source has installed",
	Long: `List the items a package manager or editor currently has installed.

Examples:
  abr list apt                  # Installed Debian packages
  abr list vscode --wsl         # Extensions installed inside WSL
  abr list winget -o json       # Machine-readable output`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var statusCmd = &cobra.Command{
	Use:   "status [source]",
	Short: "Compare installed items with the backup",
	Long: `Merge the live listing of a source with its snapshot and show,
for every item, whether it is installed, only in the backup, or both.

Examples:
  abr status apt                   # Everything, sorted by name
  abr status apt --filter missing  # Only items that need restoring
  abr status cursor --wsl          # The WSL track of an editor`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", ui.FormatTable, "output format (table, json, yaml)")
	listCmd.Flags().BoolVar(&listWSL, "wsl", false, "list the WSL track of an editor")

	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", ui.FormatTable, "output format (table, json, yaml)")
	statusCmd.Flags().BoolVar(&statusWSL, "wsl", false, "compare the WSL track of an editor")
	statusCmd.Flags().StringVar(&statusFilter, "filter", "", "show only missing or installed items")
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := ui.ParseFormat(listOutput)
	if err != nil {
		return err
	}
	id, err := sourceArg(cmd.Context(), args)
	if err != nil {
		return err
	}

	_, stop := startSpinner("Listing " + string(id))
	var items []manager.Item
	if listWSL {
		items, err = service().ListInstalledWSL(cmd.Context(), id)
	} else {
		items, err = service().ListInstalled(cmd.Context(), id)
	}
	stop()
	if err != nil {
		return err
	}

	if format != ui.FormatTable {
		return ui.Encode(os.Stdout, format, ui.ItemRows(items))
	}
	ui.PrintItems(os.Stdout, items)
	ui.MutedMsg("\nTotal: %d items", len(items))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := ui.ParseFormat(statusOutput)
	if err != nil {
		return err
	}
	switch statusFilter {
	case "", "missing", "installed":
	default:
		return fmt.Errorf("unknown filter %q (want missing or installed)", statusFilter)
	}
	id, err := sourceArg(cmd.Context(), args)
	if err != nil {
		return err
	}

	merged, err := reconcile(cmd, id, statusWSL)
	if err != nil {
		return err
	}

	switch statusFilter {
	case "missing":
		merged = snapshot.Missing(merged)
	case "installed":
		merged = snapshot.Installed(merged)
	}

	if format != ui.FormatTable {
		return ui.Encode(os.Stdout, format, merged)
	}
	ui.PrintMerged(os.Stdout, merged)
	return nil
}

// reconcile merges live and backed-up items with a spinner running.
func reconcile(cmd *cobra.Command, id manager.ID, wsl bool) ([]snapshot.MergedItem, error) {
	_, stop := startSpinner("Reading " + string(id))
	defer stop()

	if wsl {
		return service().ReconcileWSL(cmd.Context(), id)
	}
	return service().Reconcile(cmd.Context(), id)
}
