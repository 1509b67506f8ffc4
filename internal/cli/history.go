package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kakehashi-inc/app-backup-restore/internal/config"
	"github.com/kakehashi-inc/app-backup-restore/internal/history"
	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
)

var (
	historyLimit  int
	historyShow   string
	historyPrune  time.Duration
	historyOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past backup and restore runs",
	Long: `Display the runs recorded by abr, newest first.

Examples:
  abr history                 # Show recent runs
  abr history -l 20           # Show the last 20 runs
  abr history --show <id>     # Per-item outcomes of one run
  abr history --prune 720h    # Forget runs older than 30 days`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of entries to show")
	historyCmd.Flags().StringVar(&historyShow, "show", "", "show the items of one run")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete runs older than this")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", ui.FormatTable, "output format (table, json, yaml)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := ui.ParseFormat(historyOutput)
	if err != nil {
		return err
	}
	if err := config.EnsureDataDir(); err != nil {
		return err
	}
	store, err := history.Open(config.HistoryPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if historyPrune > 0 {
		n, err := store.Prune(historyPrune)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
		ui.SuccessMsg("Removed %d entries", n)
		return nil
	}

	if historyShow != "" {
		entry, err := store.Get(historyShow)
		if errors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("no history entry %s", historyShow)
		}
		if err != nil {
			return err
		}
		if format != ui.FormatTable {
			return ui.Encode(os.Stdout, format, entry)
		}
		printEntry(entry)
		return nil
	}

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if format != ui.FormatTable {
		return ui.Encode(os.Stdout, format, entries)
	}

	if len(entries) == 0 {
		ui.MutedMsg("No history entries found")
		return nil
	}

	ui.HeaderMsg("Run History")
	for i, entry := range entries {
		summary := entry.Summary()
		if !entry.Success {
			summary = ui.Error.Sprint(summary)
		}
		fmt.Printf("%2d. %s %s\n", i+1, summary, ui.Muted.Sprint(entry.ID))
		if entry.Error != "" {
			ui.MutedMsg("    Error: %s", entry.Error)
		}
	}

	total, _ := store.Count()
	ui.MutedMsg("\nShowing %d of %d total entries", len(entries), total)

	return nil
}

func printEntry(e *history.Entry) {
	ui.HeaderMsg("%s", e.Summary())
	if e.Error != "" {
		ui.ErrorMsg("%s", e.Error)
	}
	t := ui.NewTableWriter(os.Stdout, []string{"item", "status", "message"})
	for _, it := range e.Items {
		status := ui.Success.Sprint(it.Status)
		if it.Status != history.StatusOK {
			status = ui.Error.Sprint(it.Status)
		}
		t.AddRow(it.Name, status, it.Message)
	}
	t.Render()
}
