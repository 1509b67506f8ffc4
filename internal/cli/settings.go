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

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Back up or restore editor settings",
	Long: `Copy an editor's settings.json, keybindings.json and auxiliary
config files to or from the backup directory.

Examples:
  abr settings show vscode      # Where each file lives
  abr settings backup cursor    # Copy into the backup directory
  abr settings restore cursor   # Copy back into place`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show <host>",
	Short: "Show the settings files of an editor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := hostArg(args[0])
		if err != nil {
			return err
		}
		files, err := service().HostFiles(id)
		if err != nil {
			return err
		}
		printMappings(files)
		return nil
	},
}

var settingsBackupCmd = &cobra.Command{
	Use:   "backup <host>",
	Short: "Copy editor settings into the backup directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettings(args[0], history.OpSettingsBackup, service().BackupHostSettings)
	},
}

var settingsRestoreCmd = &cobra.Command{
	Use:   "restore <host>",
	Short: "Copy backed-up editor settings into place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettings(args[0], history.OpSettingsRestore, service().RestoreHostSettings)
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsBackupCmd)
	settingsCmd.AddCommand(settingsRestoreCmd)
}

func runSettings(name string, op history.Operation, copyFn func(manager.ID) ([]string, error)) error {
	id, err := hostArg(name)
	if err != nil {
		return err
	}

	entry := history.NewEntry(op, string(id))
	written, err := copyFn(id)
	for _, path := range written {
		entry.AddOutcome(path, nil)
	}
	if err != nil {
		entry.MarkFailed(err)
		recordHistory(entry)
		return err
	}
	entry.Finish()
	recordHistory(entry)

	if len(written) == 0 {
		ui.WarningMsg("No settings files found for %s", id)
		return nil
	}
	for _, path := range written {
		ui.SuccessMsg("%s", path)
	}
	return nil
}

// hostArg parses name and checks that it is an extension host.
func hostArg(name string) (manager.ID, error) {
	id, err := manager.ParseID(name)
	if err != nil {
		return "", err
	}
	if !id.IsHost() {
		return "", fmt.Errorf("%s is not an editor", id)
	}
	return id, nil
}

// printMappings prints where each file lives and which side exists.
func printMappings(files []inventory.FileMapping) {
	t := ui.NewTableWriter(os.Stdout, []string{"file", "local", "backup"})
	for _, f := range files {
		t.AddRow(f.Local, presence(f.LocalExists), presence(f.BackedUp))
	}
	t.Render()
}

func presence(ok bool) string {
	if ok {
		return ui.Installed.Sprint(ui.SymbolSuccess)
	}
	return ui.Muted.Sprint(ui.SymbolError)
}
