package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kakehashi-inc/app-backup-restore/internal/history"
	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Back up or restore config-only applications",
	Long: `Copy the config files of applications such as git, ssh, npm and
the shells to or from the backup directory.

Examples:
  abr files list            # Which apps have files on this machine
  abr files list git        # Where git's files live
  abr files backup          # Every app with files here
  abr files restore ssh     # Copy ssh's files back into place`,
}

var filesListCmd = &cobra.Command{
	Use:   "list [app]",
	Short: "List config apps or the files of one app",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFilesList,
}

var filesBackupCmd = &cobra.Command{
	Use:   "backup [apps...]",
	Short: "Copy config files into the backup directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		apps := args
		if len(apps) == 0 {
			apps = availableConfigApps()
		}
		return runFiles(apps, history.OpFilesBackup, service().BackupConfigApp)
	},
}

var filesRestoreCmd = &cobra.Command{
	Use:   "restore [apps...]",
	Short: "Copy backed-up config files into place",
	RunE: func(cmd *cobra.Command, args []string) error {
		apps := args
		if len(apps) == 0 {
			if !ui.Interactive() {
				return ErrNotInteractive
			}
			var ids []string
			for _, app := range snapshot.ConfigApps() {
				ids = append(ids, app.ID)
			}
			selected, err := ui.SelectMultiple("Config apps to restore", ids)
			if err != nil {
				return err
			}
			apps = selected
		}
		return runFiles(apps, history.OpFilesRestore, service().RestoreConfigApp)
	},
}

func init() {
	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesBackupCmd)
	filesCmd.AddCommand(filesRestoreCmd)
}

func runFilesList(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		files, err := service().ConfigFiles(args[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			ui.MutedMsg("%s has no config files on %s", args[0], service().Platform())
			return nil
		}
		printMappings(files)
		return nil
	}

	meta, err := service().Metadata()
	if err != nil {
		meta = snapshot.Metadata{}
	}
	available := service().ConfigAppAvailability()

	t := ui.NewTableWriter(os.Stdout, []string{"app", "name", "present", "last backup"})
	for _, app := range snapshot.ConfigApps() {
		if len(app.FilesFor(service().Platform())) == 0 {
			continue
		}
		last := ui.Muted.Sprint("never")
		if e, ok := meta[app.ID]; ok && !e.LastBackup.IsZero() {
			last = e.LastBackup.Local().Format("2006-01-02 15:04")
		}
		t.AddRow(ui.SourceName.Sprint(app.ID), app.Label, presence(available[app.ID]), last)
	}
	t.Render()
	return nil
}

// availableConfigApps returns the apps with at least one file on this machine.
func availableConfigApps() []string {
	available := service().ConfigAppAvailability()
	var apps []string
	for _, app := range snapshot.ConfigApps() {
		if available[app.ID] {
			apps = append(apps, app.ID)
		}
	}
	return apps
}

// runFiles copies each app and records one history entry for the batch.
// One app failing does not stop the rest.
func runFiles(apps []string, op history.Operation, copyFn func(string) ([]string, error)) error {
	if len(apps) == 0 {
		ui.WarningMsg("No config apps to process")
		return nil
	}

	target := ""
	if len(apps) == 1 {
		target = apps[0]
	}
	entry := history.NewEntry(op, target)

	failed := 0
	for _, app := range apps {
		written, err := copyFn(app)
		entry.AddOutcome(app, err)
		if err != nil {
			ui.ErrorMsg("%s: %v", app, err)
			failed++
			continue
		}
		ui.SuccessMsg("%s (%d files)", app, len(written))
	}
	entry.Finish()
	recordHistory(entry)

	if failed > 0 {
		return fmt.Errorf("%d of %d apps failed", failed, len(apps))
	}
	return nil
}
