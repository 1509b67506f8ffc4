package cli

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/kakehashi-inc/app-backup-restore/internal/config"
	"github.com/kakehashi-inc/app-backup-restore/internal/logging"
	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show the effective configuration or change the backup directory.

Examples:
  abr config show
  abr config set-backup-dir ~/Dropbox/abr`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.MutedMsg("# config:  %s", configPath())
		ui.MutedMsg("# history: %s", config.HistoryPath())
		ui.MutedMsg("# log:     %s", logging.LogFilePath())
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

var configSetBackupDirCmd = &cobra.Command{
	Use:   "set-backup-dir [path]",
	Short: "Set the backup directory, creating it if needed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir string
		if len(args) == 1 {
			dir = args[0]
		} else {
			if !ui.Interactive() {
				return ErrNotInteractive
			}
			var err error
			dir, err = ui.Input("Backup directory", cfg.General.BackupDirectory)
			if err != nil {
				return err
			}
		}

		if err := cfg.SetBackupDirectory(dir); err != nil {
			return err
		}
		if err := cfg.SaveTo(configPath()); err != nil {
			return err
		}
		ui.SuccessMsg("Backup directory set to %s", cfg.General.BackupDirectory)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetBackupDirCmd)
}

// configPath returns the file configuration is read from and saved to.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigPath()
}
