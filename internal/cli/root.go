// Package cli implements the command-line interface for abr.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kakehashi-inc/app-backup-restore/internal/config"
	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
	"github.com/kakehashi-inc/app-backup-restore/internal/logging"
	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
	"github.com/kakehashi-inc/app-backup-restore/pkg/inventory"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/namecache"
)

var (
	// Global flags
	cfgFile   string
	backupDir string
	dryRun    bool
	verbose   bool
	noColor   bool

	// Global state
	cfg     *config.Config
	svc     *inventory.Service
	closers []io.Closer
)

// Build metadata - set at build time via ldflags
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "abr",
	Short: "Back up and restore installed applications",
	Long: `abr records what is installed through package managers and
editor extension hosts, stores snapshots in a backup directory, and
reinstalls whatever is missing on a new machine.

Supported sources:
  Windows:  winget, msstore, scoop, chocolatey
  macOS:    homebrew
  Linux:    apt, yum, dnf, pacman, zypper, snap, flatpak, homebrew
  Editors:  vscode, cursor, antigravity, voideditor

Examples:
  abr config set-backup-dir ~/Dropbox/abr   # Choose where snapshots live
  abr backup                                # Back up every available source
  abr status apt                            # Compare installed and backed up
  abr restore apt --missing                 # Reinstall what is missing`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeApp()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&backupDir, "backup-dir", "", "backup directory (overrides the configured one)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "print install commands instead of running them")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(tuiCmd)
}

// Execute runs the root command.
func Execute() error {
	defer closeAll()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.ErrorMsg("%v", err)
	}
	return err
}

// initializeApp loads configuration and sets up logging and output.
func initializeApp() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Apply global flag overrides
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	if backupDir != "" {
		if err := cfg.SetBackupDirectory(backupDir); err != nil {
			return err
		}
	}

	closers = append(closers, logging.Configure(logging.Options{
		Level:   cfg.Output.LogLevel,
		Verbose: cfg.Output.Verbose,
		NoColor: !cfg.ShouldUseColor(),
	}))
	ui.Init(cfg.ShouldUseColor(), cfg.Output.Unicode)

	return nil
}

// service builds the inventory service on first use.
func service() *inventory.Service {
	if svc != nil {
		return svc
	}

	listExec := executor.New(false, false)
	installExec := executor.New(dryRun, cfg.Output.Verbose)
	installExec.SetStream(true)

	resolver := namecache.NewResolver(listExec, openNameCache())
	resolver.SetConcurrency(cfg.Cache.Concurrency)
	resolver.OnProgress(nameProgress)

	reg := inventory.NewRegistry(listExec, resolver, adapterOptions())
	if err := reg.Detect(); err != nil {
		log.Debug().Err(err).Msg("system detection failed")
	}

	svc = inventory.New(reg, inventory.Options{
		BackupDir:   cfg.General.BackupDirectory,
		Runner:      installExec,
		WSLRunner:   executor.NewWSL(listExec),
		Language:    cfg.LanguageTag(),
		Concurrency: cfg.Cache.Concurrency,
	})
	return svc
}

// openNameCache opens the configured display-name cache backend.
// A cache that cannot be opened degrades to memory.
func openNameCache() namecache.Store {
	if cfg.Cache.Backend == config.CacheJSON {
		if cfg.General.BackupDirectory == "" {
			return nil
		}
		return namecache.OpenInBackupDir(cfg.General.BackupDirectory)
	}

	if err := os.MkdirAll(config.CacheDir(), 0755); err != nil {
		log.Warn().Err(err).Msg("name cache unavailable")
		return nil
	}
	store, err := namecache.OpenBolt(config.NameCachePath())
	if err != nil {
		log.Warn().Err(err).Msg("name cache unavailable")
		return nil
	}
	closers = append(closers, store)
	return store
}

// adapterOptions maps manager settings onto install command options.
func adapterOptions() inventory.AdapterOptions {
	opts := inventory.AdapterOptions{
		Elevation:        make(map[manager.ID]string),
		FlatpakRemote:    cfg.GetManagerConfig(string(manager.Flatpak)).Remote,
		AcceptAgreements: cfg.GetManagerConfig(string(manager.Winget)).AcceptAgreements,
	}
	for name, prefix := range cfg.Elevations() {
		opts.Elevation[manager.ID(name)] = prefix
	}
	return opts
}

func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i].Close()
	}
	closers = nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print abr version",
	Run: func(cmd *cobra.Command, args []string) {
		ui.InfoMsg("abr version %s", Version)
		if Commit != "unknown" {
			ui.MutedMsg("  Commit: %s", Commit)
		}
		if BuildTime != "unknown" {
			ui.MutedMsg("  Built:  %s", BuildTime)
		}
	},
}
