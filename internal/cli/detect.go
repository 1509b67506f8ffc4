package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
	"github.com/kakehashi-inc/app-backup-restore/pkg/inventory"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show the system and which sources are available",
	Long: `Display information about the detected system, every source
that applies to it, whether its CLI is installed, and when it was last
backed up.

Examples:
  abr detect`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	s := service()
	reg := s.Registry()

	if info := reg.SystemInfo(); info != nil {
		nativeManager := ""
		if native, ok := reg.Native(); ok {
			nativeManager = native.DisplayName()
		}
		ui.PrintSystemInfo(os.Stdout, info.PrettyName, info.Arch, info.Distribution, nativeManager)
		switch {
		case executor.IsElevated():
			ui.MutedMsg("Running elevated; install commands need no prefix")
		case executor.ElevationTool() == "":
			ui.WarningMsg("No elevation program found; system-wide installs may fail")
		}
		if info.IsWindows() && !info.HasWSL {
			ui.MutedMsg("WSL is not installed; editor extensions are tracked for Windows only")
		}
	} else {
		ui.WarningMsg("System information not available")
	}

	meta, err := s.Metadata()
	switch {
	case errors.Is(err, inventory.ErrNoBackupDir):
		ui.WarningMsg("No backup directory configured; run 'abr config set-backup-dir <path>'")
		meta = snapshot.Metadata{}
	case err != nil:
		ui.WarningMsg("Could not read backup metadata: %v", err)
		meta = snapshot.Metadata{}
	}

	_, stop := startSpinner("Detecting sources")
	detected := s.DetectAvailableSources(cmd.Context())
	stop()

	var rows []ui.SourceStatus
	for _, m := range s.Sources() {
		rows = append(rows, ui.SourceStatus{
			ID:         m.ID(),
			Label:      m.DisplayName(),
			Available:  detected[m.ID()],
			LastBackup: meta[string(m.ID())].LastBackup,
		})
	}
	ui.PrintSources(os.Stdout, rows)

	return nil
}
