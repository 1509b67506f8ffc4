package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
	"github.com/kakehashi-inc/app-backup-restore/internal/history"
	"github.com/kakehashi-inc/app-backup-restore/internal/ui"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/restore"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

// scriptDefaultPath is the --script value used when the flag is given without a path.
const scriptDefaultPath = "auto"

var (
	restoreMissing  bool
	restoreVersions []string
	restorePin      bool
	restoreWSL      bool
	restorePreview  bool
	restoreScript   string
	restoreYes      bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore [source] [identifiers...]",
	Short: "Reinstall items from a backup",
	Long: `Install the given identifiers with the source's own package manager,
or write the install commands to a script instead.

Identifiers are installed in the order given. A failed install does not
stop the ones after it.

Examples:
  abr restore apt --missing                   # Everything only in the backup
  abr restore chocolatey jq --version jq=1.7  # Pin a version
  abr restore vscode --missing --wsl          # Extensions inside WSL
  abr restore homebrew --missing --preview    # Print the script
  abr restore snap --missing --script=i.sh    # Write the script`,
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().BoolVar(&restoreMissing, "missing", false, "restore every item that is only in the backup")
	restoreCmd.Flags().StringArrayVar(&restoreVersions, "version", nil, "pin a version as id=version (repeatable)")
	restoreCmd.Flags().BoolVar(&restorePin, "pin", false, "pin the versions recorded in the backup")
	restoreCmd.Flags().BoolVar(&restoreWSL, "wsl", false, "restore the WSL track of an editor")
	restoreCmd.Flags().BoolVar(&restorePreview, "preview", false, "print the install script without running it")
	restoreCmd.Flags().StringVar(&restoreScript, "script", "", "write the install script instead of running it (--script=path)")
	restoreCmd.Flags().Lookup("script").NoOptDefVal = scriptDefaultPath
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "do not ask for confirmation")
	restoreCmd.MarkFlagsMutuallyExclusive("preview", "script")
}

func runRestore(cmd *cobra.Command, args []string) error {
	versions, err := parseVersions(restoreVersions)
	if err != nil {
		return err
	}
	id, err := sourceArg(cmd.Context(), args)
	if err != nil {
		return err
	}
	var identifiers []string
	if len(args) > 1 {
		identifiers = args[1:]
	}

	if restoreMissing || restorePin {
		merged, err := reconcile(cmd, id, restoreWSL)
		if err != nil {
			return err
		}
		if restoreMissing {
			identifiers = appendUnique(identifiers, snapshot.IDs(snapshot.Missing(merged))...)
		}
		if restorePin {
			versions = mergeVersions(snapshot.Versions(merged), versions)
		}
	}
	if len(identifiers) == 0 {
		return ErrNothingToRestore
	}

	req := restore.Request{Target: id, Identifiers: identifiers, Versions: versions, WSL: restoreWSL}

	switch {
	case restorePreview:
		script, err := service().RestorePreviewScript(req)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, script)
		return nil
	case restoreScript != "":
		return writeRestoreScript(req, restoreScript)
	}

	return executeRestore(cmd, req)
}

func writeRestoreScript(req restore.Request, path string) error {
	if path == scriptDefaultPath {
		path = ""
	}

	entry := history.NewEntry(history.OpScript, string(req.Target))
	entry.WSL = req.WSL

	written, err := service().RestoreWriteScript(req, path)
	if err != nil {
		entry.MarkFailed(err)
		recordHistory(entry)
		return err
	}
	for _, identifier := range req.Identifiers {
		entry.AddOutcome(identifier, nil)
	}
	entry.Finish()
	recordHistory(entry)

	ui.SuccessMsg("Wrote %d install commands to %s", len(req.Identifiers), written)
	return nil
}

func executeRestore(cmd *cobra.Command, req restore.Request) error {
	script, err := service().RestorePreviewScript(req)
	if err != nil {
		return err
	}
	ui.HeaderMsg("The following commands will run:")
	fmt.Fprintln(os.Stdout, script)

	if !req.WSL {
		if err := executor.CheckElevation(elevationProgram(req)); err != nil {
			return err
		}
	}

	if !restoreYes {
		if !ui.Interactive() {
			return ErrNotInteractive
		}
		ok, err := ui.Confirm(fmt.Sprintf("Install %d items?", len(req.Identifiers)), true)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	report, err := runRestoreRequest(cmd, req)
	if err != nil {
		return err
	}
	return reportError(report)
}

// reportError summarizes failed installs as an error.
func reportError(report restore.Report) error {
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d items failed", len(failed), len(report.Outcomes))
	}
	return nil
}

// runRestoreRequest installs req, prints the report and records it.
func runRestoreRequest(cmd *cobra.Command, req restore.Request) (restore.Report, error) {
	entry := history.NewEntry(history.OpRestore, string(req.Target))
	entry.WSL = req.WSL

	report, err := service().RestoreExecute(cmd.Context(), req, func(done, total int, o restore.Outcome) {
		ui.MutedMsg("[%d/%d] %s: %s", done, total, o.Identifier, o.Status)
	})
	if err != nil {
		entry.MarkFailed(err)
		recordHistory(entry)
		return report, err
	}

	for _, o := range report.Outcomes {
		if o.Status == restore.StatusInstalled {
			entry.AddOutcome(o.Identifier, nil)
			continue
		}
		entry.AddStatus(o.Identifier, string(o.Status), o.Failure.Kind.String())
	}
	entry.Finish()
	recordHistory(entry)

	fmt.Fprintln(os.Stdout)
	ui.PrintRestoreReport(os.Stdout, report)
	return report, nil
}

// elevationProgram returns the prefix the target's install commands run under,
// or "" when they are not elevated.
func elevationProgram(req restore.Request) string {
	mgr, err := service().Registry().MustGet(req.Target)
	if err != nil {
		return ""
	}
	def, _ := manager.Lookup(req.Target)
	if c := mgr.InstallCommand(req.Identifiers[0], ""); c.Program != def.Binary {
		return c.Program
	}
	return ""
}

// appendUnique appends the values not already present in dst.
func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// mergeVersions overlays explicit on top of recorded versions.
func mergeVersions(recorded, explicit map[string]string) map[string]string {
	out := make(map[string]string, len(recorded)+len(explicit))
	for id, v := range recorded {
		if v != "" {
			out[id] = v
		}
	}
	for id, v := range explicit {
		out[id] = v
	}
	return out
}
