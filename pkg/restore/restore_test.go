package restore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

// defaultBuilder builds commands with the default install options.
type defaultBuilder manager.ID

func (d defaultBuilder) InstallCommand(identifier, version string) manager.Command {
	return manager.InstallCommand(manager.ID(d), identifier, version)
}

type scriptedRunner struct {
	fail  map[string]executor.Result
	calls []string
}

func (s *scriptedRunner) Run(_ context.Context, name string, args ...string) executor.Result {
	line := strings.Join(append([]string{name}, args...), " ")
	s.calls = append(s.calls, line)
	if res, ok := s.fail[line]; ok {
		return res
	}
	return executor.Result{Stdout: "ok"}
}

func (s *scriptedRunner) FindExecutable(string) bool { return true }

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Request{Target: manager.APT}.Validate(), ErrEmptyRequest)
	assert.ErrorIs(t, Request{Target: manager.APT, Identifiers: []string{" "}}.Validate(), ErrEmptyRequest)
	assert.ErrorIs(t, Request{Target: "npm", Identifiers: []string{"x"}}.Validate(), manager.ErrUnknownSource)
	assert.Error(t, Request{Target: manager.APT, Identifiers: []string{"x"}, WSL: true}.Validate())
	assert.NoError(t, Request{Target: manager.VSCode, Identifiers: []string{"x"}, WSL: true}.Validate())
}

func TestCommandsPreserveOrder(t *testing.T) {
	req := Request{Target: manager.Chocolatey, Identifiers: []string{"zlib", "git", "jq"}, Versions: map[string]string{"jq": "1.7"}}

	cmds, err := Commands(req, defaultBuilder(manager.Chocolatey))
	require.NoError(t, err)

	require.Len(t, cmds, 3)
	assert.Equal(t, "choco install zlib", cmds[0].String())
	assert.Equal(t, "choco install git", cmds[1].String())
	assert.Equal(t, manager.Command{Program: "choco", Args: []string{"install", "jq", "--version", "1.7"}}, cmds[2])
}

func TestCommandsAPT(t *testing.T) {
	cmds, err := Commands(Request{Target: manager.APT, Identifiers: []string{"curl"}}, defaultBuilder(manager.APT))
	require.NoError(t, err)

	assert.Equal(t, []manager.Command{{Program: "sudo", Args: []string{"apt", "install", "-y", "curl"}}}, cmds)
}

func TestScript(t *testing.T) {
	cmds := []manager.Command{
		{Program: "brew", Args: []string{"install", "jq"}},
		{Program: "brew", Args: []string{"install", "git"}},
	}

	assert.Equal(t, "#!/usr/bin/env bash\nbrew install jq\nbrew install git", Script(cmds, false))
	assert.Equal(t, "brew install jq\r\nbrew install git", Script(cmds, true))
}

func TestPreview(t *testing.T) {
	req := Request{Target: manager.Winget, Identifiers: []string{"Git.Git", "7zip.7zip"}}

	text, err := Preview(req, defaultBuilder(manager.Winget), manager.Windows)
	require.NoError(t, err)
	assert.Equal(t, "winget install Git.Git\r\nwinget install 7zip.7zip", text)

	_, err = Preview(Request{Target: manager.Winget}, defaultBuilder(manager.Winget), manager.Windows)
	assert.ErrorIs(t, err, ErrEmptyRequest)
}

func TestDefaultScriptPath(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, filepath.Join(os.TempDir(), "abr_install_1700000000123.sh"), DefaultScriptPath(manager.Linux, now))
	assert.Equal(t, filepath.Join(os.TempDir(), "abr_install_1700000000123.ps1"), DefaultScriptPath(manager.Windows, now))
}

func TestWriteScriptPOSIX(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on Windows")
	}
	path := filepath.Join(t.TempDir(), "out", "restore.sh")
	req := Request{Target: manager.Flatpak, Identifiers: []string{"org.gimp.GIMP"}}

	written, err := WriteScript(req, defaultBuilder(manager.Flatpak), path, manager.Linux)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env bash\nflatpak install -y flathub org.gimp.GIMP", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestWriteScriptPowerShell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.ps1")
	req := Request{Target: manager.Scoop, Identifiers: []string{"7zip", "git"}}

	_, err := WriteScript(req, defaultBuilder(manager.Scoop), path, manager.Windows)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "scoop install 7zip\r\nscoop install git", string(data))
}

func TestWriteScriptDefaultPath(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	req := Request{Target: manager.Homebrew, Identifiers: []string{"jq"}}

	written, err := WriteScript(req, defaultBuilder(manager.Homebrew), "  ", manager.Darwin)
	require.NoError(t, err)
	defer os.Remove(written)

	assert.True(t, strings.HasPrefix(filepath.Base(written), "abr_install_"))
	assert.Equal(t, ".sh", filepath.Ext(written))
}

func TestExecuteFailForward(t *testing.T) {
	runner := &scriptedRunner{fail: map[string]executor.Result{
		"sudo apt install -y nosuch": {ExitCode: 100, Stderr: "E: Unable to locate package nosuch"},
	}}
	req := Request{Target: manager.APT, Identifiers: []string{"curl", "nosuch", "git"}}

	var seen []string
	report, err := Execute(context.Background(), runner, req, defaultBuilder(manager.APT), func(done, total int, o Outcome) {
		assert.Equal(t, 3, total)
		seen = append(seen, o.Identifier)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"sudo apt install -y curl", "sudo apt install -y nosuch", "sudo apt install -y git"}, runner.calls)
	assert.Equal(t, []string{"curl", "nosuch", "git"}, seen)
	assert.Equal(t, []string{"curl", "git"}, report.Succeeded())
	assert.Equal(t, []string{"nosuch"}, report.Failed())

	failed := report.Outcomes[1]
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, 100, failed.ExitCode)
	assert.Equal(t, manager.FailureNotFound, failed.Failure.Kind)
	assert.Equal(t, "E: Unable to locate package nosuch", failed.Message)
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &scriptedRunner{}

	report, err := Execute(ctx, runner, Request{Target: manager.Snap, Identifiers: []string{"core"}}, defaultBuilder(manager.Snap), nil)
	require.NoError(t, err)

	assert.Empty(t, runner.calls)
	assert.Equal(t, StatusSkipped, report.Outcomes[0].Status)
	assert.Equal(t, []string{"core"}, report.Failed())
}

func TestExecuteInvalidRequest(t *testing.T) {
	_, err := Execute(context.Background(), &scriptedRunner{}, Request{Target: manager.Snap}, defaultBuilder(manager.Snap), nil)
	assert.True(t, errors.Is(err, ErrEmptyRequest))
}
