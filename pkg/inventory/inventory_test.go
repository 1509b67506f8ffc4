package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/kakehashi-inc/app-backup-restore/internal/executor"
	"github.com/kakehashi-inc/app-backup-restore/pkg/envpath"
	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
	"github.com/kakehashi-inc/app-backup-restore/pkg/restore"
	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

type stubManager struct {
	id        manager.ID
	available bool
	items     []manager.Item
	err       error
}

func (m *stubManager) ID() manager.ID                     { return m.id }
func (m *stubManager) DisplayName() string                { return string(m.id) }
func (m *stubManager) IsAvailable(_ context.Context) bool { return m.available }
func (m *stubManager) ListInstalled(_ context.Context) ([]manager.Item, error) {
	if m.err != nil {
		return []manager.Item{}, m.err
	}
	return m.items, nil
}
func (m *stubManager) InstallCommand(identifier, version string) manager.Command {
	return manager.InstallCommand(m.id, identifier, version)
}

type recordingRunner struct {
	mu     sync.Mutex
	calls  []string
	output map[string]executor.Result
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) executor.Result {
	line := strings.Join(append([]string{name}, args...), " ")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, line)
	if res, ok := r.output[line]; ok {
		return res
	}
	return executor.Result{}
}

func (r *recordingRunner) FindExecutable(string) bool { return true }

type fixture struct {
	svc    *Service
	root   string
	home   string
	runner *recordingRunner
}

func newFixture(t *testing.T, platform manager.Platform, managers ...manager.Manager) *fixture {
	t.Helper()

	reg := manager.NewRegistry()
	for _, m := range managers {
		reg.Register(m)
	}

	f := &fixture{
		root:   t.TempDir(),
		home:   t.TempDir(),
		runner: &recordingRunner{},
	}
	paths := &envpath.Resolver{
		GOOS:   "linux",
		Lookup: func(string) (string, bool) { return "", false },
		Home:   func() (string, error) { return f.home, nil },
	}
	f.svc = New(reg, Options{
		BackupDir: f.root,
		Runner:    f.runner,
		Language:  language.English,
		Paths:     paths,
		Platform:  platform,
	})
	return f
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestBackupIsolatesFailures(t *testing.T) {
	apt := &stubManager{id: manager.APT, available: true, items: []manager.Item{
		manager.AptItem{Package: "git", Version: "1:2.43.0"},
	}}
	snap := &stubManager{id: manager.Snap, available: true, err: &manager.ExecutionError{
		Source: manager.Snap, Program: "snap", ExitCode: 1, Stderr: "cannot communicate with server",
	}}
	f := newFixture(t, manager.Linux, apt, snap)

	var observed []manager.ID
	res, err := f.svc.Backup(context.Background(), []manager.ID{manager.APT, manager.Snap}, func(id manager.ID, _ []string, _ error) {
		observed = append(observed, id)
	})
	require.NoError(t, err)

	assert.Equal(t, []manager.ID{manager.APT}, res.Succeeded)
	assert.Contains(t, res.Failed[manager.Snap], "cannot communicate with server")
	assert.ElementsMatch(t, []manager.ID{manager.APT, manager.Snap}, observed)

	assert.FileExists(t, filepath.Join(f.root, "apt_packages.json"))
	assert.NoFileExists(t, filepath.Join(f.root, "snap_packages.json"))

	meta, err := f.svc.Metadata()
	require.NoError(t, err)
	assert.Contains(t, meta, "apt")
	assert.NotContains(t, meta, "snap")
}

func TestBackupFailureKeepsPreviousSnapshot(t *testing.T) {
	snap := &stubManager{id: manager.Snap, available: true, err: errors.New("boom")}
	f := newFixture(t, manager.Linux, snap)

	previous := `[{"Name":"core","Version":"16"}]`
	writeFile(t, filepath.Join(f.root, "snap_packages.json"), previous)

	_, err := f.svc.Backup(context.Background(), []manager.ID{manager.Snap}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(f.root, "snap_packages.json"))
	require.NoError(t, err)
	assert.Equal(t, previous, string(data))
}

func TestBackupDefaultsToAvailableSources(t *testing.T) {
	apt := &stubManager{id: manager.APT, available: true}
	dnf := &stubManager{id: manager.DNF, available: false}
	scoop := &stubManager{id: manager.Scoop, available: true}
	f := newFixture(t, manager.Linux, apt, dnf, scoop)

	res, err := f.svc.Backup(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []manager.ID{manager.APT}, res.Succeeded)
	assert.Empty(t, res.Failed)
}

func TestBackupRejectsUnknownSource(t *testing.T) {
	f := newFixture(t, manager.Linux)
	_, err := f.svc.Backup(context.Background(), []manager.ID{"nope"}, nil)
	assert.ErrorIs(t, err, manager.ErrUnknownSource)
}

func TestOperationsWithoutBackupDir(t *testing.T) {
	svc := New(manager.NewRegistry(), Options{Platform: manager.Linux})

	_, err := svc.Backup(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNoBackupDir)
	_, err = svc.ListBackedUp(manager.APT)
	assert.ErrorIs(t, err, ErrNoBackupDir)
	_, err = svc.Metadata()
	assert.ErrorIs(t, err, ErrNoBackupDir)
}

func TestBackupSelected(t *testing.T) {
	apt := &stubManager{id: manager.APT, available: true, items: []manager.Item{
		manager.AptItem{Package: "git", Version: "1"},
		manager.AptItem{Package: "curl", Version: "2"},
		manager.AptItem{Package: "vim", Version: "3"},
	}}
	f := newFixture(t, manager.Linux, apt)

	res, err := f.svc.BackupSelected(context.Background(), manager.APT, []string{"vim", "git"})
	require.NoError(t, err)
	assert.Equal(t, []manager.ID{manager.APT}, res.Succeeded)

	items, err := f.svc.ListBackedUp(manager.APT)
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "vim"}, manager.Identities(items))
}

func TestReconcile(t *testing.T) {
	winget := &stubManager{id: manager.Winget, available: true, items: []manager.Item{
		manager.WingetItem{PackageID: "A", Name: "Alpha", Version: "1"},
		manager.WingetItem{PackageID: "B", Name: "Bravo", Version: "2"},
	}}
	f := newFixture(t, manager.Windows, winget)
	writeFile(t, filepath.Join(f.root, "winget_packages.json"),
		`[{"PackageId":"B","Name":"Bravo","Version":"1"},{"PackageId":"C","Name":"Charlie","Version":"3"}]`)

	merged, err := f.svc.Reconcile(context.Background(), manager.Winget)
	require.NoError(t, err)
	require.Len(t, merged, 3)

	assert.Equal(t, []string{"A", "B", "C"}, snapshot.IDs(merged))
	assert.Equal(t, snapshot.ProvenanceInstalled, merged[0].Provenance)
	assert.Equal(t, snapshot.ProvenanceBoth, merged[1].Provenance)
	assert.Equal(t, "2", merged[1].Version)
	assert.Equal(t, snapshot.ProvenanceBackupOnly, merged[2].Provenance)
	assert.False(t, merged[2].IsInstalled)
}

func TestListInstalledFailureIsEmpty(t *testing.T) {
	apt := &stubManager{id: manager.APT, err: &manager.ParseError{Source: manager.APT, Err: errors.New("bad")}}
	f := newFixture(t, manager.Linux, apt)

	items, err := f.svc.ListInstalled(context.Background(), manager.APT)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = f.svc.ListInstalled(context.Background(), manager.Pacman)
	assert.ErrorIs(t, err, manager.ErrUnknownSource)
}

func TestListBackedUpCorruptSnapshot(t *testing.T) {
	f := newFixture(t, manager.Linux, &stubManager{id: manager.APT})
	writeFile(t, filepath.Join(f.root, "apt_packages.json"), "{not json")

	items, err := f.svc.ListBackedUp(manager.APT)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHostBackupCopiesSettings(t *testing.T) {
	code := &stubManager{id: manager.VSCode, available: true, items: []manager.Item{
		manager.ExtensionItem{ID: "golang.go", Version: "0.41.0"},
	}}
	f := newFixture(t, manager.Linux, code)
	writeFile(t, filepath.Join(f.home, ".config/Code/User/settings.json"), `{"editor.tabSize": 4}`)
	writeFile(t, filepath.Join(f.home, ".config/Code/User/mcp.json"), `{}`)

	res, err := f.svc.Backup(context.Background(), []manager.ID{manager.VSCode}, nil)
	require.NoError(t, err)
	require.Equal(t, []manager.ID{manager.VSCode}, res.Succeeded)

	assert.ElementsMatch(t, []string{
		filepath.Join(f.root, "vscode", "extensions.json"),
		filepath.Join(f.root, "vscode", "settings.json"),
		filepath.Join(f.root, "vscode", "mcp.json"),
	}, res.Written)
	assert.NoFileExists(t, filepath.Join(f.root, "vscode", "keybindings.json"))
	assert.NoFileExists(t, filepath.Join(f.root, "vscode", "extensions_wsl.json"))
}

func TestRestoreHostSettings(t *testing.T) {
	f := newFixture(t, manager.Linux, &stubManager{id: manager.Cursor})
	writeFile(t, filepath.Join(f.root, "cursor", "keybindings.json"), `[]`)
	writeFile(t, filepath.Join(f.root, "cursor", "mcp.json"), `{"servers":{}}`)

	written, err := f.svc.RestoreHostSettings(manager.Cursor)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	data, err := os.ReadFile(filepath.Join(f.home, ".cursor", "mcp.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"servers":{}}`, string(data))
	assert.FileExists(t, filepath.Join(f.home, ".config/Cursor/User/keybindings.json"))

	_, err = f.svc.RestoreHostSettings(manager.APT)
	assert.ErrorIs(t, err, manager.ErrUnknownSource)
}

func TestHostBackupWSLTrackOnWindows(t *testing.T) {
	code := &stubManager{id: manager.VSCode, available: true}
	reg := manager.NewRegistry()
	reg.Register(code)

	wsl := &recordingRunner{output: map[string]executor.Result{
		"code --list-extensions --show-versions": {Stdout: "ms-python.python@2024.1.0\n"},
	}}
	root := t.TempDir()
	svc := New(reg, Options{
		BackupDir: root,
		WSLRunner: wsl,
		Platform:  manager.Windows,
		Paths: &envpath.Resolver{
			GOOS:   "windows",
			Lookup: func(string) (string, bool) { return "", false },
			Home:   func() (string, error) { return "", errors.New("no home") },
		},
	})

	res, err := svc.Backup(context.Background(), []manager.ID{manager.VSCode}, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Written, filepath.Join(root, "vscode", "extensions_wsl.json"))

	items, err := svc.ListBackedUpWSL(manager.VSCode)
	require.NoError(t, err)
	assert.Equal(t, []string{"ms-python.python"}, manager.Identities(items))

	primary, err := svc.ListBackedUp(manager.VSCode)
	require.NoError(t, err)
	assert.Empty(t, primary)
}

func TestConfigAppBackupAndRestore(t *testing.T) {
	f := newFixture(t, manager.Linux)
	writeFile(t, filepath.Join(f.home, ".gitconfig"), "[user]\n\tname = someone\n")

	avail := f.svc.ConfigAppAvailability()
	assert.True(t, avail["git"])
	assert.False(t, avail["zsh"])

	written, err := f.svc.BackupConfigApp("git")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(f.root, "git", ".gitconfig")}, written)

	meta, err := f.svc.Metadata()
	require.NoError(t, err)
	assert.Contains(t, meta, "git")

	require.NoError(t, os.Remove(filepath.Join(f.home, ".gitconfig")))
	restored, err := f.svc.RestoreConfigApp("git")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(f.home, ".gitconfig")}, restored)

	_, err = f.svc.BackupConfigApp("emacs")
	assert.ErrorIs(t, err, manager.ErrUnknownSource)
}

func TestConfigAppWithoutFilesOnPlatform(t *testing.T) {
	f := newFixture(t, manager.Linux)
	_, err := f.svc.BackupConfigApp("wsl")
	assert.Error(t, err)
}

func TestRestoreExecute(t *testing.T) {
	f := newFixture(t, manager.Linux, &stubManager{id: manager.APT})
	f.runner.output = map[string]executor.Result{
		"sudo apt install -y missing": {ExitCode: 100, Stderr: "E: Unable to locate package missing"},
	}

	var progress []int
	report, err := f.svc.RestoreExecute(context.Background(), restore.Request{
		Target:      manager.APT,
		Identifiers: []string{"git", "missing", "curl"},
	}, func(done, _ int, _ restore.Outcome) {
		progress = append(progress, done)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"git", "curl"}, report.Succeeded())
	assert.Equal(t, []string{"missing"}, report.Failed())
	assert.Equal(t, manager.FailureNotFound, report.Outcomes[1].Failure.Kind)
	assert.Equal(t, []int{1, 2, 3}, progress)
	assert.Len(t, f.runner.calls, 3)
}

type bundleHost struct {
	*stubManager
	bin string
}

func (h bundleHost) ExecRunner(base manager.Runner) manager.Runner {
	return renamingRunner{Runner: base, from: "code", to: h.bin}
}

type renamingRunner struct {
	manager.Runner
	from, to string
}

func (r renamingRunner) Run(ctx context.Context, name string, args ...string) executor.Result {
	if name == r.from {
		name = r.to
	}
	return r.Runner.Run(ctx, name, args...)
}

func TestRestoreExecuteUsesAdapterRunner(t *testing.T) {
	host := bundleHost{stubManager: &stubManager{id: manager.VSCode}, bin: "/opt/vscode/bin/code"}
	f := newFixture(t, manager.Darwin, host)
	req := restore.Request{Target: manager.VSCode, Identifiers: []string{"golang.go"}}

	report, err := f.svc.RestoreExecute(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang.go"}, report.Succeeded())
	assert.Equal(t, []string{"/opt/vscode/bin/code --install-extension golang.go"}, f.runner.calls)

	script, err := f.svc.RestorePreviewScript(req)
	require.NoError(t, err)
	assert.Contains(t, script, "code --install-extension golang.go")
	assert.NotContains(t, script, "/opt/vscode")
}

func TestRestoreExecuteWSLWithoutRunner(t *testing.T) {
	f := newFixture(t, manager.Linux, &stubManager{id: manager.VSCode})

	report, err := f.svc.RestoreExecute(context.Background(), restore.Request{
		Target:      manager.VSCode,
		Identifiers: []string{"golang.go"},
		WSL:         true,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang.go"}, report.Failed())
	assert.Equal(t, executor.ExitNotStarted, report.Outcomes[0].ExitCode)
	assert.Empty(t, f.runner.calls)
}

func TestRestoreExecuteInvalidRequest(t *testing.T) {
	f := newFixture(t, manager.Linux, &stubManager{id: manager.APT})

	_, err := f.svc.RestoreExecute(context.Background(), restore.Request{Target: manager.APT}, nil)
	assert.ErrorIs(t, err, restore.ErrEmptyRequest)

	_, err = f.svc.RestoreExecute(context.Background(), restore.Request{
		Target: manager.APT, Identifiers: []string{"git"}, WSL: true,
	}, nil)
	assert.Error(t, err)
}

func TestRestoreScripts(t *testing.T) {
	f := newFixture(t, manager.Linux, &stubManager{id: manager.Homebrew})
	req := restore.Request{Target: manager.Homebrew, Identifiers: []string{"git", "jq"}}

	preview, err := f.svc.RestorePreviewScript(req)
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env bash\nbrew install git\nbrew install jq", preview)

	out := filepath.Join(t.TempDir(), "restore.sh")
	path, err := f.svc.RestoreWriteScript(req, out)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, preview, string(data))
}

func TestNewRegistryRegistersEverySource(t *testing.T) {
	reg := NewRegistry(&recordingRunner{}, nil, AdapterOptions{
		Elevation:     map[manager.ID]string{manager.APT: "doas"},
		FlatpakRemote: "fedora",
	})

	assert.Len(t, reg.All(), len(manager.Defs()))

	apt, err := reg.MustGet(manager.APT)
	require.NoError(t, err)
	assert.Equal(t, "doas apt install -y git", apt.InstallCommand("git", "").String())

	flatpak, err := reg.MustGet(manager.Flatpak)
	require.NoError(t, err)
	assert.Equal(t, "flatpak install -y fedora org.gimp.GIMP", flatpak.InstallCommand("org.gimp.GIMP", "").String())
}

func TestSourcesFilteredByPlatform(t *testing.T) {
	reg := NewRegistry(&recordingRunner{}, nil, AdapterOptions{})
	svc := New(reg, Options{Platform: manager.Darwin})

	var ids []manager.ID
	for _, m := range svc.Sources() {
		ids = append(ids, m.ID())
	}
	assert.Equal(t, []manager.ID{
		manager.Homebrew, manager.VSCode, manager.Cursor, manager.Antigravity, manager.VoidEditor,
	}, ids)
}
