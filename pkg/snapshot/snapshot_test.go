package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

func TestFileName(t *testing.T) {
	tests := map[manager.ID]string{
		manager.Winget:     "winget_packages.json",
		manager.MSStore:    "msstore_packages.json",
		manager.Scoop:      "scoop_apps.json",
		manager.Chocolatey: "chocolatey_packages.json",
		manager.APT:        "apt_packages.json",
		manager.Flatpak:    "flatpak_packages.json",
	}
	for id, want := range tests {
		assert.Equal(t, want, FileName(id), id)
	}
}

func TestStorePaths(t *testing.T) {
	s := NewStore("/backup")
	assert.Equal(t, filepath.Join("/backup", "scoop_apps.json"), s.Path(manager.Scoop))
	assert.Equal(t, filepath.Join("/backup", "cursor", "extensions.json"), s.Path(manager.Cursor))
	assert.Equal(t, filepath.Join("/backup", "vscode", "extensions_wsl.json"), s.WSLPath(manager.VSCode))
	assert.Equal(t, filepath.Join("/backup", "git", ".gitconfig"), s.BackupPath("git", "/home/me/.gitconfig"))
}

func TestReadMissingSnapshot(t *testing.T) {
	s := NewStore(t.TempDir())

	items, err := s.Read(manager.APT)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	items := []manager.Item{
		manager.ChocolateyItem{PackageID: "git", Title: "git", Version: "2.40"},
		manager.ChocolateyItem{PackageID: "jq", Title: "jq", Version: "1.7"},
	}

	path, err := s.Write(manager.Chocolatey, items)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), "chocolatey_packages.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"PackageId\": \"git\"")

	got, err := s.Read(manager.Chocolatey)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestWriteEmptyListIsArray(t *testing.T) {
	s := NewStore(t.TempDir())

	path, err := s.WriteWSL(manager.VSCode, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestReadCorruptSnapshot(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(s.Path(manager.Pacman), []byte("not json"), 0644))

	items, err := s.Read(manager.Pacman)
	assert.Error(t, err)
	assert.Empty(t, items)
}

func TestTouchMetadata(t *testing.T) {
	s := NewStore(t.TempDir())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	meta, err := s.Metadata()
	require.NoError(t, err)
	assert.Empty(t, meta)

	require.NoError(t, s.Touch("winget", "vscode"))
	s.now = func() time.Time { return fixed.Add(time.Hour) }
	require.NoError(t, s.Touch("winget"))
	require.NoError(t, s.Touch())

	meta, err = s.Metadata()
	require.NoError(t, err)
	assert.True(t, fixed.Add(time.Hour).Equal(meta["winget"].LastBackup))
	assert.True(t, fixed.Equal(meta["vscode"].LastBackup))

	data, err := os.ReadFile(filepath.Join(s.Root(), MetadataFileName))
	require.NoError(t, err)
	var raw map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2024-05-01T12:00:00Z", raw["vscode"]["last_backup"])
}

func TestCopyFileAndFileHelpers(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"editor.fontSize": 14}`), 0644))

	dest := filepath.Join(dir, "backup", "vscode", "settings.json")
	require.NoError(t, CopyFile(src, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `{"editor.fontSize": 14}`, string(data))

	assert.True(t, FileExists(dest))
	assert.False(t, FileExists(filepath.Join(dir, "backup")))
	_, ok := LastModified(dest)
	assert.True(t, ok)
	_, ok = LastModified(filepath.Join(dir, "missing"))
	assert.False(t, ok)

	assert.Error(t, CopyFile(filepath.Join(dir, "missing"), dest))
}

func TestConfigApps(t *testing.T) {
	apps := ConfigApps()
	require.NotEmpty(t, apps)

	git, err := LookupConfigApp("git")
	require.NoError(t, err)
	assert.Equal(t, []string{"~/.gitconfig"}, git.FilesFor(manager.Linux))

	wsl, err := LookupConfigApp("wsl")
	require.NoError(t, err)
	assert.Empty(t, wsl.FilesFor(manager.Darwin))

	_, err = LookupConfigApp("emacs")
	assert.ErrorIs(t, err, manager.ErrUnknownSource)
}
