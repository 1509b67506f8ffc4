// Package snapshot reads and writes the backup directory: one JSON list per
// package source, one subdirectory per extension host or config app, and a
// metadata file recording when each target was last backed up.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kakehashi-inc/app-backup-restore/pkg/manager"
)

const (
	// MetadataFileName records the last successful backup per target.
	MetadataFileName = "backup_metadata.json"

	// Files inside a host directory.
	ExtensionsFile    = "extensions.json"
	ExtensionsWSLFile = "extensions_wsl.json"
)

var packageFileNames = map[manager.ID]string{
	manager.Winget:     "winget_packages.json",
	manager.MSStore:    "msstore_packages.json",
	manager.Scoop:      "scoop_apps.json",
	manager.Chocolatey: "chocolatey_packages.json",
}

// FileName returns the snapshot file name for a package source.
func FileName(id manager.ID) string {
	if name, ok := packageFileNames[id]; ok {
		return name
	}
	return string(id) + "_packages.json"
}

// MetadataEntry is the metadata kept per target.
type MetadataEntry struct {
	LastBackup time.Time `json:"last_backup"`
}

// Metadata maps a target id (source, host or config app) to its entry.
type Metadata map[string]MetadataEntry

// Store is a backup directory.
type Store struct {
	root string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore opens the backup directory at root. The directory is created on first write.
func NewStore(root string) *Store {
	return &Store{root: root, now: time.Now}
}

// Root returns the backup directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the snapshot path for id. Hosts keep their list in a subdirectory.
func (s *Store) Path(id manager.ID) string {
	if id.IsHost() {
		return filepath.Join(s.root, string(id), ExtensionsFile)
	}
	return filepath.Join(s.root, FileName(id))
}

// WSLPath returns the WSL track snapshot path for a host.
func (s *Store) WSLPath(id manager.ID) string {
	return filepath.Join(s.root, string(id), ExtensionsWSLFile)
}

// Dir returns the subdirectory of a host or config app.
func (s *Store) Dir(name string) string {
	return filepath.Join(s.root, name)
}

// Read returns the backed-up items for id. A missing snapshot is an empty list.
func (s *Store) Read(id manager.ID) ([]manager.Item, error) {
	return s.readFrom(id, s.Path(id))
}

// ReadWSL returns the WSL track items for a host.
func (s *Store) ReadWSL(id manager.ID) ([]manager.Item, error) {
	return s.readFrom(id, s.WSLPath(id))
}

func (s *Store) readFrom(id manager.ID, path string) ([]manager.Item, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []manager.Item{}, nil
	}
	if err != nil {
		return []manager.Item{}, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	items, err := manager.DecodeItems(id, data)
	if err != nil {
		return []manager.Item{}, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return items, nil
}

// Write replaces the snapshot for id and returns the path written.
func (s *Store) Write(id manager.ID, items []manager.Item) (string, error) {
	path := s.Path(id)
	return path, writeJSON(path, nonNil(items))
}

// WriteWSL replaces the WSL track snapshot for a host.
func (s *Store) WriteWSL(id manager.ID, items []manager.Item) (string, error) {
	path := s.WSLPath(id)
	return path, writeJSON(path, nonNil(items))
}

// Metadata returns the recorded backup times. A missing file is empty metadata.
func (s *Store) Metadata() (Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMetadata()
}

// Touch records now as the last backup time of every target.
func (s *Store) Touch(targets ...string) error {
	if len(targets) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.loadMetadata()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	for _, t := range targets {
		meta[t] = MetadataEntry{LastBackup: now}
	}
	return writeJSON(filepath.Join(s.root, MetadataFileName), meta)
}

func (s *Store) loadMetadata() (Metadata, error) {
	meta := Metadata{}
	data, err := os.ReadFile(filepath.Join(s.root, MetadataFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("failed to read backup metadata: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse backup metadata: %w", err)
	}
	return meta, nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LastModified returns the modification time of path.
func LastModified(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// CopyFile copies src to dest, creating dest's directory.
func CopyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func nonNil(items []manager.Item) []manager.Item {
	if items == nil {
		return []manager.Item{}
	}
	return items
}
