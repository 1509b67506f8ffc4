package namecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the cache document written under <backup>/cache/.
const FileName = "winget_cache.json"

// JSONFileStore keeps the whole cache in one JSON document keyed by identifier.
// Writers hold a lock and re-read the document before writing it back,
// so entries added by other writers are preserved.
type JSONFileStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONFileStore creates a store backed by path. The file is created on first Put.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// OpenInBackupDir returns the store at <backupDir>/cache/winget_cache.json.
func OpenInBackupDir(backupDir string) *JSONFileStore {
	return NewJSONFileStore(filepath.Join(backupDir, "cache", FileName))
}

// Path returns the file backing the store.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Get returns the entry for id.
func (s *JSONFileStore) Get(id string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := doc[id]
	if !ok || e == nil {
		return Entry{}, false, nil
	}
	return *e, true, nil
}

// Put merges entry into the document on disk.
func (s *JSONFileStore) Put(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc[entry.PackageID] = &entry
	return s.save(doc)
}

// Close is a no-op.
func (s *JSONFileStore) Close() error {
	return nil
}

func (s *JSONFileStore) load() (map[string]*Entry, error) {
	doc := make(map[string]*Entry)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read name cache: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse name cache %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *JSONFileStore) save(doc map[string]*Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal name cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".winget_cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to write name cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write name cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write name cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace name cache: %w", err)
	}
	return nil
}
