package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	// runs maps time-ordered keys to JSON entries.
	runs = []byte("runs")
	// byID maps entry IDs to their key in runs.
	byID = []byte("runs_by_id")
)

// Fixed-width so keys sort chronologically.
const keyTimeFormat = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("history entry not found")

// Store is a bbolt-backed log of runs.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	s := &Store{db: db}
	if err := db.Update(s.ensureBuckets); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	return s, nil
}

func (s *Store) ensureBuckets(tx *bbolt.Tx) error {
	for _, name := range [][]byte{runs, byID} {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func timeKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyTimeFormat))
}

func decode(v []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(v, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Record saves an entry. Recording the same ID twice replaces the earlier copy.
func (s *Store) Record(entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}
	key := append(timeKey(entry.Timestamp), '/')
	key = append(key, entry.ID...)

	return s.db.Update(func(tx *bbolt.Tx) error {
		index := tx.Bucket(byID)
		if old := index.Get([]byte(entry.ID)); old != nil && !bytes.Equal(old, key) {
			if err := tx.Bucket(runs).Delete(old); err != nil {
				return err
			}
		}
		if err := tx.Bucket(runs).Put(key, data); err != nil {
			return fmt.Errorf("failed to save entry: %w", err)
		}
		return index.Put([]byte(entry.ID), key)
	})
}

// List returns up to limit entries, newest first. A limit of 0 returns all.
// Entries that fail to decode are skipped.
func (s *Store) List(limit int) ([]Entry, error) {
	entries := []Entry{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(runs).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			if e, err := decode(v); err == nil {
				entries = append(entries, *e)
			}
		}
		return nil
	})
	return entries, err
}

// Get looks an entry up by ID.
func (s *Store) Get(id string) (*Entry, error) {
	var entry *Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(byID).Get([]byte(id))
		if key == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		v := tx.Bucket(runs).Get(key)
		if v == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		var err error
		entry, err = decode(v)
		return err
	})
	return entry, err
}

// Last returns the newest entry, or nil when the history is empty.
func (s *Store) Last() (*Entry, error) {
	var entry *Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		k, v := tx.Bucket(runs).Cursor().Last()
		if k == nil {
			return nil
		}
		var err error
		entry, err = decode(v)
		return err
	})
	return entry, err
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(runs).Stats().KeyN
		return nil
	})
	return n, err
}

// Clear removes every entry.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{runs, byID} {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		return s.ensureBuckets(tx)
	})
}

// Prune deletes entries older than maxAge and reports how many went.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	cutoff := timeKey(time.Now().Add(-maxAge))
	var deleted int

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, index := tx.Bucket(runs), tx.Bucket(byID)

		type stale struct{ key, id []byte }
		var old []stale
		c := b.Cursor()
		for k, v := c.First(); k != nil && bytes.Compare(k, cutoff) < 0; k, v = c.Next() {
			st := stale{key: append([]byte(nil), k...)}
			if e, err := decode(v); err == nil {
				st.id = []byte(e.ID)
			}
			old = append(old, st)
		}

		for _, st := range old {
			if err := b.Delete(st.key); err != nil {
				return err
			}
			if st.id != nil {
				if err := index.Delete(st.id); err != nil {
					return err
				}
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}
