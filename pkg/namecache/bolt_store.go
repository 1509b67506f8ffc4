package namecache

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const bucketNames = "display_names"

// BoltStore keeps cache entries in a bbolt database, one key per identifier.
// bbolt serializes writers, so per-key updates never race.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the cache database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open name cache database: %w", err)
	}

	// Ensure bucket exists
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketNames))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the entry for id.
func (s *BoltStore) Get(id string) (Entry, bool, error) {
	var (
		entry Entry
		found bool
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketNames))
		if bucket == nil {
			return nil
		}
		data := bucket.Get([]byte(id))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal entry %s: %w", id, err)
		}
		found = true
		return nil
	})

	return entry, found, err
}

// Put stores entry under its identifier.
func (s *BoltStore) Put(entry Entry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketNames))
		if bucket == nil {
			return fmt.Errorf("names bucket not found")
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		return bucket.Put([]byte(entry.PackageID), data)
	})
}

// Count returns the number of cached identifiers.
func (s *BoltStore) Count() (int, error) {
	var count int
	err := s.db.View(func(tx *bbolt.Tx) error {
		if bucket := tx.Bucket([]byte(bucketNames)); bucket != nil {
			count = bucket.Stats().KeyN
		}
		return nil
	})
	return count, err
}
