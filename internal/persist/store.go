// Package persist owns durable document storage: a bbolt-backed key-value
// store plus a per-document service layering a read-through cache, an
// immediate and a throttled write path, and memoized derived queries on top.
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketDocuments = []byte("documents")

// Store is the durable key-value layer. Each logical document (tracker
// state, layout state) lives under one key in a single bucket.
type Store struct {
	db *bolt.DB
}

// NewStore opens (creating if needed) the bbolt database at dir/name.
// An empty dir yields a memory-only store that drops all writes.
func NewStore(dir, name string) (*Store, error) {
	if dir == "" {
		// Memory-only mode (no persistence)
		return &Store{}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, name)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDocuments)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the raw document bytes under key, or false when absent.
func (s *Store) Get(key string) ([]byte, bool) {
	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	return data, data != nil
}

// Put writes raw document bytes under key.
func (s *Store) Put(key string, data []byte) error {
	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		return b.Put([]byte(key), data)
	})
}

// Delete removes the document under key.
func (s *Store) Delete(key string) {
	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}
