// Package boltdb хранилище реплик клиента на BoltDB.
package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophsync/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketLocal      = []byte("local")
	bucketServer     = []byte("server")
	bucketBase       = []byte("base")
	bucketWatermarks = []byte("watermarks")
	bucketConflicted = []byte("conflicted")
	bucketPending    = []byte("pending")
	bucketMetadata   = []byte("metadata")

	allBuckets = [][]byte{
		bucketLocal,
		bucketServer,
		bucketBase,
		bucketWatermarks,
		bucketConflicted,
		bucketPending,
		bucketMetadata,
	}
)

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db  *bbolt.DB
	now func() time.Time
}

var (
	_ storage.ReplicaStorage  = (*Storage)(nil)
	_ storage.ConflictStorage = (*Storage)(nil)
	_ storage.PendingStorage  = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db, now: time.Now}

	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func sideBucket(side storage.Side) ([]byte, error) {
	switch side {
	case storage.SideLocal:
		return bucketLocal, nil
	case storage.SideServer:
		return bucketServer, nil
	case storage.SideBase:
		return bucketBase, nil
	default:
		return nil, fmt.Errorf("unknown replica side %q", side)
	}
}

// bucket возвращает bucket или ошибку, если он был удален
func bucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%s bucket not found", name)
	}
	return b, nil
}
