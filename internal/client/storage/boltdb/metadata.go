package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophsync/internal/client/storage"
)

const (
	keyLastRun = "last_run"
	keyClock   = "clock"
)

// SaveLastRun saves the time of the last sync pass
func (s *Storage) SaveLastRun(ctx context.Context, timestamp int64) error {
	return s.putInt(keyLastRun, timestamp)
}

// GetLastRun returns the time of the last sync pass
// Returns 0 if no pass has been performed yet
func (s *Storage) GetLastRun(ctx context.Context) (int64, error) {
	return s.getInt(keyLastRun)
}

// SaveClock saves the logical clock counter
func (s *Storage) SaveClock(ctx context.Context, counter int64) error {
	return s.putInt(keyClock, counter)
}

// GetClock returns the logical clock counter
func (s *Storage) GetClock(ctx context.Context) (int64, error) {
	return s.getInt(keyClock)
}

func (s *Storage) putInt(key string, v int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(v))
		if err := b.Put([]byte(key), buf); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		return nil
	})
}

func (s *Storage) getInt(key string) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var v int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}
		data := b.Get([]byte(key))
		if data == nil {
			return nil
		}
		v = int64(binary.BigEndian.Uint64(data))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}
