package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophsync/internal/client/storage"
	"github.com/iudanet/gophsync/internal/detector"
	"github.com/iudanet/gophsync/internal/models"
)

// SaveReplica stores one replica of a record
func (s *Storage) SaveReplica(ctx context.Context, side storage.Side, r *models.Record) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w: record without id", models.ErrInvalidRecord)
	}
	name, err := sideBucket(side)
	if err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(r.ID), data); err != nil {
			return fmt.Errorf("failed to save %s replica: %w", side, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// GetReplica returns one replica of a record
func (s *Storage) GetReplica(ctx context.Context, side storage.Side, id string) (*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}
	name, err := sideBucket(side)
	if err != nil {
		return nil, err
	}

	var r *models.Record
	err = s.db.View(func(tx *bbolt.Tx) error {
		var err error
		r, err = getRecord(tx, name, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s replica %q: %w", side, id, err)
	}
	return r, nil
}

// FetchTriple returns local, server and base replicas of an entity
func (s *Storage) FetchTriple(ctx context.Context, id string) (*storage.Triple, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	t := &storage.Triple{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		if t.Local, err = getRecord(tx, bucketLocal, id); err != nil {
			return fmt.Errorf("local replica: %w", err)
		}
		if t.Server, err = getRecord(tx, bucketServer, id); err != nil {
			return fmt.Errorf("server replica: %w", err)
		}
		t.Base, err = getRecord(tx, bucketBase, id)
		if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
			return fmt.Errorf("base replica: %w", err)
		}

		b, err := bucket(tx, bucketWatermarks)
		if err != nil {
			return err
		}
		if data := b.Get([]byte(id)); data != nil {
			if err := json.Unmarshal(data, &t.Watermark); err != nil {
				return fmt.Errorf("failed to unmarshal watermark: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", id, err)
	}
	return t, nil
}

// Commit stores the resolved record as the converged state of all replicas
func (s *Storage) Commit(ctx context.Context, r *models.Record) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w: record without id", models.ErrInvalidRecord)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	wm, err := json.Marshal(detector.Watermark{Version: r.Version, Timestamp: r.LastModified})
	if err != nil {
		return fmt.Errorf("failed to marshal watermark: %w", err)
	}

	key := []byte(r.ID)
	err = s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketLocal, bucketServer, bucketBase} {
			b, err := bucket(tx, name)
			if err != nil {
				return err
			}
			if err := b.Put(key, data); err != nil {
				return fmt.Errorf("failed to save %s replica: %w", name, err)
			}
		}

		b, err := bucket(tx, bucketWatermarks)
		if err != nil {
			return err
		}
		if err := b.Put(key, wm); err != nil {
			return fmt.Errorf("failed to save watermark: %w", err)
		}

		for _, name := range [][]byte{bucketConflicted, bucketPending} {
			b, err := bucket(tx, name)
			if err != nil {
				return err
			}
			if err := b.Delete(key); err != nil {
				return fmt.Errorf("failed to clear %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit transaction failed: %w", err)
	}
	return nil
}

// ListEntities returns ids that have a local or a server replica
func (s *Storage) ListEntities(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	seen := make(map[string]struct{})
	err := s.db.View(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketLocal, bucketServer} {
			b, err := bucket(tx, name)
			if err != nil {
				return err
			}
			if err := b.ForEach(func(k, _ []byte) error {
				seen[string(k)] = struct{}{}
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func getRecord(tx *bbolt.Tx, name []byte, id string) (*models.Record, error) {
	b, err := bucket(tx, name)
	if err != nil {
		return nil, err
	}
	data := b.Get([]byte(id))
	if data == nil {
		return nil, storage.ErrRecordNotFound
	}
	r := &models.Record{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return r, nil
}
