package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophsync/internal/client/storage"
)

// MarkConflicted stores a postponed conflict for the entity
func (s *Storage) MarkConflicted(ctx context.Context, c *storage.Conflicted) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if c.MarkedAt == 0 {
		c.MarkedAt = s.now().UnixMilli()
	}
	return s.put(bucketConflicted, c.EntityID, c)
}

// GetConflicted returns the conflict mark of the entity
func (s *Storage) GetConflicted(ctx context.Context, id string) (*storage.Conflicted, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var c *storage.Conflicted
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketConflicted)
		if err != nil {
			return err
		}
		data := b.Get([]byte(id))
		if data == nil {
			return storage.ErrNotConflicted
		}
		c = &storage.Conflicted{}
		return json.Unmarshal(data, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListConflicted returns conflict marks ordered by entity id
func (s *Storage) ListConflicted(ctx context.Context) ([]*storage.Conflicted, error) {
	var out []*storage.Conflicted
	err := s.list(bucketConflicted, func(v []byte) error {
		c := &storage.Conflicted{}
		if err := json.Unmarshal(v, c); err != nil {
			return fmt.Errorf("failed to unmarshal conflict: %w", err)
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicted: %w", err)
	}
	return out, nil
}

// SavePending stores a resolution result awaiting commit
func (s *Storage) SavePending(ctx context.Context, p *storage.PendingCommit) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = s.now().UnixMilli()
	}
	return s.put(bucketPending, p.EntityID, p)
}

// ListPending returns pending commits ordered by entity id
func (s *Storage) ListPending(ctx context.Context) ([]*storage.PendingCommit, error) {
	var out []*storage.PendingCommit
	err := s.list(bucketPending, func(v []byte) error {
		p := &storage.PendingCommit{}
		if err := json.Unmarshal(v, p); err != nil {
			return fmt.Errorf("failed to unmarshal pending commit: %w", err)
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending: %w", err)
	}
	return out, nil
}

func (s *Storage) put(name []byte, key string, v any) error {
	if key == "" {
		return fmt.Errorf("empty key for %s bucket", name)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s value: %w", name, err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (s *Storage) list(name []byte, fn func(v []byte) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, name)
		if err != nil {
			return err
		}
		// ForEach обходит ключи в порядке сортировки
		return b.ForEach(func(_, v []byte) error {
			return fn(v)
		})
	})
}
