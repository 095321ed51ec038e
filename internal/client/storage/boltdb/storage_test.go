package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/gophsync/internal/client/storage"
	"github.com/iudanet/gophsync/internal/detector"
	"github.com/iudanet/gophsync/internal/models"
)

// createTestStorage создает временное хранилище для тестов
func createTestStorage(t *testing.T) (*Storage, func()) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	store.now = func() time.Time { return time.UnixMilli(42_000) }

	cleanup := func() {
		require.NoError(t, store.Close())
	}

	return store, cleanup
}

func testRecord(t *testing.T, id string, version int64, fields map[string]any) *models.Record {
	t.Helper()
	r, err := models.NewRecord(id, "note", fields)
	require.NoError(t, err)
	r.Version = version
	r.LastModified = version * 1000
	return r
}

func TestNew_Success(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "testdb.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() {
		require.NoError(t, store.Close())
	}()

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "testdb.db"))
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Nil(t, store.db)

	// Второй вызов Close ничего не делает
	require.NoError(t, store.Close())

	_, err = store.FetchTriple(ctx, "doc-1")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.SaveReplica(ctx, storage.SideLocal, testRecord(t, "doc-1", 1, nil)), storage.ErrStorageClosed)
	_, err = store.ListConflicted(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = store.GetLastRun(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestStorage_FetchTriple(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	local := testRecord(t, "doc-1", 2, map[string]any{"title": "A", "tags": []any{"x"}})
	server := testRecord(t, "doc-1", 3, map[string]any{"title": "B", "count": 5})
	base := testRecord(t, "doc-1", 1, map[string]any{"title": "O"})

	tests := []struct {
		setup   func(t *testing.T)
		wantErr error
		name    string
		id      string
		hasBase bool
	}{
		{
			name:    "missing entity",
			id:      "doc-1",
			setup:   func(t *testing.T) {},
			wantErr: storage.ErrRecordNotFound,
		},
		{
			name: "local only",
			id:   "doc-1",
			setup: func(t *testing.T) {
				require.NoError(t, store.SaveReplica(ctx, storage.SideLocal, local))
			},
			wantErr: storage.ErrRecordNotFound,
		},
		{
			name: "without base",
			id:   "doc-1",
			setup: func(t *testing.T) {
				require.NoError(t, store.SaveReplica(ctx, storage.SideServer, server))
			},
		},
		{
			name: "with base",
			id:   "doc-1",
			setup: func(t *testing.T) {
				require.NoError(t, store.SaveReplica(ctx, storage.SideBase, base))
			},
			hasBase: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)

			triple, err := store.FetchTriple(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, local, triple.Local)
			assert.Equal(t, server, triple.Server)
			require.NoError(t, triple.Local.VerifyChecksum())
			require.NoError(t, triple.Server.VerifyChecksum())
			if tt.hasBase {
				assert.Equal(t, base, triple.Base)
			} else {
				assert.Nil(t, triple.Base)
			}
			assert.True(t, triple.Watermark.IsZero())
		})
	}
}

func TestStorage_GetReplica(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetReplica(ctx, storage.SideLocal, "doc-1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	base := testRecord(t, "doc-1", 1, map[string]any{"title": "O", "done": false})
	require.NoError(t, store.SaveReplica(ctx, storage.SideBase, base))

	got, err := store.GetReplica(ctx, storage.SideBase, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, base, got)

	_, err = store.GetReplica(ctx, storage.SideLocal, "doc-1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestStorage_SaveReplica_Invalid(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.SaveReplica(ctx, storage.SideLocal, nil)
	assert.ErrorIs(t, err, models.ErrInvalidRecord)

	err = store.SaveReplica(ctx, storage.Side("remote"), testRecord(t, "doc-1", 1, nil))
	assert.Error(t, err)
}

func TestStorage_Commit(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	local := testRecord(t, "doc-1", 2, map[string]any{"title": "A"})
	server := testRecord(t, "doc-1", 3, map[string]any{"title": "B"})
	require.NoError(t, store.SaveReplica(ctx, storage.SideLocal, local))
	require.NoError(t, store.SaveReplica(ctx, storage.SideServer, server))
	require.NoError(t, store.MarkConflicted(ctx, &storage.Conflicted{EntityID: "doc-1", Type: models.ConflictServerNewer}))

	resolved := testRecord(t, "doc-1", 4, map[string]any{"title": "B"})
	require.NoError(t, store.SavePending(ctx, &storage.PendingCommit{EntityID: "doc-1", Record: resolved}))

	require.NoError(t, store.Commit(ctx, resolved))

	triple, err := store.FetchTriple(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, resolved, triple.Local)
	assert.Equal(t, resolved, triple.Server)
	assert.Equal(t, resolved, triple.Base)
	assert.Equal(t, detector.Watermark{Version: 4, Timestamp: 4000}, triple.Watermark)

	_, err = store.GetConflicted(ctx, "doc-1")
	assert.ErrorIs(t, err, storage.ErrNotConflicted)

	pending, err := store.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, store.Commit(ctx, nil), models.ErrInvalidRecord)
}

func TestStorage_ListEntities(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ids, err := store.ListEntities(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.SaveReplica(ctx, storage.SideLocal, testRecord(t, "doc-b", 1, nil)))
	require.NoError(t, store.SaveReplica(ctx, storage.SideServer, testRecord(t, "doc-a", 1, nil)))
	require.NoError(t, store.SaveReplica(ctx, storage.SideServer, testRecord(t, "doc-b", 1, nil)))
	require.NoError(t, store.SaveReplica(ctx, storage.SideBase, testRecord(t, "doc-c", 1, nil)))

	ids, err = store.ListEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-a", "doc-b"}, ids)
}

func TestStorage_Conflicted(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	list, err := store.ListConflicted(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, store.MarkConflicted(ctx, &storage.Conflicted{
		EntityID:   "doc-b",
		ConflictID: "c-2",
		Type:       models.ConflictVersionMismatch,
	}))
	require.NoError(t, store.MarkConflicted(ctx, &storage.Conflicted{
		EntityID:   "doc-a",
		ConflictID: "c-1",
		Type:       models.ConflictSimultaneous,
		Fields:     []string{"body"},
		Attempts:   []models.Attempt{{Resolver: "three_way", Error: "body: unresolvable"}},
		MarkedAt:   7,
	}))

	got, err := store.GetConflicted(ctx, "doc-a")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ConflictID)
	assert.Equal(t, []string{"body"}, got.Fields)
	assert.Equal(t, int64(7), got.MarkedAt)
	require.Len(t, got.Attempts, 1)

	list, err = store.ListConflicted(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "doc-a", list[0].EntityID)
	assert.Equal(t, "doc-b", list[1].EntityID)
	assert.Equal(t, int64(42_000), list[1].MarkedAt)

	// повторная пометка перезаписывает
	require.NoError(t, store.MarkConflicted(ctx, &storage.Conflicted{EntityID: "doc-b", ConflictID: "c-3"}))
	got, err = store.GetConflicted(ctx, "doc-b")
	require.NoError(t, err)
	assert.Equal(t, "c-3", got.ConflictID)

	assert.Error(t, store.MarkConflicted(ctx, &storage.Conflicted{}))
}

func TestStorage_Pending(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	rec := testRecord(t, "doc-1", 5, map[string]any{"title": "merged"})
	require.NoError(t, store.SavePending(ctx, &storage.PendingCommit{
		EntityID:     "doc-1",
		Record:       rec,
		StrategyName: "field_level_merge",
		Resolution:   models.ResolutionMerged,
	}))

	pending, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rec, pending[0].Record)
	assert.Equal(t, models.ResolutionMerged, pending[0].Resolution)
	assert.Equal(t, int64(42_000), pending[0].CreatedAt)
}

func TestStorage_Metadata(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ts, err := store.GetLastRun(ctx)
	require.NoError(t, err)
	assert.Zero(t, ts)

	require.NoError(t, store.SaveLastRun(ctx, 1234567890))
	ts, err = store.GetLastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1234567890), ts)

	require.NoError(t, store.SaveClock(ctx, 17))
	clock, err := store.GetClock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(17), clock)
}

func TestStorage_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	})
	require.NoError(t, err)

	_, err = store.GetLastRun(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata bucket not found")

	// повторная инициализация восстанавливает buckets
	require.NoError(t, store.initBuckets())
	_, err = store.GetLastRun(ctx)
	assert.NoError(t, err)
}
