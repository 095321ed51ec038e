package sync

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophsync/internal/analytics"
	"github.com/iudanet/gophsync/internal/client/storage"
	"github.com/iudanet/gophsync/internal/client/storage/boltdb"
	"github.com/iudanet/gophsync/internal/engine"
	"github.com/iudanet/gophsync/internal/models"
	"github.com/iudanet/gophsync/internal/policy"
	"github.com/iudanet/gophsync/pkg/api"
)

// testStorage собирает моки отдельных хранилищ в один Storage
type testStorage struct {
	*storage.ReplicaStorageMock
	*storage.ConflictStorageMock
	*storage.PendingStorageMock
	*storage.MetadataStorageMock
}

func newTestStorage(triple *storage.Triple) *testStorage {
	return &testStorage{
		ReplicaStorageMock: &storage.ReplicaStorageMock{
			FetchTripleFunc: func(ctx context.Context, id string) (*storage.Triple, error) {
				if triple == nil {
					return nil, storage.ErrRecordNotFound
				}
				return triple, nil
			},
			CommitFunc: func(ctx context.Context, r *models.Record) error { return nil },
		},
		ConflictStorageMock: &storage.ConflictStorageMock{
			MarkConflictedFunc: func(ctx context.Context, c *storage.Conflicted) error { return nil },
		},
		PendingStorageMock: &storage.PendingStorageMock{
			SavePendingFunc: func(ctx context.Context, p *storage.PendingCommit) error { return nil },
		},
		MetadataStorageMock: &storage.MetadataStorageMock{
			SaveLastRunFunc: func(ctx context.Context, timestamp int64) error { return nil },
		},
	}
}

func record(t *testing.T, version int64, fields map[string]any) *models.Record {
	t.Helper()
	r, err := models.NewRecord("doc-1", "note", fields)
	require.NoError(t, err)
	r.Version = version
	return r
}

func TestResolveEntity(t *testing.T) {
	ctx := context.Background()
	local := record(t, 2, map[string]any{"title": "A"})
	server := record(t, 3, map[string]any{"title": "B"})
	resolved := record(t, 4, map[string]any{"title": "B"})

	tests := []struct {
		process     func(ctx context.Context, req engine.Request) (*models.ResolutionResult, error)
		name        string
		wantOutcome Outcome
		wantCommit  bool
		wantMark    bool
		wantErr     bool
	}{
		{
			name: "resolved is committed once",
			process: func(ctx context.Context, req engine.Request) (*models.ResolutionResult, error) {
				return &models.ResolutionResult{Record: resolved, Resolution: models.ResolutionServerWins, StrategyName: "last_writer_wins"}, nil
			},
			wantOutcome: OutcomeResolved,
			wantCommit:  true,
		},
		{
			name: "unchanged is propagated",
			process: func(ctx context.Context, req engine.Request) (*models.ResolutionResult, error) {
				return &models.ResolutionResult{Record: server, Resolution: models.ResolutionUnchanged, StrategyName: engine.StrategyNone}, nil
			},
			wantOutcome: OutcomeUnchanged,
			wantCommit:  true,
		},
		{
			name: "postponed is marked conflicted",
			process: func(ctx context.Context, req engine.Request) (*models.ResolutionResult, error) {
				return &models.ResolutionResult{
					Resolution:               models.ResolutionUserDecision,
					StrategyName:             "user_mediated",
					RequiresUserIntervention: true,
					Metadata: models.ResolutionMetadata{
						Postponed: true,
						Reason:    "postponed",
						Attempts:  []models.Attempt{{Resolver: "three_way", Error: "body: unresolvable"}},
					},
				}, nil
			},
			wantOutcome: OutcomePostponed,
			wantMark:    true,
		},
		{
			name: "superseded request",
			process: func(ctx context.Context, req engine.Request) (*models.ResolutionResult, error) {
				return nil, models.ErrCancelledByNewerConflict
			},
			wantOutcome: OutcomeCancelled,
		},
		{
			name: "processing error",
			process: func(ctx context.Context, req engine.Request) (*models.ResolutionResult, error) {
				return nil, &models.ChecksumMismatchError{RecordID: "doc-1", Side: "server"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStorage(&storage.Triple{Local: local, Server: server})
			processor := &ProcessorMock{
				ProcessFunc: tt.process,
				DetectFunc: func(req engine.Request) (*models.ConflictRecord, error) {
					return &models.ConflictRecord{
						ID:               "c-1",
						Local:            req.Local,
						Server:           req.Server,
						Type:             models.ConflictServerNewer,
						FieldsInConflict: []string{"title"},
					}, nil
				},
			}
			svc := NewService(processor, store, nil, 1)

			res, err := svc.ResolveEntity(ctx, "doc-1")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrChecksumMismatch)
				assert.Empty(t, store.CommitCalls())
				assert.Empty(t, store.MarkConflictedCalls())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, res.Outcome)

			require.Len(t, processor.ProcessCalls(), 1)
			assert.Equal(t, local, processor.ProcessCalls()[0].Req.Local)

			if tt.wantCommit {
				require.Len(t, store.CommitCalls(), 1)
				require.Len(t, store.SavePendingCalls(), 1)
				assert.Equal(t, res.Result.Record, store.CommitCalls()[0].R)
			} else {
				assert.Empty(t, store.CommitCalls())
			}

			if tt.wantMark {
				require.Len(t, store.MarkConflictedCalls(), 1)
				mark := store.MarkConflictedCalls()[0].C
				assert.Equal(t, "doc-1", mark.EntityID)
				assert.Equal(t, "c-1", mark.ConflictID)
				assert.Equal(t, models.ConflictServerNewer, mark.Type)
				assert.Equal(t, []string{"title"}, mark.Fields)
				assert.Len(t, mark.Attempts, 1)
			} else {
				assert.Empty(t, store.MarkConflictedCalls())
			}
		})
	}
}

func TestResolveEntity_NotFound(t *testing.T) {
	svc := NewService(&ProcessorMock{}, newTestStorage(nil), nil, 1)
	_, err := svc.ResolveEntity(context.Background(), "doc-1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestResolveEntity_CommitFailure(t *testing.T) {
	ctx := context.Background()
	local := record(t, 2, map[string]any{"title": "A"})
	server := record(t, 3, map[string]any{"title": "B"})

	store := newTestStorage(&storage.Triple{Local: local, Server: server})
	store.CommitFunc = func(ctx context.Context, r *models.Record) error {
		return errors.New("disk full")
	}
	processor := &ProcessorMock{
		ProcessFunc: func(ctx context.Context, req engine.Request) (*models.ResolutionResult, error) {
			return &models.ResolutionResult{Record: req.Server, Resolution: models.ResolutionServerWins}, nil
		},
	}
	svc := NewService(processor, store, nil, 1)

	_, err := svc.ResolveEntity(ctx, "doc-1")
	require.ErrorIs(t, err, models.ErrStorageCommitFailure)

	// результат сохранен для повторной фиксации
	require.Len(t, store.SavePendingCalls(), 1)
	assert.Equal(t, server, store.SavePendingCalls()[0].P.Record)
	assert.Len(t, store.CommitCalls(), 1)
}

func TestRetryCommits(t *testing.T) {
	ctx := context.Background()
	ok := record(t, 4, map[string]any{"title": "B"})
	broken, err := models.NewRecord("doc-2", "note", map[string]any{"title": "C"})
	require.NoError(t, err)

	store := newTestStorage(nil)
	store.ListPendingFunc = func(ctx context.Context) ([]*storage.PendingCommit, error) {
		return []*storage.PendingCommit{
			{EntityID: "doc-1", Record: ok},
			{EntityID: "doc-2", Record: broken},
		}, nil
	}
	store.CommitFunc = func(ctx context.Context, r *models.Record) error {
		if r.ID == "doc-2" {
			return errors.New("disk full")
		}
		return nil
	}
	processor := &ProcessorMock{}
	svc := NewService(processor, store, nil, 1)

	res, err := svc.RetryCommits(ctx)
	require.ErrorIs(t, err, models.ErrStorageCommitFailure)
	assert.Equal(t, 1, res.Committed)
	assert.Equal(t, []string{"doc-2"}, res.Failed)
	assert.Len(t, store.CommitCalls(), 2)
	// повторная фиксация не запускает разрешение
	assert.Empty(t, processor.ProcessCalls())
}

func TestResolveAll_Summary(t *testing.T) {
	ctx := context.Background()

	store := newTestStorage(nil)
	store.ListEntitiesFunc = func(ctx context.Context) ([]string, error) {
		return []string{"a", "b", "c", "d", "e"}, nil
	}
	store.FetchTripleFunc = func(ctx context.Context, id string) (*storage.Triple, error) {
		if id == "e" {
			return nil, storage.ErrRecordNotFound
		}
		r, err := models.NewRecord(id, "note", map[string]any{"n": id})
		if err != nil {
			return nil, err
		}
		return &storage.Triple{Local: r, Server: r}, nil
	}
	processor := &ProcessorMock{
		ProcessFunc: func(ctx context.Context, req engine.Request) (*models.ResolutionResult, error) {
			switch req.Local.ID {
			case "a":
				return &models.ResolutionResult{Record: req.Local, Resolution: models.ResolutionMerged}, nil
			case "b":
				return &models.ResolutionResult{Record: req.Local, Resolution: models.ResolutionUnchanged}, nil
			case "c":
				return &models.ResolutionResult{Resolution: models.ResolutionUserDecision, RequiresUserIntervention: true}, nil
			default:
				return nil, models.ErrCancelledByNewerConflict
			}
		},
		DetectFunc: func(req engine.Request) (*models.ConflictRecord, error) { return nil, nil },
	}
	svc := NewService(processor, store, nil, 2)

	summary, err := svc.ResolveAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 1, summary.Resolved)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 1, summary.Postponed)
	assert.Equal(t, 1, summary.Cancelled)
	assert.Equal(t, 1, summary.Failed)

	ids := make([]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		ids = append(ids, r.EntityID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.ErrorIs(t, summary.Results[4].Err, storage.ErrRecordNotFound)
	assert.Len(t, store.SaveLastRunCalls(), 1)
}

func TestResolveConflicted(t *testing.T) {
	ctx := context.Background()

	store := newTestStorage(nil)
	store.ListConflictedFunc = func(ctx context.Context) ([]*storage.Conflicted, error) {
		return []*storage.Conflicted{{EntityID: "doc-9"}}, nil
	}
	store.FetchTripleFunc = func(ctx context.Context, id string) (*storage.Triple, error) {
		r, err := models.NewRecord(id, "note", nil)
		if err != nil {
			return nil, err
		}
		return &storage.Triple{Local: r, Server: r}, nil
	}
	processor := &ProcessorMock{
		ProcessFunc: func(ctx context.Context, req engine.Request) (*models.ResolutionResult, error) {
			return &models.ResolutionResult{Record: req.Local, Resolution: models.ResolutionUnchanged}, nil
		},
	}
	svc := NewService(processor, store, nil, 0)

	summary, err := svc.ResolveConflicted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unchanged)
	require.Len(t, store.FetchTripleCalls(), 1)
	assert.Equal(t, "doc-9", store.FetchTripleCalls()[0].Id)
}

func TestResolveAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newTestStorage(nil)
	store.ListEntitiesFunc = func(ctx context.Context) ([]string, error) {
		return []string{"a"}, nil
	}
	svc := NewService(&ProcessorMock{}, store, nil, 1)

	_, err := svc.ResolveAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// newBoltService собирает сервис на настоящем хранилище и движке с политикой по умолчанию
func newBoltService(t *testing.T) (Service, *boltdb.Storage, *analytics.Aggregator) {
	t.Helper()
	ctx := context.Background()

	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "replicas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := policy.DefaultConfig()
	pol, err := cfg.Build(nil, nil)
	require.NoError(t, err)

	stats := analytics.NewAggregator()
	processor := engine.New(cfg.Detector(), pol, stats, nil)
	return NewService(processor, store, nil, 2), store, stats
}

const importJSON = `{"entities":[
	{"id":"doc-1","entity_type":"note",
	 "base":{"fields":{"title":"Old","tags":["x"]},"version":1},
	 "local":{"fields":{"title":"New","tags":["x"]},"version":2},
	 "server":{"fields":{"title":"Old","tags":["x","y"]},"version":3}},
	{"id":"doc-2","entity_type":"note",
	 "local":{"fields":{"n":"Document"},"version":4},
	 "server":{"fields":{"n":"Doc v2"},"version":4}},
	{"id":"doc-3","entity_type":"note",
	 "base":{"fields":{"n":"same"},"version":1},
	 "local":{"fields":{"n":"same"},"version":1},
	 "server":{"fields":{"n":"server edit"},"version":2}}
]}`

func TestService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, store, stats := newBoltService(t)

	f, err := api.DecodeImportFile(strings.NewReader(importJSON))
	require.NoError(t, err)
	imported, err := svc.Import(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 3, imported.Entities)
	assert.Equal(t, 8, imported.Replicas)

	summary, err := svc.ResolveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Resolved)
	assert.Equal(t, 1, summary.Postponed)
	assert.Equal(t, 1, summary.Unchanged)

	// doc-1: трехстороннее слияние
	triple, err := store.FetchTriple(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "New", triple.Local.Fields["title"])
	assert.Equal(t, []any{"x", "y"}, triple.Local.Fields["tags"])
	assert.Equal(t, int64(4), triple.Local.Version)
	assert.Equal(t, triple.Local, triple.Server)
	assert.Equal(t, int64(4), triple.Watermark.Version)

	// doc-2: VersionMismatch ждет пользователя
	conflicted, err := svc.ListConflicted(ctx)
	require.NoError(t, err)
	require.Len(t, conflicted, 1)
	assert.Equal(t, "doc-2", conflicted[0].EntityID)
	assert.Equal(t, models.ConflictVersionMismatch, conflicted[0].Type)

	// doc-3: изменение сервера распространено без увеличения версии
	triple, err = store.FetchTriple(ctx, "doc-3")
	require.NoError(t, err)
	assert.Equal(t, "server edit", triple.Local.Fields["n"])
	assert.Equal(t, int64(2), triple.Local.Version)

	snap := stats.Snapshot()
	assert.Equal(t, int64(2), snap.Detected)
	assert.Equal(t, int64(1), snap.AutoResolved)

	// повторный проход: разрешенные сущности уже согласованы
	summary, err = svc.ResolveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Unchanged)
	assert.Equal(t, 1, summary.Postponed)

	lastRun, err := svc.LastRun(ctx)
	require.NoError(t, err)
	assert.NotZero(t, lastRun)
}

func TestService_EditThenResolve(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newBoltService(t)

	f, err := api.DecodeImportFile(strings.NewReader(importJSON))
	require.NoError(t, err)
	_, err = svc.Import(ctx, f)
	require.NoError(t, err)

	// локальная правка doc-3: теперь изменены обе стороны
	edited, err := svc.Edit(ctx, "doc-3", "", map[string]any{"n": "local edit", "done": true}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), edited.Version)
	assert.Greater(t, edited.LastModified, int64(0))
	require.NoError(t, edited.VerifyChecksum())

	res, err := svc.ResolveEntity(ctx, "doc-3")
	require.NoError(t, err)
	// локальная v2 против серверной v2: равные версии уходят пользователю
	assert.Equal(t, OutcomePostponed, res.Outcome)

	mark, err := store.GetConflicted(ctx, "doc-3")
	require.NoError(t, err)
	assert.Equal(t, models.ConflictVersionMismatch, mark.Type)
	assert.Equal(t, []string{"n"}, mark.Fields)
	assert.Empty(t, mark.Attempts)

	// новая сущность создается правкой
	created, err := svc.Edit(ctx, "doc-new", "task", map[string]any{"title": "fresh"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, "task", created.EntityType)

	clockValue, err := store.GetClock(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.LastModified, clockValue)

	_, err = svc.Edit(ctx, "doc-new", "", map[string]any{"bad": make(chan int)}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidRecord)
}
