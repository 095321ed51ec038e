package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophsync/internal/merge"
	"github.com/iudanet/gophsync/internal/models"
)

func record(t *testing.T, version, lastModified int64, fields map[string]any) *models.Record {
	t.Helper()
	r, err := models.NewRecord("doc-1", "note", fields)
	require.NoError(t, err)
	r.Version = version
	r.LastModified = lastModified
	return r
}

func conflict(local, server, base *models.Record) *models.ConflictRecord {
	return &models.ConflictRecord{ID: "c-1", Local: local, Server: server, Base: base, Type: models.ConflictContentDivergent}
}

func automatic(t *testing.T) []Resolver {
	t.Helper()
	var out []Resolver
	for _, k := range AllKinds {
		if k == KindUserMediated {
			continue
		}
		r, err := New(k, Options{})
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func TestKind(t *testing.T) {
	for _, k := range AllKinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)

		r, err := New(k, Options{})
		require.NoError(t, err)
		assert.Equal(t, k, r.Kind())
		assert.Equal(t, k.String(), r.Name())
	}

	k, err := ParseKind("LastWriterWins")
	require.NoError(t, err)
	assert.Equal(t, KindLastWriterWins, k)

	_, err = ParseKind("coin_flip")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = New(Kind(42), Options{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLastWriterWins(t *testing.T) {
	lww := MustNew(KindLastWriterWins, Options{})

	tests := []struct {
		name       string
		local      *models.Record
		server     *models.Record
		want       models.Resolution
		wantTitle  string
		wantReason string
	}{
		{
			name:       "greater local version",
			local:      record(t, 6, 100, map[string]any{"title": "L"}),
			server:     record(t, 5, 900, map[string]any{"title": "S"}),
			want:       models.ResolutionLocalWins,
			wantTitle:  "L",
			wantReason: "local is newer",
		},
		{
			name:       "greater server version",
			local:      record(t, 4, 900, map[string]any{"title": "L"}),
			server:     record(t, 5, 100, map[string]any{"title": "S"}),
			want:       models.ResolutionServerWins,
			wantTitle:  "S",
			wantReason: "server is newer",
		},
		{
			name:       "version tie later local timestamp",
			local:      record(t, 5, 200, map[string]any{"title": "L"}),
			server:     record(t, 5, 100, map[string]any{"title": "S"}),
			want:       models.ResolutionLocalWins,
			wantTitle:  "L",
			wantReason: "local is newer",
		},
		{
			// version 5/5, lastModified 100/100: детерминированно выигрывает сервер
			name:       "full tie prefers server",
			local:      record(t, 5, 100, map[string]any{"title": "L"}),
			server:     record(t, 5, 100, map[string]any{"title": "S"}),
			want:       models.ResolutionServerWins,
			wantTitle:  "S",
			wantReason: "tie, server preferred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := lww.Resolve(context.Background(), conflict(tt.local, tt.server, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Resolution)
			assert.Equal(t, tt.wantTitle, res.Record.Fields["title"])
			assert.Equal(t, tt.wantReason, res.Metadata.Reason)
			assert.Equal(t, int64(max(tt.local.Version, tt.server.Version)+1), res.Record.Version)
			assert.Equal(t, max(tt.local.LastModified, tt.server.LastModified), res.Record.LastModified)
			assert.False(t, res.RequiresUserIntervention)
			require.NoError(t, res.Record.VerifyChecksum())
		})
	}
}

func TestAuthoritative(t *testing.T) {
	local := record(t, 2, 0, map[string]any{"title": "L"})
	server := record(t, 9, 0, map[string]any{"title": "S"})
	c := conflict(local, server, nil)

	res, err := MustNew(KindClientAuthoritative, Options{}).Resolve(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionLocalWins, res.Resolution)
	assert.Equal(t, "L", res.Record.Fields["title"])
	assert.Equal(t, int64(10), res.Record.Version)
	assert.Equal(t, "local", res.Metadata.Winner)

	res, err = MustNew(KindServerAuthoritative, Options{}).Resolve(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionServerWins, res.Resolution)
	assert.Equal(t, "S", res.Record.Fields["title"])
	assert.Equal(t, int64(10), res.Record.Version)
}

func TestFieldLevelMerge(t *testing.T) {
	fm := MustNew(KindFieldLevelMerge, Options{})

	t.Run("numeric max wins", func(t *testing.T) {
		local := record(t, 1, 0, map[string]any{"priority": 3})
		server := record(t, 1, 0, map[string]any{"priority": 7})

		res, err := fm.Resolve(context.Background(), conflict(local, server, nil))
		require.NoError(t, err)
		assert.Equal(t, models.ResolutionMerged, res.Resolution)
		assert.Equal(t, int64(7), res.Record.Fields["priority"])
		require.Len(t, res.Metadata.Conflicts, 1)
		assert.Equal(t, "priority", res.Metadata.Conflicts[0].Field)
		assert.Equal(t, merge.NameNumericMax, res.Metadata.Conflicts[0].Strategy)
	})

	t.Run("mixed fields", func(t *testing.T) {
		local := record(t, 3, 0, map[string]any{
			"title": "Doc",
			"tags":  []any{"a"},
			"meta":  map[string]any{"k": "local", "x": int64(1)},
			"same":  true,
			"only":  "local",
		})
		server := record(t, 4, 0, map[string]any{
			"title": "Doc v2",
			"tags":  []any{"b"},
			"meta":  map[string]any{"k": "server"},
			"same":  true,
		})

		res, err := fm.Resolve(context.Background(), conflict(local, server, nil))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"title": "Doc v2",
			"tags":  []any{"a", "b"},
			"meta":  map[string]any{"k": "server", "x": int64(1)},
			"same":  true,
			"only":  "local",
		}, res.Record.Fields)
		assert.Equal(t, int64(5), res.Record.Version)
		assert.Equal(t, map[string][]string{"meta": {"k"}}, res.Metadata.OverlappingKeys)
		require.NoError(t, res.Record.VerifyChecksum())
	})

	t.Run("unresolvable field fails whole record", func(t *testing.T) {
		local := record(t, 1, 0, map[string]any{"n": "Document", "priority": 1})
		server := record(t, 1, 0, map[string]any{"n": "Doc v2", "priority": 2})

		res, err := fm.Resolve(context.Background(), conflict(local, server, nil))
		require.Error(t, err)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, models.ErrUnresolvableField)
	})

	t.Run("replaceable numeric heuristic", func(t *testing.T) {
		registry := merge.NewRegistry(merge.DefaultConfig())
		require.NoError(t, registry.UseField("stock", merge.NameNumericMin))
		custom := MustNew(KindFieldLevelMerge, Options{Registry: registry})

		local := record(t, 1, 0, map[string]any{"stock": 3})
		server := record(t, 1, 0, map[string]any{"stock": 7})
		res, err := custom.Resolve(context.Background(), conflict(local, server, nil))
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Record.Fields["stock"])
	})
}

func TestThreeWayMerge(t *testing.T) {
	tw := MustNew(KindThreeWayMerge, Options{})

	t.Run("list add and remove", func(t *testing.T) {
		base := record(t, 1, 0, map[string]any{"tags": []any{"a", "b"}})
		local := record(t, 2, 0, map[string]any{"tags": []any{"a", "b", "c"}})
		server := record(t, 2, 0, map[string]any{"tags": []any{"a"}})

		res, err := tw.Resolve(context.Background(), conflict(local, server, base))
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "c"}, res.Record.Fields["tags"])
		assert.Empty(t, res.Metadata.Conflicts)
		assert.False(t, res.RequiresUserIntervention)
		assert.Equal(t, KindThreeWayMerge.String(), res.StrategyName)
	})

	t.Run("text without extension is unresolvable", func(t *testing.T) {
		base := record(t, 1, 0, map[string]any{"n": "Doc"})
		local := record(t, 2, 0, map[string]any{"n": "Document"})
		server := record(t, 2, 0, map[string]any{"n": "Doc v2"})

		_, err := tw.Resolve(context.Background(), conflict(local, server, base))
		assert.ErrorIs(t, err, models.ErrUnresolvableField)
	})

	t.Run("non overlapping changes", func(t *testing.T) {
		base := record(t, 1, 0, map[string]any{"title": "T", "body": "B", "n": 1, "gone": "x"})
		local := record(t, 2, 0, map[string]any{"title": "T2", "body": "B", "n": 1, "gone": "x"})
		server := record(t, 3, 0, map[string]any{"title": "T", "body": "B2", "n": 1})

		res, err := tw.Resolve(context.Background(), conflict(local, server, base))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"title": "T2", "body": "B2", "n": int64(1)}, res.Record.Fields)
		assert.Empty(t, res.Metadata.Conflicts)
		assert.False(t, res.RequiresUserIntervention)
		assert.Equal(t, int64(4), res.Record.Version)
	})

	t.Run("delete versus modify is unresolvable", func(t *testing.T) {
		base := record(t, 1, 0, map[string]any{"title": "T"})
		local := record(t, 2, 0, map[string]any{})
		server := record(t, 2, 0, map[string]any{"title": "T2"})

		_, err := tw.Resolve(context.Background(), conflict(local, server, base))
		assert.ErrorIs(t, err, models.ErrUnresolvableField)
	})
}

func TestThreeWayWithoutBaseEqualsFieldLevel(t *testing.T) {
	local := record(t, 3, 50, map[string]any{"title": "Doc", "priority": 3, "tags": []any{"x"}})
	server := record(t, 4, 10, map[string]any{"title": "Doc v2", "priority": 7, "tags": []any{"y"}})
	c := conflict(local, server, nil)

	fieldLevel, err := MustNew(KindFieldLevelMerge, Options{}).Resolve(context.Background(), c)
	require.NoError(t, err)

	for _, k := range []Kind{KindThreeWayMerge, KindSemanticTextMerge} {
		res, err := MustNew(k, Options{}).Resolve(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, fieldLevel, res, k.String())
	}
}

func TestSemanticTextMerge(t *testing.T) {
	st := MustNew(KindSemanticTextMerge, Options{})

	base := record(t, 1, 0, map[string]any{"body": "intro\nmiddle\nend\n", "tags": []any{"a"}})
	local := record(t, 2, 0, map[string]any{"body": "INTRO\nmiddle\nend\n", "tags": []any{"a", "l"}})
	server := record(t, 2, 0, map[string]any{"body": "intro\nmiddle\nend\nappendix\n", "tags": []any{"a", "s"}})

	res, err := st.Resolve(context.Background(), conflict(local, server, base))
	require.NoError(t, err)
	assert.Equal(t, "INTRO\nmiddle\nend\nappendix\n", res.Record.Fields["body"])
	assert.Equal(t, []any{"a", "l", "s"}, res.Record.Fields["tags"])
	assert.Equal(t, KindSemanticTextMerge.String(), res.StrategyName)

	t.Run("overlap escalates", func(t *testing.T) {
		local := record(t, 2, 0, map[string]any{"body": "intro\nLOCAL\nend\n"})
		server := record(t, 2, 0, map[string]any{"body": "intro\nSERVER\nend\n"})
		base := record(t, 1, 0, map[string]any{"body": "intro\nmiddle\nend\n"})

		_, err := st.Resolve(context.Background(), conflict(local, server, base))
		assert.ErrorIs(t, err, models.ErrUnresolvableField)
		assert.ErrorIs(t, err, merge.ErrOverlappingHunks)
	})

	t.Run("size ceiling", func(t *testing.T) {
		small := MustNew(KindSemanticTextMerge, Options{Registry: merge.NewRegistry(merge.Config{MaxTextBytes: 8})})
		_, err := small.Resolve(context.Background(), conflict(local, server, base))
		assert.ErrorIs(t, err, merge.ErrTextTooLarge)
	})
}

func TestAutomaticResolvers_VersionMonotonicity(t *testing.T) {
	base := record(t, 3, 10, map[string]any{"title": "T", "n": 1})
	local := record(t, 7, 30, map[string]any{"title": "T", "n": 5})
	server := record(t, 4, 20, map[string]any{"title": "T2", "n": 1})

	for _, r := range automatic(t) {
		res, err := r.Resolve(context.Background(), conflict(local, server, base))
		require.NoError(t, err, r.Name())
		assert.Greater(t, res.Record.Version, max(local.Version, server.Version), r.Name())
		assert.Equal(t, int64(8), res.Record.Version, r.Name())
		assert.Equal(t, "doc-1", res.Record.ID)
		assert.Equal(t, "note", res.Record.EntityType)
	}
}

func TestAutomaticResolvers_Deterministic(t *testing.T) {
	base := record(t, 1, 10, map[string]any{"body": "a\nb\n", "meta": map[string]any{"k": "0"}, "n": 1})
	local := record(t, 2, 30, map[string]any{"body": "a\nb\nc\n", "meta": map[string]any{"k": "L"}, "n": 5})
	server := record(t, 2, 20, map[string]any{"body": "a\nb\n", "meta": map[string]any{"k": "S", "z": true}, "n": 9})
	c := conflict(local, server, base)

	for _, r := range automatic(t) {
		first, err := r.Resolve(context.Background(), c)
		require.NoError(t, err, r.Name())
		firstJSON, err := json.Marshal(first)
		require.NoError(t, err)

		for range 5 {
			again, err := r.Resolve(context.Background(), c)
			require.NoError(t, err)
			againJSON, err := json.Marshal(again)
			require.NoError(t, err)
			assert.Equal(t, string(firstJSON), string(againJSON), r.Name())
		}
	}
}

func TestResolvers_DoNotMutateConflict(t *testing.T) {
	base := record(t, 1, 0, map[string]any{"tags": []any{"a"}})
	local := record(t, 2, 0, map[string]any{"tags": []any{"a", "b"}})
	server := record(t, 2, 0, map[string]any{"tags": []any{"c"}})
	c := conflict(local, server, base)

	for _, r := range automatic(t) {
		res, err := r.Resolve(context.Background(), c)
		require.NoError(t, err)
		res.Record.Fields["tags"] = "mutated"
	}
	assert.Equal(t, []any{"a", "b"}, local.Fields["tags"])
	assert.Equal(t, []any{"c"}, server.Fields["tags"])
	require.NoError(t, local.VerifyChecksum())
}

func TestUserMediated(t *testing.T) {
	local := record(t, 2, 0, map[string]any{"title": "L"})
	server := record(t, 3, 0, map[string]any{"title": "S"})
	c := conflict(local, server, nil)

	manual, err := models.NewRecord("doc-1", "note", map[string]any{"title": "Merged by hand"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		choice        models.UserChoice
		wantTitle     any
		wantPostponed bool
		wantErr       error
	}{
		{name: "keep local", choice: models.KeepLocal(), wantTitle: "L"},
		{name: "keep server", choice: models.KeepServer(), wantTitle: "S"},
		{name: "manual merge", choice: models.ManualMerge(manual), wantTitle: "Merged by hand"},
		{name: "postpone", choice: models.Postpone(), wantPostponed: true},
		{name: "manual merge without record", choice: models.UserChoice{Kind: models.ChoiceManualMerge}, wantErr: ErrInvalidChoice},
		{name: "unknown choice", choice: models.UserChoice{Kind: "flip"}, wantErr: ErrInvalidChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			presenter := &PresenterMock{
				RequestUserDecisionFunc: func(ctx context.Context, got *models.ConflictRecord) (*Decision, error) {
					assert.Equal(t, c, got)
					return Decided(tt.choice), nil
				},
			}
			um := MustNew(KindUserMediated, Options{Presenter: presenter})

			res, err := um.Resolve(context.Background(), c)
			assert.Len(t, presenter.RequestUserDecisionCalls(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.ResolutionUserDecision, res.Resolution)
			assert.Equal(t, tt.wantPostponed, res.Metadata.Postponed)
			assert.True(t, res.RequiresUserIntervention)
			if tt.wantPostponed {
				assert.Nil(t, res.Record)
				return
			}
			assert.Equal(t, tt.wantTitle, res.Record.Fields["title"])
			assert.Equal(t, int64(4), res.Record.Version)
			require.NoError(t, res.Record.VerifyChecksum())
		})
	}
}

func TestUserMediated_NoPresenterPostpones(t *testing.T) {
	um := MustNew(KindUserMediated, Options{})
	res, err := um.Resolve(context.Background(), conflict(
		record(t, 1, 0, map[string]any{"title": "L"}),
		record(t, 1, 0, map[string]any{"title": "S"}),
		nil,
	))
	require.NoError(t, err)
	assert.True(t, res.Metadata.Postponed)
	assert.True(t, res.RequiresUserIntervention)
}

func TestUserMediated_Cancellation(t *testing.T) {
	pending := NewDecision()
	presenter := &PresenterMock{
		RequestUserDecisionFunc: func(ctx context.Context, c *models.ConflictRecord) (*Decision, error) {
			return pending, nil
		},
	}
	um := MustNew(KindUserMediated, Options{Presenter: presenter})

	ctx, cancel := context.WithCancelCause(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := um.Resolve(ctx, conflict(
			record(t, 1, 0, map[string]any{"title": "L"}),
			record(t, 1, 0, map[string]any{"title": "S"}),
			nil,
		))
		errCh <- err
	}()

	cancel(models.ErrCancelledByNewerConflict)

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, models.ErrCancelledByNewerConflict)
	case <-time.After(5 * time.Second):
		t.Fatal("resolver did not observe cancellation")
	}

	select {
	case <-pending.Done():
	default:
		t.Fatal("pending decision must be cancelled")
	}
	assert.False(t, pending.Fulfill(models.KeepLocal()), "отмененное решение нельзя выполнить")
}

func TestUserMediated_ReportsUserWait(t *testing.T) {
	var events []string
	ctx := WithUserWait(context.Background(), func(waiting bool) {
		events = append(events, fmt.Sprintf("wait=%t", waiting))
	})

	presenter := &PresenterMock{
		RequestUserDecisionFunc: func(ctx context.Context, c *models.ConflictRecord) (*Decision, error) {
			events = append(events, "ask")
			return Decided(models.KeepServer()), nil
		},
	}
	c := conflict(
		record(t, 1, 0, map[string]any{"title": "L"}),
		record(t, 1, 0, map[string]any{"title": "S"}),
		nil,
	)

	_, err := MustNew(KindUserMediated, Options{Presenter: presenter}).Resolve(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"wait=true", "ask", "wait=false"}, events)

	// без presenter ожидания нет
	events = nil
	_, err = MustNew(KindUserMediated, Options{}).Resolve(ctx, c)
	require.NoError(t, err)
	assert.Empty(t, events)

	// контекст без обработчика
	NotifyUserWait(context.Background(), true)
}

func TestUserMediated_PresenterError(t *testing.T) {
	boom := errors.New("ui unavailable")
	um := MustNew(KindUserMediated, Options{Presenter: &PresenterMock{
		RequestUserDecisionFunc: func(ctx context.Context, c *models.ConflictRecord) (*Decision, error) {
			return nil, boom
		},
	}})

	_, err := um.Resolve(context.Background(), conflict(
		record(t, 1, 0, map[string]any{"title": "L"}),
		record(t, 1, 0, map[string]any{"title": "S"}),
		nil,
	))
	assert.ErrorIs(t, err, boom)
}

func TestDecision(t *testing.T) {
	d := NewDecision()
	assert.True(t, d.Fulfill(models.KeepServer()))
	assert.False(t, d.Fulfill(models.KeepLocal()))
	assert.False(t, d.Cancel(nil))

	choice, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ChoiceKeepServer, choice.Kind)

	cancelled := NewDecision()
	assert.True(t, cancelled.Cancel(nil))
	_, err = cancelled.Await(context.Background())
	assert.ErrorIs(t, err, models.ErrCancelledByNewerConflict)
}
