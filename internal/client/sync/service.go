package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/gophsync/internal/client/storage"
	"github.com/iudanet/gophsync/internal/clock"
	"github.com/iudanet/gophsync/internal/engine"
	"github.com/iudanet/gophsync/internal/models"
	"github.com/iudanet/gophsync/pkg/api"
)

// DefaultConcurrency число сущностей, разрешаемых одновременно
const DefaultConcurrency = 4

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс для sync.Service
type Service interface {
	// Import сохраняет реплики из файла импорта
	Import(ctx context.Context, f *api.ImportFile) (*ImportResult, error)

	// Edit применяет локальную правку к локальной реплике
	Edit(ctx context.Context, id, entityType string, set map[string]any, unset []string) (*models.Record, error)

	// ResolveEntity разрешает одну сущность и фиксирует результат
	ResolveEntity(ctx context.Context, id string) (*EntityResult, error)

	// ResolveAll разрешает все сущности хранилища
	ResolveAll(ctx context.Context) (*Summary, error)

	// ResolveConflicted повторяет разрешение только отложенных конфликтов
	ResolveConflicted(ctx context.Context) (*Summary, error)

	// RetryCommits повторяет фиксацию сохраненных результатов без повторного разрешения
	RetryCommits(ctx context.Context) (*RetryResult, error)

	// ListConflicted возвращает отложенные конфликты
	ListConflicted(ctx context.Context) ([]*storage.Conflicted, error)

	// LastRun возвращает время последнего прохода (unix ms), 0 если проходов не было
	LastRun(ctx context.Context) (int64, error)
}

//go:generate moq -out processor_mock.go . Processor

// Processor точка входа разрешения конфликтов (engine.Processor)
type Processor interface {
	Process(ctx context.Context, req engine.Request) (*models.ResolutionResult, error)
	Detect(req engine.Request) (*models.ConflictRecord, error)
}

// Storage хранилище клиента
type Storage interface {
	storage.ReplicaStorage
	storage.ConflictStorage
	storage.PendingStorage
	storage.MetadataStorage
}

// Outcome итог обработки одной сущности
type Outcome string

// Outcome константы
const (
	OutcomeResolved  Outcome = "resolved"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomePostponed Outcome = "postponed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// EntityResult результат обработки одной сущности
type EntityResult struct {
	Err      error
	Result   *models.ResolutionResult
	EntityID string
	Outcome  Outcome
}

// Summary результат пакетной обработки
type Summary struct {
	Results   []EntityResult // Results в порядке идентификаторов
	Total     int
	Resolved  int
	Unchanged int
	Postponed int
	Cancelled int
	Failed    int
}

// ImportResult результат импорта
type ImportResult struct {
	Entities int
	Replicas int
}

// RetryResult результат повторной фиксации
type RetryResult struct {
	Failed    []string // Failed идентификаторы, фиксация которых снова не удалась
	Committed int
}

// Service handles conflict resolution over the local replica store
type service struct {
	processor   Processor
	store       Storage
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
}

// NewService creates a new sync service
func NewService(processor Processor, store Storage, logger *slog.Logger, concurrency int) Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &service{
		processor:   processor,
		store:       store,
		logger:      logger,
		now:         time.Now,
		concurrency: concurrency,
	}
}

// Import сохраняет реплики. Пустой checksum вычисляется, заданный сохраняется как есть:
// поврежденные реплики будут обнаружены при разрешении.
func (s *service) Import(ctx context.Context, f *api.ImportFile) (*ImportResult, error) {
	result := &ImportResult{}

	for _, e := range f.Entities {
		sides := []struct {
			rec  *api.Record
			side storage.Side
		}{
			{rec: e.Local, side: storage.SideLocal},
			{rec: e.Server, side: storage.SideServer},
			{rec: e.Base, side: storage.SideBase},
		}
		for _, sd := range sides {
			if sd.rec == nil {
				continue
			}
			r, err := toModel(e, sd.rec)
			if err != nil {
				return result, fmt.Errorf("entity %q %s: %w", e.ID, sd.side, err)
			}
			if err := s.store.SaveReplica(ctx, sd.side, r); err != nil {
				return result, fmt.Errorf("entity %q %s: %w", e.ID, sd.side, err)
			}
			result.Replicas++
		}
		result.Entities++
	}

	s.logger.Info("Import completed", "entities", result.Entities, "replicas", result.Replicas)
	return result, nil
}

func toModel(e api.Entity, in *api.Record) (*models.Record, error) {
	r, err := models.NewRecord(e.ID, e.EntityType, in.Fields)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.Version = in.Version
	r.LastModified = in.LastModified
	if in.Checksum != "" {
		r.Checksum = in.Checksum
	}
	return r, nil
}

// Edit изменяет локальную реплику: версия увеличивается на 1,
// LastModified берется из логических часов клиента.
func (s *service) Edit(ctx context.Context, id, entityType string, set map[string]any, unset []string) (*models.Record, error) {
	rec, err := s.store.GetReplica(ctx, storage.SideLocal, id)
	switch {
	case errors.Is(err, storage.ErrRecordNotFound):
		rec = &models.Record{ID: id, EntityType: entityType, Fields: map[string]any{}}
	case err != nil:
		return nil, fmt.Errorf("failed to load local replica: %w", err)
	default:
		if err := rec.VerifyChecksum(); err != nil {
			return nil, err
		}
	}

	updated := rec.Clone()
	for _, name := range unset {
		delete(updated.Fields, name)
	}
	normalized, err := models.NormalizeFields(set)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}
	for name, v := range normalized {
		updated.Fields[name] = v
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	counter, err := s.store.GetClock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clock: %w", err)
	}
	c := clock.New(counter)

	updated.Version = rec.Version + 1
	if rec.LastModified > 0 {
		updated.LastModified = c.Observe(rec.LastModified)
	} else {
		updated.LastModified = c.Tick()
	}
	if err := updated.Seal(); err != nil {
		return nil, err
	}

	if err := s.store.SaveReplica(ctx, storage.SideLocal, updated); err != nil {
		return nil, fmt.Errorf("failed to save local replica: %w", err)
	}
	if err := s.store.SaveClock(ctx, c.Now()); err != nil {
		s.logger.Warn("Failed to save clock", "error", err)
	}

	s.logger.Debug("Local edit saved", "entity_id", id, "version", updated.Version)
	return updated, nil
}

// ResolveEntity: fetchTriple -> processConflict -> commit (ровно один раз) или markConflicted
func (s *service) ResolveEntity(ctx context.Context, id string) (*EntityResult, error) {
	triple, err := s.store.FetchTriple(ctx, id)
	if err != nil {
		return nil, err
	}

	req := engine.Request{
		Local:     triple.Local,
		Server:    triple.Server,
		Base:      triple.Base,
		Watermark: triple.Watermark,
	}
	res, err := s.processor.Process(ctx, req)
	if err != nil {
		if errors.Is(err, models.ErrCancelledByNewerConflict) {
			return &EntityResult{EntityID: id, Outcome: OutcomeCancelled, Err: err}, nil
		}
		return nil, fmt.Errorf("failed to process %q: %w", id, err)
	}

	if res.Record == nil {
		if err := s.markConflicted(ctx, req, res); err != nil {
			return nil, err
		}
		return &EntityResult{EntityID: id, Outcome: OutcomePostponed, Result: res}, nil
	}

	if err := s.commit(ctx, id, res); err != nil {
		return nil, err
	}

	outcome := OutcomeResolved
	if res.Resolution == models.ResolutionUnchanged {
		outcome = OutcomeUnchanged
	}
	return &EntityResult{EntityID: id, Outcome: outcome, Result: res}, nil
}

func (s *service) markConflicted(ctx context.Context, req engine.Request, res *models.ResolutionResult) error {
	mark := &storage.Conflicted{
		EntityID:   req.Local.ID,
		EntityType: req.Local.EntityType,
		Reason:     res.Metadata.Reason,
		Attempts:   res.Metadata.Attempts,
		MarkedAt:   s.now().UnixMilli(),
	}
	if c, err := s.processor.Detect(req); err == nil && c != nil {
		mark.ConflictID = c.ID
		mark.Type = c.Type
		mark.Fields = c.FieldsInConflict
		mark.EntityType = c.EntityType()
	}

	if err := s.store.MarkConflicted(ctx, mark); err != nil {
		return fmt.Errorf("failed to mark %q conflicted: %w", mark.EntityID, err)
	}
	s.logger.Info("Conflict postponed", "entity_id", mark.EntityID, "conflict_type", mark.Type)
	return nil
}

// commit фиксирует результат. Сначала результат сохраняется в журнал ожидающих
// фиксаций: при сбое его можно зафиксировать повторно без повторного разрешения.
func (s *service) commit(ctx context.Context, id string, res *models.ResolutionResult) error {
	pending := &storage.PendingCommit{
		Record:       res.Record,
		EntityID:     id,
		StrategyName: res.StrategyName,
		Resolution:   res.Resolution,
		CreatedAt:    s.now().UnixMilli(),
	}
	if err := s.store.SavePending(ctx, pending); err != nil {
		return fmt.Errorf("%w: %q: %v", models.ErrStorageCommitFailure, id, err)
	}
	if err := s.store.Commit(ctx, res.Record); err != nil {
		s.logger.Warn("Commit failed, result kept for retry", "entity_id", id, "error", err)
		return fmt.Errorf("%w: %q: %v", models.ErrStorageCommitFailure, id, err)
	}
	return nil
}

// ResolveAll разрешает все сущности хранилища
func (s *service) ResolveAll(ctx context.Context) (*Summary, error) {
	ids, err := s.store.ListEntities(ctx)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, ids)
}

// ResolveConflicted повторяет разрешение отложенных конфликтов
func (s *service) ResolveConflicted(ctx context.Context) (*Summary, error) {
	marks, err := s.store.ListConflicted(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(marks))
	for _, m := range marks {
		ids = append(ids, m.EntityID)
	}
	return s.run(ctx, ids)
}

// run обрабатывает сущности параллельно, не более concurrency одновременно.
// Ошибка одной сущности не прерывает обработку остальных.
func (s *service) run(ctx context.Context, ids []string) (*Summary, error) {
	s.logger.Info("Starting resolution pass", "entities", len(ids), "concurrency", s.concurrency)

	results := make([]EntityResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return context.Cause(gctx)
			}
			res, err := s.ResolveEntity(gctx, id)
			if err != nil {
				s.logger.Warn("Failed to resolve entity", "entity_id", id, "error", err)
				results[i] = EntityResult{EntityID: id, Outcome: OutcomeFailed, Err: err}
				return nil
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Results: results, Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeResolved:
			summary.Resolved++
		case OutcomeUnchanged:
			summary.Unchanged++
		case OutcomePostponed:
			summary.Postponed++
		case OutcomeCancelled:
			summary.Cancelled++
		case OutcomeFailed:
			summary.Failed++
		}
	}

	if err := s.store.SaveLastRun(ctx, s.now().UnixMilli()); err != nil {
		s.logger.Warn("Failed to save last run", "error", err)
	}

	s.logger.Info("Resolution pass completed",
		"total", summary.Total,
		"resolved", summary.Resolved,
		"unchanged", summary.Unchanged,
		"postponed", summary.Postponed,
		"cancelled", summary.Cancelled,
		"failed", summary.Failed,
	)
	return summary, nil
}

// RetryCommits фиксирует сохраненные результаты. Разрешение не повторяется.
func (s *service) RetryCommits(ctx context.Context) (*RetryResult, error) {
	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	result := &RetryResult{}
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return result, context.Cause(ctx)
		}
		if err := s.store.Commit(ctx, p.Record); err != nil {
			s.logger.Warn("Retry commit failed", "entity_id", p.EntityID, "error", err)
			result.Failed = append(result.Failed, p.EntityID)
			continue
		}
		result.Committed++
	}

	if len(result.Failed) > 0 {
		return result, fmt.Errorf("%w: %d of %d", models.ErrStorageCommitFailure, len(result.Failed), len(pending))
	}
	return result, nil
}

// ListConflicted возвращает отложенные конфликты
func (s *service) ListConflicted(ctx context.Context) ([]*storage.Conflicted, error) {
	return s.store.ListConflicted(ctx)
}

// LastRun возвращает время последнего прохода
func (s *service) LastRun(ctx context.Context) (int64, error) {
	return s.store.GetLastRun(ctx)
}
