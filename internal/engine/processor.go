// Package engine точка входа разрешения конфликтов: обнаружение, политика и аналитика.
//
// Запросы по одной сущности обрабатываются строго по очереди. Одинаковые
// конкурентные запросы (тот же конфликт) объединяются и получают один результат.
// Новый запрос с другим содержимым встает в очередь за текущим. Исключение -
// текущий запрос ждет решения пользователя: тогда ожидание отменяется и
// отмененный вызов возвращает models.ErrCancelledByNewerConflict.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iudanet/gophsync/internal/analytics"
	"github.com/iudanet/gophsync/internal/detector"
	"github.com/iudanet/gophsync/internal/models"
	"github.com/iudanet/gophsync/internal/resolver"
)

// StrategyNone имя стратегии для результата без конфликта
const StrategyNone = "none"

//go:generate moq -out resolver_mock.go . ConflictResolver

// ConflictResolver применяет политику к обнаруженному конфликту (policy.Engine)
type ConflictResolver interface {
	Resolve(ctx context.Context, c *models.ConflictRecord) (*models.ResolutionResult, error)
}

// Request входные данные обработки
type Request struct {
	Local  *models.Record
	Server *models.Record
	Base   *models.Record
	// Watermark отметка последней синхронизации, используется при отсутствии Base
	Watermark detector.Watermark
}

// Processor обрабатывает пары реплик. Безопасен для конкурентного использования.
type Processor struct {
	detector  *detector.Detector
	policy    ConflictResolver
	collector analytics.Collector
	logger    *slog.Logger
	locks     *keyedMutex
	pending   map[string][]*pendingRequest
	now       func() time.Time
	group     singleflight.Group
	mu        sync.Mutex
	seq       uint64
}

type pendingRequest struct {
	cancel       context.CancelCauseFunc
	key          string
	seq          uint64
	awaitingUser bool
}

// New создает Processor. nil-детектор заменяется детектором по умолчанию,
// nil-коллектор отключает аналитику.
func New(det *detector.Detector, policy ConflictResolver, collector analytics.Collector, logger *slog.Logger) *Processor {
	if det == nil {
		det = detector.New(detector.DefaultConfig())
	}
	if collector == nil {
		collector = analytics.Nop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{
		detector:  det,
		policy:    policy,
		collector: collector,
		logger:    logger,
		locks:     newKeyedMutex(),
		pending:   make(map[string][]*pendingRequest),
		now:       time.Now,
	}
}

// ProcessConflict обнаруживает и разрешает конфликт между репликами.
// Если конфликта нет, возвращает результат Unchanged с изменившейся стороной.
func (p *Processor) ProcessConflict(ctx context.Context, local, server, base *models.Record) (*models.ResolutionResult, error) {
	return p.Process(ctx, Request{Local: local, Server: server, Base: base})
}

// Process аналогичен ProcessConflict, но принимает отметку синхронизации
func (p *Processor) Process(ctx context.Context, req Request) (*models.ResolutionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, context.Cause(ctx)
	}

	conflict, err := p.detector.DetectWithWatermark(req.Local, req.Server, req.Base, req.Watermark)
	if err != nil {
		return nil, err
	}
	if conflict == nil {
		return p.unchanged(req), nil
	}

	ch := p.group.DoChan(conflict.ID, func() (any, error) {
		return p.resolve(ctx, conflict)
	})

	select {
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			p.logger.Debug("Joined in-flight resolution", "conflict_id", conflict.ID)
		}
		return cloneResult(r.Val.(*models.ResolutionResult)), nil
	}
}

// Detect только обнаруживает конфликт, не разрешая его
func (p *Processor) Detect(req Request) (*models.ConflictRecord, error) {
	return p.detector.DetectWithWatermark(req.Local, req.Server, req.Base, req.Watermark)
}

func (p *Processor) unchanged(req Request) *models.ResolutionResult {
	winner := detector.ChangedSide(req.Local, req.Server, req.Base, req.Watermark)
	rec := req.Local
	if winner == "server" {
		rec = req.Server
	}
	p.logger.Debug("No conflict", "entity_id", req.Local.ID, "changed", winner)
	return &models.ResolutionResult{
		Record:       rec.Clone(),
		Resolution:   models.ResolutionUnchanged,
		StrategyName: StrategyNone,
		Metadata: models.ResolutionMetadata{
			Winner: winner,
			Reason: "no conflict",
		},
	}
}

func (p *Processor) resolve(parent context.Context, c *models.ConflictRecord) (*models.ResolutionResult, error) {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	entityID := c.EntityID()
	seq := p.register(entityID, c.ID, cancel)
	defer p.done(entityID, seq)
	ctx = resolver.WithUserWait(ctx, func(waiting bool) {
		p.userWait(entityID, seq, waiting)
	})

	unlock, err := p.locks.Lock(ctx, entityID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p.collector.OnConflictDetected(ctx, analytics.DetectedEvent{
		Timestamp:    p.now(),
		ConflictID:   c.ID,
		EntityType:   c.EntityType(),
		ConflictType: c.Type,
		FieldCount:   len(c.FieldsInConflict),
	})

	started := p.now()
	res, err := p.policy.Resolve(ctx, c)
	if err != nil {
		if cause := context.Cause(ctx); errors.Is(cause, models.ErrCancelledByNewerConflict) {
			return nil, models.ErrCancelledByNewerConflict
		}
		return nil, err
	}
	elapsed := p.now().Sub(started)

	p.collector.OnConflictResolved(ctx, analytics.ResolvedEvent{
		ConflictID:   c.ID,
		StrategyName: res.StrategyName,
		Method:       res.Resolution,
		DurationMs:   elapsed.Milliseconds(),
		AutoResolved: !res.RequiresUserIntervention,
	})

	p.logger.Info("Conflict processed",
		"entity_id", entityID,
		"conflict_id", c.ID,
		"conflict_type", c.Type,
		"strategy", res.StrategyName,
		"resolution", res.Resolution,
		"requires_user", res.RequiresUserIntervention,
	)
	return res, nil
}

// register ставит запрос в очередь сущности. Другой запрос, ожидающий решения
// пользователя, отменяется; остальные продолжают работу, а новый ждет блокировку.
func (p *Processor) register(entityID, key string, cancel context.CancelCauseFunc) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, prev := range p.pending[entityID] {
		if prev.awaitingUser && prev.key != key {
			p.cancelSuperseded(entityID, prev, key)
		}
	}

	p.seq++
	p.pending[entityID] = append(p.pending[entityID], &pendingRequest{key: key, cancel: cancel, seq: p.seq})
	return p.seq
}

// userWait отмечает начало и конец ожидания пользователя.
// Если за запросом уже стоит более новый другой конфликт, ожидание сразу отменяется.
func (p *Processor) userWait(entityID string, seq uint64, waiting bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	queue := p.pending[entityID]
	i := slices.IndexFunc(queue, func(r *pendingRequest) bool { return r.seq == seq })
	if i < 0 {
		return
	}
	self := queue[i]
	self.awaitingUser = waiting
	if !waiting {
		return
	}
	for _, next := range queue {
		if next.seq > seq && next.key != self.key {
			p.cancelSuperseded(entityID, self, next.key)
			return
		}
	}
}

func (p *Processor) cancelSuperseded(entityID string, prev *pendingRequest, newer string) {
	p.logger.Info("Cancelling superseded conflict",
		"entity_id", entityID,
		"conflict_id", prev.key,
		"newer_conflict_id", newer,
	)
	prev.cancel(models.ErrCancelledByNewerConflict)
}

func (p *Processor) done(entityID string, seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	queue := slices.DeleteFunc(p.pending[entityID], func(r *pendingRequest) bool { return r.seq == seq })
	if len(queue) == 0 {
		delete(p.pending, entityID)
		return
	}
	p.pending[entityID] = queue
}

// cloneResult копия результата для каждого из объединенных вызовов
func cloneResult(r *models.ResolutionResult) *models.ResolutionResult {
	out := *r
	out.Record = r.Record.Clone()
	out.Metadata.Conflicts = slices.Clone(r.Metadata.Conflicts)
	out.Metadata.Attempts = slices.Clone(r.Metadata.Attempts)
	if r.Metadata.OverlappingKeys != nil {
		out.Metadata.OverlappingKeys = make(map[string][]string, len(r.Metadata.OverlappingKeys))
		for k, v := range r.Metadata.OverlappingKeys {
			out.Metadata.OverlappingKeys[k] = slices.Clone(v)
		}
	}
	return &out
}
