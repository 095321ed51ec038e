// Package analytics собирает события обнаружения и разрешения конфликтов.
//
// Коллекторы получают только идентификаторы и счетчики, но не записи:
// содержимое пользовательских данных в аналитику не попадает.
package analytics

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/iudanet/gophsync/internal/models"
)

//go:generate moq -out collector_mock.go . Collector

// Collector получатель событий аналитики.
// Реализации не должны блокировать и не возвращают ошибок: сбой аналитики не влияет на разрешение.
type Collector interface {
	OnConflictDetected(ctx context.Context, e DetectedEvent)
	OnConflictResolved(ctx context.Context, e ResolvedEvent)
}

// DetectedEvent конфликт обнаружен
type DetectedEvent struct {
	Timestamp    time.Time
	ConflictID   string
	EntityType   string
	ConflictType models.ConflictType
	FieldCount   int
}

// ResolvedEvent конфликт разрешен (в том числе отложен пользователем)
type ResolvedEvent struct {
	ConflictID   string
	StrategyName string
	Method       models.Resolution
	DurationMs   int64
	AutoResolved bool
}

// Snapshot агрегированные метрики
type Snapshot struct {
	ByConflictType  map[models.ConflictType]int64 `json:"by_conflict_type"`
	ByEntityType    map[string]int64              `json:"by_entity_type"`
	ByStrategy      map[string]int64              `json:"by_strategy"`
	ByMethod        map[models.Resolution]int64   `json:"by_method"`
	Detected        int64                         `json:"detected"`
	Resolved        int64                         `json:"resolved"`
	AutoResolved    int64                         `json:"auto_resolved"`
	TotalFields     int64                         `json:"total_fields"`
	TotalDurationMs int64                         `json:"total_duration_ms"`
	MaxDurationMs   int64                         `json:"max_duration_ms"`
}

// AvgFieldsInConflict среднее число конфликтующих полей
func (s Snapshot) AvgFieldsInConflict() float64 {
	if s.Detected == 0 {
		return 0
	}
	return float64(s.TotalFields) / float64(s.Detected)
}

// AvgDurationMs среднее время разрешения
func (s Snapshot) AvgDurationMs() float64 {
	if s.Resolved == 0 {
		return 0
	}
	return float64(s.TotalDurationMs) / float64(s.Resolved)
}

// AutoResolutionRate доля автоматически разрешенных конфликтов
func (s Snapshot) AutoResolutionRate() float64 {
	if s.Resolved == 0 {
		return 0
	}
	return float64(s.AutoResolved) / float64(s.Resolved)
}

// Aggregator потокобезопасные счетчики в памяти
type Aggregator struct {
	snap Snapshot
	mu   sync.Mutex
}

// NewAggregator создает пустой агрегатор
func NewAggregator() *Aggregator {
	a := &Aggregator{}
	a.reset()
	return a
}

func (a *Aggregator) reset() {
	a.snap = Snapshot{
		ByConflictType: make(map[models.ConflictType]int64),
		ByEntityType:   make(map[string]int64),
		ByStrategy:     make(map[string]int64),
		ByMethod:       make(map[models.Resolution]int64),
	}
}

// OnConflictDetected учитывает обнаруженный конфликт
func (a *Aggregator) OnConflictDetected(_ context.Context, e DetectedEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.snap.Detected++
	a.snap.TotalFields += int64(e.FieldCount)
	a.snap.ByConflictType[e.ConflictType]++
	a.snap.ByEntityType[e.EntityType]++
}

// OnConflictResolved учитывает результат разрешения
func (a *Aggregator) OnConflictResolved(_ context.Context, e ResolvedEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.snap.Resolved++
	if e.AutoResolved {
		a.snap.AutoResolved++
	}
	a.snap.TotalDurationMs += e.DurationMs
	a.snap.MaxDurationMs = max(a.snap.MaxDurationMs, e.DurationMs)
	a.snap.ByStrategy[e.StrategyName]++
	a.snap.ByMethod[e.Method]++
}

// Snapshot возвращает копию текущих метрик
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.snap
	s.ByConflictType = maps.Clone(a.snap.ByConflictType)
	s.ByEntityType = maps.Clone(a.snap.ByEntityType)
	s.ByStrategy = maps.Clone(a.snap.ByStrategy)
	s.ByMethod = maps.Clone(a.snap.ByMethod)
	return s
}

// Reset обнуляет метрики
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

// Fanout рассылает события нескольким коллекторам по порядку
type Fanout []Collector

// OnConflictDetected передает событие всем коллекторам
func (f Fanout) OnConflictDetected(ctx context.Context, e DetectedEvent) {
	for _, c := range f {
		c.OnConflictDetected(ctx, e)
	}
}

// OnConflictResolved передает событие всем коллекторам
func (f Fanout) OnConflictResolved(ctx context.Context, e ResolvedEvent) {
	for _, c := range f {
		c.OnConflictResolved(ctx, e)
	}
}

// Nop коллектор, игнорирующий события
type Nop struct{}

// OnConflictDetected ничего не делает
func (Nop) OnConflictDetected(context.Context, DetectedEvent) {}

// OnConflictResolved ничего не делает
func (Nop) OnConflictResolved(context.Context, ResolvedEvent) {}

// Logger пишет события в slog на уровне Debug
type Logger struct {
	logger *slog.Logger
}

// NewLogger создает коллектор, пишущий события в лог
func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

// OnConflictDetected логирует обнаружение
func (l *Logger) OnConflictDetected(ctx context.Context, e DetectedEvent) {
	l.logger.DebugContext(ctx, "Conflict detected",
		"conflict_id", e.ConflictID,
		"entity_type", e.EntityType,
		"conflict_type", e.ConflictType,
		"field_count", e.FieldCount,
	)
}

// OnConflictResolved логирует разрешение
func (l *Logger) OnConflictResolved(ctx context.Context, e ResolvedEvent) {
	l.logger.DebugContext(ctx, "Conflict resolved",
		"conflict_id", e.ConflictID,
		"strategy", e.StrategyName,
		"method", e.Method,
		"duration_ms", e.DurationMs,
		"auto_resolved", e.AutoResolved,
	)
}
