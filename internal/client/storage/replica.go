package storage

import (
	"context"

	"github.com/iudanet/gophsync/internal/detector"
	"github.com/iudanet/gophsync/internal/models"
)

// Side реплика записи в локальном хранилище
type Side string

// Side константы
const (
	SideLocal  Side = "local"
	SideServer Side = "server"
	SideBase   Side = "base"
)

// Triple три реплики одной сущности и отметка последней синхронизации
type Triple struct {
	Local     *models.Record
	Server    *models.Record
	Base      *models.Record // Base может отсутствовать
	Watermark detector.Watermark
}

//go:generate moq -out replicastorage_mock.go . ReplicaStorage

// ReplicaStorage хранилище реплик записей на клиенте
type ReplicaStorage interface {
	// SaveReplica сохраняет одну из реплик записи (импорт, локальное редактирование)
	SaveReplica(ctx context.Context, side Side, r *models.Record) error

	// GetReplica возвращает одну реплику записи.
	// Returns ErrRecordNotFound, если реплики нет.
	GetReplica(ctx context.Context, side Side, id string) (*models.Record, error)

	// FetchTriple возвращает реплики сущности.
	// Returns ErrRecordNotFound, если нет локальной или серверной реплики.
	FetchTriple(ctx context.Context, id string) (*Triple, error)

	// Commit сохраняет итоговую запись как согласованное состояние всех реплик
	// (local = server = base), обновляет отметку синхронизации, снимает пометку
	// конфликта и удаляет ожидающую фиксацию. Выполняется атомарно.
	Commit(ctx context.Context, r *models.Record) error

	// ListEntities возвращает отсортированные идентификаторы всех сущностей
	ListEntities(ctx context.Context) ([]string, error)
}

// Conflicted сущность, конфликт которой ждет решения пользователя
type Conflicted struct {
	EntityID   string              `json:"entity_id"`
	EntityType string              `json:"entity_type"`
	ConflictID string              `json:"conflict_id"`
	Reason     string              `json:"reason,omitempty"`
	Type       models.ConflictType `json:"type"`
	Fields     []string            `json:"fields,omitempty"`
	Attempts   []models.Attempt    `json:"attempts,omitempty"`
	MarkedAt   int64               `json:"marked_at"`
}

//go:generate moq -out conflictstorage_mock.go . ConflictStorage

// ConflictStorage набор сущностей с отложенными конфликтами
type ConflictStorage interface {
	// MarkConflicted помечает сущность как конфликтную (повторная пометка перезаписывает)
	MarkConflicted(ctx context.Context, c *Conflicted) error

	// GetConflicted возвращает пометку конфликта.
	// Returns ErrNotConflicted, если сущность не помечена.
	GetConflicted(ctx context.Context, id string) (*Conflicted, error)

	// ListConflicted возвращает пометки в порядке идентификаторов
	ListConflicted(ctx context.Context) ([]*Conflicted, error)
}

// PendingCommit результат разрешения, который еще не зафиксирован в хранилище
type PendingCommit struct {
	Record       *models.Record    `json:"record"`
	EntityID     string            `json:"entity_id"`
	StrategyName string            `json:"strategy_name"`
	Resolution   models.Resolution `json:"resolution"`
	CreatedAt    int64             `json:"created_at"`
}

//go:generate moq -out pendingstorage_mock.go . PendingStorage

// PendingStorage журнал результатов разрешения до фиксации.
// Позволяет повторить фиксацию после сбоя без повторного разрешения.
type PendingStorage interface {
	SavePending(ctx context.Context, p *PendingCommit) error
	ListPending(ctx context.Context) ([]*PendingCommit, error)
}

//go:generate moq -out metadatastorage_mock.go . MetadataStorage

// MetadataStorage служебные данные клиента
type MetadataStorage interface {
	// SaveLastRun сохраняет время (unix ms) последнего прохода синхронизации
	SaveLastRun(ctx context.Context, timestamp int64) error

	// GetLastRun возвращает время последнего прохода; 0, если проходов не было
	GetLastRun(ctx context.Context) (int64, error)

	// SaveClock сохраняет значение логических часов клиента
	SaveClock(ctx context.Context, counter int64) error

	// GetClock возвращает сохраненное значение логических часов (0 по умолчанию)
	GetClock(ctx context.Context) (int64, error)
}
