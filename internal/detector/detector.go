// Package detector decides whether a local and a server replica of the same
// record have diverged and classifies the divergence.
//
// Detection is a pure function of its inputs: no clocks, no I/O, no state.
// Order of checks:
//
//  1. every supplied checksum must match its fields (corruption is an error, not a conflict)
//  2. equal local/server checksums mean no conflict, whatever the metadata says
//  3. a change on only one side (relative to base, or to the last-synced watermark) means no conflict
//  4. otherwise the divergence is classified by version, then by timestamp
package detector

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophsync/internal/models"
)

// DefaultTimestampTolerance окно, в пределах которого изменения считаются одновременными
const DefaultTimestampTolerance = 1000 * time.Millisecond

var (
	// ErrMissingReplica indicates that local or server record is nil
	ErrMissingReplica = errors.New("local and server records are required")

	// ErrEntityMismatch indicates that the records describe different entities
	ErrEntityMismatch = errors.New("records belong to different entities")
)

// conflictNamespace пространство имен для детерминированных UUIDv5 конфликтов
var conflictNamespace = uuid.MustParse("6f1c9a52-3d4e-4b8a-9f0e-7a2b5c8d1e43")

// Config настройки детектора
type Config struct {
	// TimestampTolerance окно одновременности для сравнения по LastModified (в единицах ms)
	TimestampTolerance time.Duration
}

// DefaultConfig возвращает настройки по умолчанию
func DefaultConfig() Config {
	return Config{TimestampTolerance: DefaultTimestampTolerance}
}

// Watermark отметка последней успешной синхронизации сущности.
// Используется, когда базовая запись недоступна.
type Watermark struct {
	Version   int64 `json:"version"`   // Version версия на момент последней синхронизации
	Timestamp int64 `json:"timestamp"` // Timestamp LastModified на момент последней синхронизации
}

// IsZero сообщает, что отметка неизвестна
func (w Watermark) IsZero() bool {
	return w.Version == 0 && w.Timestamp == 0
}

// Detector обнаруживает и классифицирует конфликты
type Detector struct {
	cfg Config
}

// New создает детектор. Нулевой или отрицательный допуск заменяется значением по умолчанию.
func New(cfg Config) *Detector {
	if cfg.TimestampTolerance <= 0 {
		cfg.TimestampTolerance = DefaultTimestampTolerance
	}
	return &Detector{cfg: cfg}
}

// Tolerance возвращает действующее окно одновременности
func (d *Detector) Tolerance() time.Duration {
	return d.cfg.TimestampTolerance
}

// Detect проверяет тройку (local, server, base). base может быть nil.
// Возвращает nil, если конфликта нет.
func (d *Detector) Detect(local, server, base *models.Record) (*models.ConflictRecord, error) {
	return d.DetectWithWatermark(local, server, base, Watermark{})
}

// DetectWithWatermark аналогичен Detect, но при отсутствии base использует
// отметку последней синхронизации, чтобы понять, какая сторона менялась.
func (d *Detector) DetectWithWatermark(local, server, base *models.Record, wm Watermark) (*models.ConflictRecord, error) {
	if local == nil || server == nil {
		return nil, ErrMissingReplica
	}
	if local.ID != server.ID {
		return nil, fmt.Errorf("%w: local %q, server %q", ErrEntityMismatch, local.ID, server.ID)
	}
	if base != nil && base.ID != local.ID {
		return nil, fmt.Errorf("%w: base %q, local %q", ErrEntityMismatch, base.ID, local.ID)
	}

	if err := verify(local, "local"); err != nil {
		return nil, err
	}
	if err := verify(server, "server"); err != nil {
		return nil, err
	}
	if base != nil {
		if err := verify(base, "base"); err != nil {
			return nil, err
		}
	}

	// Одинаковое содержимое - конфликта нет, независимо от версий и времени
	if local.SameContent(server) {
		return nil, nil
	}

	if base != nil {
		localChanged := !local.SameContent(base)
		serverChanged := !server.SameContent(base)
		if !localChanged || !serverChanged {
			// Изменилась только одна сторона - ее и нужно распространить
			return nil, nil
		}
	} else if !wm.IsZero() {
		if changedSince(local, wm) != changedSince(server, wm) {
			return nil, nil
		}
	}

	return &models.ConflictRecord{
		Local:            local.Clone(),
		Server:           server.Clone(),
		Base:             base.Clone(),
		ID:               ConflictID(local, server, base),
		Type:             d.classify(local, server, base, wm),
		FieldsInConflict: FieldsInConflict(local, server, base),
	}, nil
}

// ChangedSide сообщает, какая сторона изменилась, когда Detect не нашел конфликта.
// Возвращает "local", "server" или "" (содержимое совпадает).
func ChangedSide(local, server, base *models.Record, wm Watermark) string {
	if local.SameContent(server) {
		return ""
	}
	if base != nil {
		if local.SameContent(base) {
			return "server"
		}
		return "local"
	}
	if changedSince(server, wm) && !changedSince(local, wm) {
		return "server"
	}
	return "local"
}

func (d *Detector) classify(local, server, base *models.Record, wm Watermark) models.ConflictType {
	if local.HasVersion() && server.HasVersion() {
		switch {
		case local.Version > server.Version:
			return models.ConflictClientNewer
		case server.Version > local.Version:
			return models.ConflictServerNewer
		default:
			// Равные версии при разном содержимом: ошибка версионирования, не конфликт правок
			return models.ConflictVersionMismatch
		}
	}

	// Версии недоступны - сравниваем по времени изменения
	if local.HasTimestamp() && server.HasTimestamp() {
		diff := local.LastModified - server.LastModified
		if diff < 0 {
			diff = -diff
		}
		bothAfterWatermark := wm.Timestamp == 0 ||
			(local.LastModified > wm.Timestamp && server.LastModified > wm.Timestamp)

		switch {
		case bothAfterWatermark && diff < d.cfg.TimestampTolerance.Milliseconds():
			return models.ConflictSimultaneous
		case local.LastModified > server.LastModified:
			return models.ConflictClientNewer
		case server.LastModified > local.LastModified:
			return models.ConflictServerNewer
		default:
			return models.ConflictSimultaneous
		}
	}

	return models.ConflictContentDivergent
}

// FieldsInConflict возвращает отсортированные имена конфликтующих полей.
// С base: поля, измененные обеими сторонами по-разному. Без base: поля с разными значениями.
func FieldsInConflict(local, server, base *models.Record) []string {
	names := make(map[string]struct{}, len(local.Fields)+len(server.Fields))
	for name := range local.Fields {
		names[name] = struct{}{}
	}
	for name := range server.Fields {
		names[name] = struct{}{}
	}

	fields := make([]string, 0)
	for _, name := range models.SortedKeys(names) {
		lv, lok := local.Get(name)
		sv, sok := server.Get(name)
		if models.SameField(lv, lok, sv, sok) {
			continue
		}
		if base != nil {
			bv, bok := base.Get(name)
			if models.SameField(lv, lok, bv, bok) || models.SameField(sv, sok, bv, bok) {
				continue
			}
		}
		fields = append(fields, name)
	}
	return fields
}

// ConflictID вычисляет детерминированный идентификатор конфликта (UUIDv5)
// по идентификатору сущности, checksum и версиям всех трех реплик.
func ConflictID(local, server, base *models.Record) string {
	key := local.ID + "|" + local.Checksum + "|" + strconv.FormatInt(local.Version, 10) +
		"|" + server.Checksum + "|" + strconv.FormatInt(server.Version, 10)
	if base != nil {
		key += "|" + base.Checksum + "|" + strconv.FormatInt(base.Version, 10)
	}
	return uuid.NewSHA1(conflictNamespace, []byte(key)).String()
}

func changedSince(r *models.Record, wm Watermark) bool {
	if wm.Version > 0 && r.HasVersion() {
		return r.Version > wm.Version
	}
	if wm.Timestamp > 0 && r.HasTimestamp() {
		return r.LastModified > wm.Timestamp
	}
	// Нет данных для сравнения - считаем, что сторона менялась
	return true
}

func verify(r *models.Record, side string) error {
	err := r.VerifyChecksum()
	if err == nil {
		return nil
	}
	var mismatch *models.ChecksumMismatchError
	if errors.As(err, &mismatch) {
		mismatch.Side = side
		return mismatch
	}
	return fmt.Errorf("failed to verify %s record: %w", side, err)
}
