package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iudanet/gophsync/internal/crypto"
	"github.com/iudanet/gophsync/internal/validation"
)

// Record представляет снимок записи одной из реплик (локальной, серверной или базовой).
// Экземпляры считаются неизменяемыми: все операции движка работают с копиями.
type Record struct {
	Fields       map[string]any `json:"fields"`        // Fields значения полей: string, int64, float64, bool, nil, []any, map[string]any
	ID           string         `json:"id"`            // ID стабильный идентификатор, уникальный в рамках типа сущности
	EntityType   string         `json:"entity_type"`   // EntityType тип сущности (например, "note", "task")
	Checksum     string         `json:"checksum"`      // Checksum SHA256 от канонической сериализации Fields
	Version      int64          `json:"version"`       // Version монотонно растущая версия; 0 означает "версия неизвестна"
	LastModified int64          `json:"last_modified"` // LastModified время изменения (unix ms или логическое); 0 означает "неизвестно"
}

// NewRecord создает запись с нормализованными полями и вычисленным checksum.
func NewRecord(id, entityType string, fields map[string]any) (*Record, error) {
	normalized, err := NormalizeFields(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	r := &Record{
		ID:         id,
		EntityType: entityType,
		Fields:     normalized,
	}
	if err := r.Seal(); err != nil {
		return nil, err
	}
	return r, nil
}

// HasVersion сообщает, известна ли версия записи.
func (r *Record) HasVersion() bool {
	return r.Version > 0
}

// HasTimestamp сообщает, известно ли время изменения записи.
func (r *Record) HasTimestamp() bool {
	return r.LastModified > 0
}

// Get возвращает значение поля и признак его наличия.
func (r *Record) Get(field string) (any, bool) {
	v, ok := r.Fields[field]
	return v, ok
}

// FieldNames возвращает отсортированный список имен полей.
func (r *Record) FieldNames() []string {
	return SortedKeys(r.Fields)
}

// CanonicalFields возвращает каноническую сериализацию полей записи.
func (r *Record) CanonicalFields() ([]byte, error) {
	fields := r.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return MarshalCanonical(fields)
}

// ContentSize возвращает размер канонической сериализации полей в байтах.
func (r *Record) ContentSize() int {
	b, err := r.CanonicalFields()
	if err != nil {
		return 0
	}
	return len(b)
}

// ComputeChecksum вычисляет checksum по текущим полям без изменения записи.
func (r *Record) ComputeChecksum() (string, error) {
	content, err := r.CanonicalFields()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return crypto.HashContent(content)
}

// Seal пересчитывает и сохраняет checksum записи.
func (r *Record) Seal() error {
	sum, err := r.ComputeChecksum()
	if err != nil {
		return err
	}
	r.Checksum = sum
	return nil
}

// VerifyChecksum проверяет, что сохраненный checksum совпадает с вычисленным по полям.
// Несовпадение - это повреждение данных (*ChecksumMismatchError), а не конфликт.
func (r *Record) VerifyChecksum() error {
	content, err := r.CanonicalFields()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	verr := crypto.VerifyContent(content, r.Checksum)
	if verr == nil {
		return nil
	}
	computed, err := crypto.HashContent(content)
	if err != nil {
		return err
	}
	return &ChecksumMismatchError{
		RecordID: r.ID,
		Stored:   r.Checksum,
		Computed: computed,
		Cause:    verr,
	}
}

// Validate проверяет идентификатор и имена полей записи.
func (r *Record) Validate() error {
	if err := validation.ValidateEntityID(r.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	for name := range r.Fields {
		if err := validation.ValidateFieldName(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
	}
	if r.Version < 0 || r.LastModified < 0 {
		return fmt.Errorf("%w: negative version or timestamp", ErrInvalidRecord)
	}
	return nil
}

// IsNewerThan сравнивает две записи по правилу Last-Write-Wins:
// 1. Если у обеих есть версия - больше версия выигрывает
// 2. Иначе сравнивается LastModified
// При равенстве возвращает false: выбор стороны при ничьей делает вызывающий код.
func (r *Record) IsNewerThan(other *Record) bool {
	if r.HasVersion() && other.HasVersion() && r.Version != other.Version {
		return r.Version > other.Version
	}
	return r.LastModified > other.LastModified
}

// SameContent сообщает, совпадает ли содержимое записей (по checksum).
func (r *Record) SameContent(other *Record) bool {
	return r.Checksum == other.Checksum
}

// Clone создает глубокую копию записи
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = CloneValue(v)
	}
	return &Record{
		Fields:       fields,
		ID:           r.ID,
		EntityType:   r.EntityType,
		Checksum:     r.Checksum,
		Version:      r.Version,
		LastModified: r.LastModified,
	}
}

// UnmarshalJSON декодирует запись, сохраняя целые числа как int64.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var raw plain

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	fields, err := NormalizeFields(raw.Fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	raw.Fields = fields

	*r = Record(raw)
	return nil
}
