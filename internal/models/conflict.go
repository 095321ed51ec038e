package models

import (
	"fmt"
	"strings"
)

// ConflictType классификация расхождения реплик
type ConflictType string

// ConflictType константы
const (
	ConflictServerNewer      ConflictType = "server_newer"
	ConflictClientNewer      ConflictType = "client_newer"
	ConflictSimultaneous     ConflictType = "simultaneous"
	ConflictContentDivergent ConflictType = "content_divergent"
	ConflictVersionMismatch  ConflictType = "version_mismatch"
)

// AllConflictTypes перечисляет все типы конфликтов в стабильном порядке
var AllConflictTypes = []ConflictType{
	ConflictServerNewer,
	ConflictClientNewer,
	ConflictSimultaneous,
	ConflictContentDivergent,
	ConflictVersionMismatch,
}

// ParseConflictType разбирает тип конфликта, принимая как snake_case, так и CamelCase
func ParseConflictType(s string) (ConflictType, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for _, t := range AllConflictTypes {
		if strings.ReplaceAll(string(t), "_", "") == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown conflict type %q", s)
}

// ConflictRecord описывает обнаруженный конфликт между локальной и серверной репликой.
// Создается детектором, не изменяется и потребляется PolicyEngine ровно один раз.
type ConflictRecord struct {
	Local            *Record      `json:"local"`              // Local локальная реплика
	Server           *Record      `json:"server"`             // Server серверная реплика
	Base             *Record      `json:"base,omitempty"`     // Base последний общий предок (может отсутствовать)
	ID               string       `json:"id"`                 // ID детерминированный идентификатор конфликта
	Type             ConflictType `json:"type"`               // Type классификация конфликта
	FieldsInConflict []string     `json:"fields_in_conflict"` // FieldsInConflict отсортированные имена конфликтующих полей
}

// HasBase сообщает, доступна ли базовая запись для трехстороннего слияния
func (c *ConflictRecord) HasBase() bool {
	return c.Base != nil
}

// EntityID возвращает идентификатор сущности, к которой относится конфликт
func (c *ConflictRecord) EntityID() string {
	if c.Local != nil {
		return c.Local.ID
	}
	if c.Server != nil {
		return c.Server.ID
	}
	return ""
}

// EntityType возвращает тип сущности (приоритет у локальной реплики)
func (c *ConflictRecord) EntityType() string {
	if c.Local != nil && c.Local.EntityType != "" {
		return c.Local.EntityType
	}
	if c.Server != nil {
		return c.Server.EntityType
	}
	return ""
}

// MaxVersion возвращает max(local.Version, server.Version)
func (c *ConflictRecord) MaxVersion() int64 {
	return max(c.Local.Version, c.Server.Version)
}

// MaxLastModified возвращает max(local.LastModified, server.LastModified)
func (c *ConflictRecord) MaxLastModified() int64 {
	return max(c.Local.LastModified, c.Server.LastModified)
}

// InConflict сообщает, входит ли поле в FieldsInConflict
func (c *ConflictRecord) InConflict(field string) bool {
	for _, f := range c.FieldsInConflict {
		if f == field {
			return true
		}
	}
	return false
}
