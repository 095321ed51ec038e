package validation

import (
	"fmt"
	"regexp"
)

// EntityIDPattern определяет допустимый формат идентификатора сущности
// Латинские буквы, цифры, а также '_', '-', '.', ':' (UUID, составные ключи вида note:42)
// Длина: 1-128 символов
var EntityIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.:]{1,128}$`)

// FieldNamePattern определяет допустимый формат имени поля записи
// Начинается с буквы или '_', далее буквы, цифры, '_', '-', '.'
var FieldNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_\-.]{0,63}$`)

const (
	// MaxEntityIDLen максимальная длина идентификатора сущности
	MaxEntityIDLen = 128
	// MaxFieldNameLen максимальная длина имени поля
	MaxFieldNameLen = 64
)

// ValidateEntityID проверяет идентификатор сущности
func ValidateEntityID(id string) error {
	if id == "" {
		return fmt.Errorf("entity id cannot be empty")
	}

	if len(id) > MaxEntityIDLen {
		return fmt.Errorf("entity id must not exceed %d characters", MaxEntityIDLen)
	}

	if !EntityIDPattern.MatchString(id) {
		return fmt.Errorf("entity id %q contains invalid characters", id)
	}

	return nil
}

// ValidateFieldName проверяет имя поля записи
func ValidateFieldName(name string) error {
	if name == "" {
		return fmt.Errorf("field name cannot be empty")
	}

	if len(name) > MaxFieldNameLen {
		return fmt.Errorf("field name must not exceed %d characters", MaxFieldNameLen)
	}

	if !FieldNamePattern.MatchString(name) {
		return fmt.Errorf("field name %q must start with a letter or underscore and contain only letters, numbers, '_', '-', '.'", name)
	}

	return nil
}
