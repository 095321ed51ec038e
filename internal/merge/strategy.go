// Package merge содержит стратегии слияния отдельных полей записи.
//
// Стратегия вызывается только для поля, которое обе стороны изменили по-разному
// (или, без base, для поля с разными значениями). Отсутствие поля передается через
// флаги HasLocal/HasServer/HasBase: удаление поля - тоже изменение.
package merge

import (
	"errors"
	"fmt"

	"github.com/iudanet/gophsync/internal/models"
)

// Имена встроенных стратегий
const (
	NameTextExtension = "text_extension"
	NameListUnion     = "list_union"
	NameMapOverlay    = "map_overlay"
	NameNumericMax    = "numeric_max"
	NameNumericMin    = "numeric_min"
	NamePreferLocal   = "prefer_local"
	NamePreferServer  = "prefer_server"
	NameLineMerge     = "line_merge"
)

// DefaultMaxTextBytes предел размера текста для построчного слияния
const DefaultMaxTextBytes = 256 << 10

// DefaultMaxTextLines предел числа строк любого из трех текстов для построчного слияния.
// Стоимость diff растет квадратично от числа строк.
const DefaultMaxTextLines = 1000

var (
	// ErrOverlappingHunks indicates that both sides edited the same region of a text
	ErrOverlappingHunks = errors.New("overlapping hunks")

	// ErrTextTooLarge indicates that a text exceeds the configured diff size ceiling
	ErrTextTooLarge = errors.New("text too large to diff")

	// ErrUnknownStrategy indicates an unknown strategy name
	ErrUnknownStrategy = errors.New("unknown merge strategy")
)

// Input значения одного поля в трех репликах
type Input struct {
	Local     any
	Server    any
	Base      any
	Field     string
	HasLocal  bool
	HasServer bool
	HasBase   bool
	// ThreeWay доступна базовая запись (поле в ней при этом может отсутствовать)
	ThreeWay bool
}

// Outcome результат слияния поля
type Outcome struct {
	Value  any
	Reason string
	// Keys ключи map, по которым стороны расходились
	Keys []string
	// Deleted поле должно отсутствовать в итоговой записи
	Deleted bool
	// Conflict значение выбрано эвристикой; попадает в metadata.conflicts
	Conflict bool
}

// Strategy стратегия слияния значения поля
type Strategy interface {
	Name() string
	Merge(in Input) (Outcome, error)
}

// Unresolvable формирует ошибку неразрешимого конфликта поля
func Unresolvable(field, reason string, cause error) error {
	return &models.UnresolvableFieldError{Field: field, Reason: reason, Err: cause}
}

// Config параметры встроенных стратегий
type Config struct {
	// MaxTextBytes предел размера любого из трех текстов для line_merge
	MaxTextBytes int
	// MaxTextLines предел числа строк любого из трех текстов для line_merge
	MaxTextLines int
}

// DefaultConfig возвращает параметры по умолчанию
func DefaultConfig() Config {
	return Config{MaxTextBytes: DefaultMaxTextBytes, MaxTextLines: DefaultMaxTextLines}
}

func (c Config) withDefaults() Config {
	if c.MaxTextBytes <= 0 {
		c.MaxTextBytes = DefaultMaxTextBytes
	}
	if c.MaxTextLines <= 0 {
		c.MaxTextLines = DefaultMaxTextLines
	}
	return c
}

// Builtin возвращает встроенную стратегию по имени
func Builtin(name string, cfg Config) (Strategy, error) {
	cfg = cfg.withDefaults()
	switch name {
	case NameTextExtension:
		return TextExtension{}, nil
	case NameListUnion:
		return ListUnion{}, nil
	case NameMapOverlay:
		return MapOverlay{}, nil
	case NameNumericMax:
		return NumericPick{Max: true}, nil
	case NameNumericMin:
		return NumericPick{}, nil
	case NamePreferLocal:
		return Prefer{Local: true}, nil
	case NamePreferServer:
		return Prefer{}, nil
	case NameLineMerge:
		return LineMerge{MaxBytes: cfg.MaxTextBytes, MaxLines: cfg.MaxTextLines}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// BuiltinNames перечисляет имена встроенных стратегий
func BuiltinNames() []string {
	return []string{
		NameTextExtension, NameListUnion, NameMapOverlay, NameNumericMax,
		NameNumericMin, NamePreferLocal, NamePreferServer, NameLineMerge,
	}
}
