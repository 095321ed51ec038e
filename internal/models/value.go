package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Kind тип значения поля записи.
type Kind string

// Поддерживаемые типы значений полей
const (
	KindNull   Kind = "null"
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindList   Kind = "list"
	KindMap    Kind = "map"
)

// IsNumeric возвращает true для целых и вещественных чисел.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// KindOf определяет тип нормализованного значения.
// Для значений, не прошедших NormalizeValue, возвращает пустую строку.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case bool:
		return KindBool
	case []any:
		return KindList
	case map[string]any:
		return KindMap
	default:
		return ""
	}
}

// NormalizeValue приводит Go-значение к одному из поддерживаемых типов:
// string, int64, float64, bool, nil, []any, map[string]any.
func NormalizeValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, int64:
		return val, nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("non-finite float %v is not allowed", val)
		}
		return val, nil
	case float32:
		return NormalizeValue(float64(val))
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return int64(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return int64(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val, err)
		}
		return NormalizeValue(f)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			n, err := NormalizeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case []string:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = elem
		}
		return out, nil
	case []int:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = int64(elem)
		}
		return out, nil
	case []int64:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = elem
		}
		return out, nil
	case []float64:
		out := make([]any, len(val))
		for i, elem := range val {
			n, err := NormalizeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			n, err := NormalizeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = elem
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported field value type %T", v)
	}
}

// NormalizeFields нормализует все значения полей записи.
func NormalizeFields(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for name, v := range fields {
		n, err := NormalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = n
	}
	return out, nil
}

// CloneValue создает глубокую копию нормализованного значения.
func CloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = CloneValue(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = CloneValue(elem)
		}
		return out
	default:
		return val
	}
}

// EqualValues сравнивает значения по их канонической сериализации.
// Целое 3 и вещественное 3.0 считаются равными.
func EqualValues(a, b any) bool {
	ab, err := MarshalCanonical(a)
	if err != nil {
		return false
	}
	bb, err := MarshalCanonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// ValueKey возвращает каноническое представление значения,
// пригодное как ключ map (для операций над множествами).
func ValueKey(v any) string {
	b, err := MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%T:%v", v, v)
	}
	return string(b)
}

// SortedKeys возвращает отсортированные ключи map.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SameField сравнивает два состояния поля с учетом его наличия:
// отсутствующее поле не равно полю со значением null.
func SameField(a any, aok bool, b any, bok bool) bool {
	if aok != bok {
		return false
	}
	if !aok {
		return true
	}
	return EqualValues(a, b)
}
