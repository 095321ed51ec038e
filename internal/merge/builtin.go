package merge

import (
	"fmt"
	"strings"

	"github.com/iudanet/gophsync/internal/models"
)

// requireBoth проверяет, что поле есть у обеих сторон.
// Удаление с одной стороны при изменении с другой разрешают только Prefer-стратегии.
func requireBoth(in Input) error {
	if in.HasLocal && in.HasServer {
		return nil
	}
	side := "local"
	if in.HasLocal {
		side = "server"
	}
	return Unresolvable(in.Field, fmt.Sprintf("deleted on %s side and modified on the other", side), nil)
}

// TextExtension сливает строки, если одна содержит другую: выбирается более длинная.
type TextExtension struct{}

// Name имя стратегии
func (TextExtension) Name() string { return NameTextExtension }

// Merge сливает два текста
func (TextExtension) Merge(in Input) (Outcome, error) {
	if err := requireBoth(in); err != nil {
		return Outcome{}, err
	}
	l, lok := in.Local.(string)
	s, sok := in.Server.(string)
	if !lok || !sok {
		return Outcome{}, Unresolvable(in.Field, "text_extension expects string values", nil)
	}

	switch {
	case l == s:
		return Outcome{Value: l}, nil
	case strings.Contains(s, l):
		return Outcome{Value: s, Reason: "server text extends local"}, nil
	case strings.Contains(l, s):
		return Outcome{Value: l, Reason: "local text extends server"}, nil
	default:
		return Outcome{}, Unresolvable(in.Field, "no common extension between local and server text", nil)
	}
}

// ListUnion сливает списки как множества, сохраняя порядок локальной стороны.
// Без base - объединение. С base - объединение минус элементы, удаленные любой из сторон.
type ListUnion struct{}

// Name имя стратегии
func (ListUnion) Name() string { return NameListUnion }

// Merge сливает два списка
func (ListUnion) Merge(in Input) (Outcome, error) {
	if err := requireBoth(in); err != nil {
		return Outcome{}, err
	}
	l, lok := in.Local.([]any)
	s, sok := in.Server.([]any)
	if !lok || !sok {
		return Outcome{}, Unresolvable(in.Field, "list_union expects list values", nil)
	}

	removed := make(map[string]struct{})
	if base, ok := in.Base.([]any); ok && in.ThreeWay && in.HasBase {
		localSet := keySet(l)
		serverSet := keySet(s)
		for _, v := range base {
			key := models.ValueKey(v)
			_, inLocal := localSet[key]
			_, inServer := serverSet[key]
			if !inLocal || !inServer {
				removed[key] = struct{}{}
			}
		}
	}

	out := make([]any, 0, len(l)+len(s))
	seen := make(map[string]struct{}, len(l)+len(s))
	for _, list := range [][]any{l, s} {
		for _, v := range list {
			key := models.ValueKey(v)
			if _, ok := removed[key]; ok {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, models.CloneValue(v))
		}
	}
	return Outcome{Value: out}, nil
}

func keySet(list []any) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, v := range list {
		set[models.ValueKey(v)] = struct{}{}
	}
	return set
}

// MapOverlay накладывает map сервера на локальную по ключам.
// При реальном расхождении значения ключа выигрывает сервер, ключ записывается в Keys.
// С base ключи классифицируются так же, как поля записи.
type MapOverlay struct{}

// Name имя стратегии
func (MapOverlay) Name() string { return NameMapOverlay }

// Merge сливает две map
func (MapOverlay) Merge(in Input) (Outcome, error) {
	if err := requireBoth(in); err != nil {
		return Outcome{}, err
	}
	l, lok := in.Local.(map[string]any)
	s, sok := in.Server.(map[string]any)
	if !lok || !sok {
		return Outcome{}, Unresolvable(in.Field, "map_overlay expects map values", nil)
	}
	base, hasBase := in.Base.(map[string]any)
	hasBase = hasBase && in.ThreeWay && in.HasBase

	keys := make(map[string]struct{}, len(l)+len(s))
	for k := range l {
		keys[k] = struct{}{}
	}
	for k := range s {
		keys[k] = struct{}{}
	}

	out := make(map[string]any, len(keys))
	overlapping := make([]string, 0)
	for _, k := range models.SortedKeys(keys) {
		key := Input{Field: k, ThreeWay: hasBase}
		key.Local, key.HasLocal = l[k]
		key.Server, key.HasServer = s[k]
		if hasBase {
			key.Base, key.HasBase = base[k]
		}

		var (
			v       any
			present bool
		)
		switch Compare(key) {
		case NoChange, Converged, LocalChanged:
			v, present = key.Local, key.HasLocal
		case ServerChanged:
			v, present = key.Server, key.HasServer
		case Conflict:
			if key.HasLocal && key.HasServer {
				overlapping = append(overlapping, k)
				v, present = key.Server, true
			} else if hasBase {
				// удаление против изменения: сохраняем измененное значение
				overlapping = append(overlapping, k)
				if key.HasLocal {
					v, present = key.Local, true
				} else {
					v, present = key.Server, true
				}
			} else {
				// без base ключ с одной стороны - просто добавление
				if key.HasLocal {
					v, present = key.Local, true
				} else {
					v, present = key.Server, true
				}
			}
		}
		if present {
			out[k] = models.CloneValue(v)
		}
	}

	outcome := Outcome{Value: out}
	if len(overlapping) > 0 {
		outcome.Conflict = true
		outcome.Keys = overlapping
		outcome.Reason = "server value wins on overlapping keys"
	}
	return outcome, nil
}

// NumericPick выбирает максимальное (Max) или минимальное число.
// Это эвристика, поэтому результат всегда отмечается как конфликт.
type NumericPick struct {
	Max bool
}

// Name имя стратегии
func (n NumericPick) Name() string {
	if n.Max {
		return NameNumericMax
	}
	return NameNumericMin
}

// Merge выбирает число
func (n NumericPick) Merge(in Input) (Outcome, error) {
	if err := requireBoth(in); err != nil {
		return Outcome{}, err
	}
	if !models.KindOf(in.Local).IsNumeric() || !models.KindOf(in.Server).IsNumeric() {
		return Outcome{}, Unresolvable(in.Field, n.Name()+" expects numeric values", nil)
	}

	serverGreater := numericLess(in.Local, in.Server)
	localGreater := numericLess(in.Server, in.Local)

	out := Outcome{Value: in.Local, Conflict: true}
	switch {
	case n.Max && serverGreater, !n.Max && localGreater:
		out.Value = in.Server
	}
	if n.Max {
		out.Reason = "max wins"
	} else {
		out.Reason = "min wins"
	}
	return out, nil
}

func numericLess(a, b any) bool {
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	if aInt && bInt {
		return ai < bi
	}
	return toFloat(a) < toFloat(b)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

// Prefer всегда выбирает указанную сторону, включая удаление поля.
type Prefer struct {
	Local bool
}

// Name имя стратегии
func (p Prefer) Name() string {
	if p.Local {
		return NamePreferLocal
	}
	return NamePreferServer
}

// Merge выбирает сторону
func (p Prefer) Merge(in Input) (Outcome, error) {
	if p.Local {
		return Outcome{Value: models.CloneValue(in.Local), Deleted: !in.HasLocal, Conflict: true, Reason: "local preferred"}, nil
	}
	return Outcome{Value: models.CloneValue(in.Server), Deleted: !in.HasServer, Conflict: true, Reason: "server preferred"}, nil
}
