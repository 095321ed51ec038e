package merge

import (
	"fmt"

	"github.com/iudanet/gophsync/internal/models"
)

// Registry выбирает стратегию для поля: сначала по имени поля, затем по типу значения.
// Настраивается при создании и далее только читается, поэтому безопасен для конкурентного использования.
type Registry struct {
	byKind  map[models.Kind]Strategy
	byField map[string]Strategy
	cfg     Config
}

// NewRegistry создает реестр со стратегиями по умолчанию:
// string -> text_extension, int/float -> numeric_max, list -> list_union, map -> map_overlay.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg: cfg.withDefaults(),
		byKind: map[models.Kind]Strategy{
			models.KindString: TextExtension{},
			models.KindInt:    NumericPick{Max: true},
			models.KindFloat:  NumericPick{Max: true},
			models.KindList:   ListUnion{},
			models.KindMap:    MapOverlay{},
		},
		byField: make(map[string]Strategy),
	}
}

// Config возвращает параметры реестра
func (r *Registry) Config() Config {
	return r.cfg
}

// Clone возвращает независимую копию реестра
func (r *Registry) Clone() *Registry {
	c := &Registry{
		cfg:     r.cfg,
		byKind:  make(map[models.Kind]Strategy, len(r.byKind)),
		byField: make(map[string]Strategy, len(r.byField)),
	}
	for k, s := range r.byKind {
		c.byKind[k] = s
	}
	for f, s := range r.byField {
		c.byField[f] = s
	}
	return c
}

// SetKind задает стратегию по умолчанию для типа значения
func (r *Registry) SetKind(kind models.Kind, s Strategy) {
	r.byKind[kind] = s
	if kind.IsNumeric() {
		// int и float сливаются одной стратегией
		r.byKind[models.KindInt] = s
		r.byKind[models.KindFloat] = s
	}
}

// SetField задает стратегию для конкретного поля
func (r *Registry) SetField(field string, s Strategy) {
	r.byField[field] = s
}

// UseField задает для поля встроенную стратегию по имени
func (r *Registry) UseField(field, name string) error {
	s, err := Builtin(name, r.cfg)
	if err != nil {
		return fmt.Errorf("field %q: %w", field, err)
	}
	r.SetField(field, s)
	return nil
}

// FieldStrategies возвращает имена стратегий, заданных для полей
func (r *Registry) FieldStrategies() map[string]string {
	out := make(map[string]string, len(r.byField))
	for f, s := range r.byField {
		out[f] = s.Name()
	}
	return out
}

// For выбирает стратегию для поля
func (r *Registry) For(in Input) (Strategy, error) {
	if s, ok := r.byField[in.Field]; ok {
		return s, nil
	}

	kind, err := commonKind(in)
	if err != nil {
		return nil, err
	}
	s, ok := r.byKind[kind]
	if !ok {
		return nil, Unresolvable(in.Field, fmt.Sprintf("no merge strategy for %s values", kind), nil)
	}
	return s, nil
}

// Merge выбирает стратегию и сливает поле. Возвращает имя примененной стратегии.
func (r *Registry) Merge(in Input) (Outcome, string, error) {
	s, err := r.For(in)
	if err != nil {
		return Outcome{}, "", err
	}
	out, err := s.Merge(in)
	if err != nil {
		return Outcome{}, s.Name(), err
	}
	return out, s.Name(), nil
}

// commonKind определяет общий тип значений сторон.
// Если одна сторона удалила поле, берется тип другой.
func commonKind(in Input) (models.Kind, error) {
	lk := models.KindOf(in.Local)
	sk := models.KindOf(in.Server)
	switch {
	case !in.HasLocal:
		return sk, nil
	case !in.HasServer:
		return lk, nil
	case lk == sk:
		return lk, nil
	case lk.IsNumeric() && sk.IsNumeric():
		return models.KindFloat, nil
	default:
		return "", Unresolvable(in.Field, fmt.Sprintf("type mismatch: local %s, server %s", lk, sk), nil)
	}
}
