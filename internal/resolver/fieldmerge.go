package resolver

import (
	"context"
	"fmt"

	"github.com/iudanet/gophsync/internal/merge"
	"github.com/iudanet/gophsync/internal/models"
)

// fieldMerge сливает записи по полям.
// FieldLevelMerge работает без base; ThreeWayMerge и SemanticTextMerge используют base,
// а без нее возвращают в точности результат FieldLevelMerge.
type fieldMerge struct {
	registry *merge.Registry
	// fallback реестр для слияния без base (у SemanticTextMerge отличается от registry)
	fallback *merge.Registry
	kind     Kind
}

func (*fieldMerge) sealed()        {}
func (m *fieldMerge) Kind() Kind   { return m.kind }
func (m *fieldMerge) Name() string { return m.kind.String() }

func (m *fieldMerge) Resolve(_ context.Context, c *models.ConflictRecord) (*models.ResolutionResult, error) {
	if m.kind == KindFieldLevelMerge || !c.HasBase() {
		registry := m.registry
		if m.fallback != nil {
			registry = m.fallback
		}
		// без base трехстороннее слияние сводится к пополевому
		noBase := *c
		noBase.Base = nil
		return mergeFields(&noBase, registry, KindFieldLevelMerge.String())
	}
	return mergeFields(c, m.registry, m.Name())
}

// mergeFields сливает все поля записи. Если хотя бы одно поле не удалось слить,
// запись целиком не формируется и возвращается ошибка UnresolvableField.
func mergeFields(c *models.ConflictRecord, registry *merge.Registry, name string) (*models.ResolutionResult, error) {
	names := make(map[string]struct{}, len(c.Local.Fields)+len(c.Server.Fields))
	for f := range c.Local.Fields {
		names[f] = struct{}{}
	}
	for f := range c.Server.Fields {
		names[f] = struct{}{}
	}
	if c.Base != nil {
		for f := range c.Base.Fields {
			names[f] = struct{}{}
		}
	}

	fields := make(map[string]any, len(names))
	var (
		conflicts   []models.FieldConflict
		overlapping map[string][]string
	)

	for _, field := range models.SortedKeys(names) {
		in := merge.Field(field, c.Local, c.Server, c.Base)

		switch merge.Compare(in) {
		case merge.NoChange, merge.Converged, merge.LocalChanged:
			if in.HasLocal {
				fields[field] = models.CloneValue(in.Local)
			}
			continue
		case merge.ServerChanged:
			if in.HasServer {
				fields[field] = models.CloneValue(in.Server)
			}
			continue
		}

		// Без base нельзя отличить добавление от удаления: поле одной стороны сохраняется
		if !in.ThreeWay && in.HasLocal != in.HasServer {
			if in.HasLocal {
				fields[field] = models.CloneValue(in.Local)
			} else {
				fields[field] = models.CloneValue(in.Server)
			}
			continue
		}

		out, strategy, err := registry.Merge(in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if !out.Deleted {
			fields[field] = out.Value
		}
		if out.Conflict {
			conflicts = append(conflicts, models.FieldConflict{
				Field:    field,
				Strategy: strategy,
				Reason:   out.Reason,
				Keys:     out.Keys,
			})
			if len(out.Keys) > 0 {
				if overlapping == nil {
					overlapping = make(map[string][]string)
				}
				overlapping[field] = out.Keys
			}
		}
	}

	rec, err := dominating(c, &models.Record{Fields: fields})
	if err != nil {
		return nil, err
	}

	return &models.ResolutionResult{
		Record:       rec,
		Resolution:   models.ResolutionMerged,
		StrategyName: name,
		Metadata: models.ResolutionMetadata{
			Conflicts:       conflicts,
			OverlappingKeys: overlapping,
		},
	}, nil
}
