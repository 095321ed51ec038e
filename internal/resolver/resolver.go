// Package resolver implements the closed set of conflict resolvers.
//
// Every resolver takes a ConflictRecord and returns a ResolutionResult. Automatic
// resolvers are pure and deterministic: they never perform I/O, never read the
// clock and return byte-identical results for identical input. A result of an
// automatic resolver always carries Version = max(local, server) + 1.
//
// The set of resolvers is closed: Resolver has an unexported method and New is
// the only constructor, switching over every Kind.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iudanet/gophsync/internal/merge"
	"github.com/iudanet/gophsync/internal/models"
)

var (
	// ErrUnknownKind indicates an unknown resolver kind
	ErrUnknownKind = errors.New("unknown resolver kind")

	// ErrInvalidChoice indicates a malformed user choice (e.g. manual merge without a record)
	ErrInvalidChoice = errors.New("invalid user choice")
)

// Kind вариант резолвера
type Kind int

// Kind константы
const (
	KindLastWriterWins Kind = iota + 1
	KindClientAuthoritative
	KindServerAuthoritative
	KindFieldLevelMerge
	KindThreeWayMerge
	KindSemanticTextMerge
	KindUserMediated
)

// AllKinds перечисляет все варианты резолверов
var AllKinds = []Kind{
	KindLastWriterWins,
	KindClientAuthoritative,
	KindServerAuthoritative,
	KindFieldLevelMerge,
	KindThreeWayMerge,
	KindSemanticTextMerge,
	KindUserMediated,
}

func (k Kind) String() string {
	switch k {
	case KindLastWriterWins:
		return "last_writer_wins"
	case KindClientAuthoritative:
		return "client_authoritative"
	case KindServerAuthoritative:
		return "server_authoritative"
	case KindFieldLevelMerge:
		return "field_level_merge"
	case KindThreeWayMerge:
		return "three_way_merge"
	case KindSemanticTextMerge:
		return "semantic_text_merge"
	case KindUserMediated:
		return "user_mediated"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind разбирает имя резолвера (snake_case или CamelCase)
func ParseKind(s string) (Kind, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	for _, k := range AllKinds {
		if strings.ReplaceAll(k.String(), "_", "") == normalized {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Resolver общий контракт всех резолверов
type Resolver interface {
	// Kind возвращает вариант резолвера
	Kind() Kind
	// Name возвращает имя, записываемое в ResolutionResult.StrategyName
	Name() string
	// Resolve разрешает конфликт. Для автоматических резолверов ошибка,
	// оборачивающая models.ErrUnresolvableField, означает "не могу разрешить".
	Resolve(ctx context.Context, c *models.ConflictRecord) (*models.ResolutionResult, error)

	sealed()
}

// Options зависимости резолверов
type Options struct {
	// Registry стратегии слияния полей; nil - стратегии по умолчанию
	Registry *merge.Registry
	// Presenter внешний UI для UserMediated; nil - решение сразу откладывается
	Presenter Presenter
	Logger    *slog.Logger
}

// New создает резолвер указанного варианта
func New(kind Kind, opts Options) (Resolver, error) {
	registry := opts.Registry
	if registry == nil {
		registry = merge.NewRegistry(merge.DefaultConfig())
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch kind {
	case KindLastWriterWins:
		return lastWriterWins{}, nil
	case KindClientAuthoritative:
		return authoritative{local: true}, nil
	case KindServerAuthoritative:
		return authoritative{}, nil
	case KindFieldLevelMerge:
		return &fieldMerge{kind: KindFieldLevelMerge, registry: registry}, nil
	case KindThreeWayMerge:
		return &fieldMerge{kind: KindThreeWayMerge, registry: registry}, nil
	case KindSemanticTextMerge:
		semantic := registry.Clone()
		semantic.SetKind(models.KindString, merge.LineMerge{
			MaxBytes: registry.Config().MaxTextBytes,
			MaxLines: registry.Config().MaxTextLines,
		})
		return &fieldMerge{kind: KindSemanticTextMerge, registry: semantic, fallback: registry}, nil
	case KindUserMediated:
		return &userMediated{presenter: opts.Presenter, logger: logger}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
}

// MustNew аналогичен New, но паникует при ошибке. Для статически известных вариантов.
func MustNew(kind Kind, opts Options) Resolver {
	r, err := New(kind, opts)
	if err != nil {
		panic(err)
	}
	return r
}

// dominating возвращает копию записи с версией, доминирующей над обеими сторонами конфликта
func dominating(c *models.ConflictRecord, src *models.Record) (*models.Record, error) {
	rec := src.Clone()
	rec.ID = c.EntityID()
	rec.EntityType = c.EntityType()
	rec.Version = c.MaxVersion() + 1
	rec.LastModified = c.MaxLastModified()
	if err := rec.Seal(); err != nil {
		return nil, fmt.Errorf("failed to seal resolved record: %w", err)
	}
	return rec, nil
}

// side возвращает результат выбора одной из сторон
func side(c *models.ConflictRecord, local bool, name string, resolution models.Resolution, reason string) (*models.ResolutionResult, error) {
	src, winner := c.Server, "server"
	if local {
		src, winner = c.Local, "local"
	}
	rec, err := dominating(c, src)
	if err != nil {
		return nil, err
	}
	return &models.ResolutionResult{
		Record:       rec,
		Resolution:   resolution,
		StrategyName: name,
		Metadata: models.ResolutionMetadata{
			Winner: winner,
			Reason: reason,
		},
	}, nil
}

func sideResolution(local bool) models.Resolution {
	if local {
		return models.ResolutionLocalWins
	}
	return models.ResolutionServerWins
}
