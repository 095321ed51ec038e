// Package policy выбирает и применяет резолверы к конфликту.
//
// Engine хранит упорядоченный список правил (резолвер, предикат, приоритет).
// Для конфликта отбираются подходящие правила, сортируются по убыванию приоритета
// (при равенстве - в порядке регистрации) и вызываются по очереди до первого
// успешного автоматического результата. Если ни одно не сработало, конфликт
// передается терминальному резолверу UserMediated, который нельзя удалить.
package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/iudanet/gophsync/internal/models"
	"github.com/iudanet/gophsync/internal/resolver"
)

var (
	// ErrTerminalResolver indicates an attempt to register UserMediated as a regular rule
	ErrTerminalResolver = errors.New("user_mediated is the terminal fallback and cannot be registered")

	// ErrInvalidRule indicates a malformed rule
	ErrInvalidRule = errors.New("invalid policy rule")
)

// Tier уровень приоритета правил по умолчанию
type Tier int

// Уровни приоритета: бизнес-правила > предпочтения пользователя > версии > размер содержимого
const (
	TierContentSize    Tier = 100
	TierVersion        Tier = 200
	TierUserPreference Tier = 300
	TierBusinessRule   Tier = 400
)

// ParseTier разбирает имя уровня приоритета
func ParseTier(s string) (Tier, error) {
	switch s {
	case "business_rule":
		return TierBusinessRule, nil
	case "user_preference":
		return TierUserPreference, nil
	case "version":
		return TierVersion, nil
	case "content_size":
		return TierContentSize, nil
	default:
		return 0, fmt.Errorf("%w: unknown tier %q", ErrInvalidRule, s)
	}
}

// Predicate решает, применимо ли правило к конфликту
type Predicate func(c *models.ConflictRecord) bool

// Always предикат, подходящий любому конфликту
func Always(*models.ConflictRecord) bool { return true }

// Entry зарегистрированное правило
type Entry struct {
	Resolver  resolver.Resolver
	CanHandle Predicate
	Name      string
	Priority  int
	seq       int
}

// Engine движок политик. Настраивается при создании; Resolve безопасен для конкурентных вызовов.
type Engine struct {
	terminal resolver.Resolver
	logger   *slog.Logger
	entries  []Entry
}

// NewEngine создает движок с терминальным UserMediated, использующим presenter
// (nil - решение откладывается без обращения к пользователю).
func NewEngine(presenter resolver.Presenter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		terminal: resolver.MustNew(resolver.KindUserMediated, resolver.Options{Presenter: presenter, Logger: logger}),
		logger:   logger,
	}
}

// Register добавляет правило. nil-предикат означает Always.
func (e *Engine) Register(name string, r resolver.Resolver, canHandle Predicate, priority int) error {
	if r == nil {
		return fmt.Errorf("%w: rule %q has no resolver", ErrInvalidRule, name)
	}
	if r.Kind() == resolver.KindUserMediated {
		return ErrTerminalResolver
	}
	if name == "" {
		name = r.Name()
	}
	if canHandle == nil {
		canHandle = Always
	}
	e.entries = append(e.entries, Entry{
		Name:      name,
		Resolver:  r,
		CanHandle: canHandle,
		Priority:  priority,
		seq:       len(e.entries),
	})
	return nil
}

// Entries возвращает правила в порядке применения
func (e *Engine) Entries() []Entry {
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	sortEntries(out)
	return out
}

// Candidates возвращает правила, применимые к конфликту, в порядке вызова
func (e *Engine) Candidates(c *models.ConflictRecord) []Entry {
	out := make([]Entry, 0, len(e.entries))
	for _, entry := range e.entries {
		if entry.CanHandle(c) {
			out = append(out, entry)
		}
	}
	sortEntries(out)
	return out
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].seq < entries[j].seq
	})
}

// Resolve применяет правила к конфликту. Ошибки резолверов не возвращаются:
// они записываются в Metadata.Attempts, а управление переходит к следующему правилу.
// Ошибка возвращается только при отмене ctx или сбое терминального резолвера.
func (e *Engine) Resolve(ctx context.Context, c *models.ConflictRecord) (*models.ResolutionResult, error) {
	var attempts []models.Attempt

	for _, entry := range e.Candidates(c) {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}

		res, err := entry.Resolver.Resolve(ctx, c)
		if err != nil {
			e.logger.Debug("Resolver failed, trying next",
				"rule", entry.Name,
				"conflict_id", c.ID,
				"error", err,
			)
			attempts = append(attempts, models.Attempt{Resolver: entry.Name, Error: err.Error()})
			continue
		}
		if res.Resolution == models.ResolutionUserDecision {
			attempts = append(attempts, models.Attempt{Resolver: entry.Name, Error: "escalated to user"})
			continue
		}

		res.Metadata.Attempts = attempts
		e.logger.Debug("Conflict resolved automatically",
			"rule", entry.Name,
			"conflict_id", c.ID,
			"resolution", res.Resolution,
		)
		return res, nil
	}

	e.logger.Warn("Escalating to user",
		"conflict_id", c.ID,
		"entity_id", c.EntityID(),
		"reason", models.ErrPolicyExhausted,
		"attempts", len(attempts),
	)

	res, err := e.terminal.Resolve(ctx, c)
	if err != nil {
		return nil, err
	}
	res.RequiresUserIntervention = true
	res.Metadata.Attempts = attempts
	return res, nil
}
