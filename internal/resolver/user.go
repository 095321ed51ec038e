package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/gophsync/internal/models"
)

//go:generate moq -out presenter_mock.go . Presenter

type userWaitKey struct{}

// WithUserWait возвращает контекст, через который терминальный резолвер сообщает
// о начале (true) и конце (false) ожидания решения пользователя.
func WithUserWait(ctx context.Context, fn func(waiting bool)) context.Context {
	return context.WithValue(ctx, userWaitKey{}, fn)
}

// NotifyUserWait вызывает обработчик, заданный WithUserWait, если он есть
func NotifyUserWait(ctx context.Context, waiting bool) {
	if fn, ok := ctx.Value(userWaitKey{}).(func(bool)); ok {
		fn(waiting)
	}
}

// Presenter внешний UI, который показывает конфликт пользователю
type Presenter interface {
	// RequestUserDecision начинает запрос решения и сразу возвращает Decision,
	// который будет выполнен, когда пользователь ответит.
	RequestUserDecision(ctx context.Context, c *models.ConflictRecord) (*Decision, error)
}

// Decision ожидаемое решение пользователя (future).
// Выполняется ровно один раз: Fulfill или Cancel; последующие вызовы игнорируются.
type Decision struct {
	err    error
	done   chan struct{}
	choice models.UserChoice
	once   sync.Once
}

// NewDecision создает невыполненное решение
func NewDecision() *Decision {
	return &Decision{done: make(chan struct{})}
}

// Decided создает уже выполненное решение
func Decided(choice models.UserChoice) *Decision {
	d := NewDecision()
	d.Fulfill(choice)
	return d
}

// Fulfill выполняет решение. Возвращает false, если оно уже выполнено или отменено.
func (d *Decision) Fulfill(choice models.UserChoice) bool {
	ok := false
	d.once.Do(func() {
		d.choice = choice
		close(d.done)
		ok = true
	})
	return ok
}

// Cancel отменяет ожидание. cause == nil означает ErrCancelledByNewerConflict.
func (d *Decision) Cancel(cause error) bool {
	if cause == nil {
		cause = models.ErrCancelledByNewerConflict
	}
	ok := false
	d.once.Do(func() {
		d.err = cause
		close(d.done)
		ok = true
	})
	return ok
}

// Done закрывается, когда решение выполнено или отменено
func (d *Decision) Done() <-chan struct{} {
	return d.done
}

// Await ждет решения. При отмене ctx решение отменяется с причиной context.Cause(ctx).
func (d *Decision) Await(ctx context.Context) (models.UserChoice, error) {
	select {
	case <-d.done:
	case <-ctx.Done():
		d.Cancel(context.Cause(ctx))
		<-d.done
	}
	if d.err != nil {
		return models.UserChoice{}, d.err
	}
	return d.choice, nil
}

// userMediated передает конфликт пользователю и ждет его решения.
// Это единственная точка приостановки в процессе разрешения.
type userMediated struct {
	presenter Presenter
	logger    *slog.Logger
}

func (*userMediated) sealed()        {}
func (*userMediated) Kind() Kind     { return KindUserMediated }
func (u *userMediated) Name() string { return KindUserMediated.String() }

func (u *userMediated) Resolve(ctx context.Context, c *models.ConflictRecord) (*models.ResolutionResult, error) {
	if u.presenter == nil {
		u.logger.Debug("No presenter configured, postponing", "conflict_id", c.ID, "entity_id", c.EntityID())
		return u.result(c, models.Postpone())
	}

	NotifyUserWait(ctx, true)
	defer NotifyUserWait(ctx, false)

	decision, err := u.presenter.RequestUserDecision(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to request user decision: %w", err)
	}

	u.logger.Debug("Waiting for user decision", "conflict_id", c.ID, "entity_id", c.EntityID())
	choice, err := decision.Await(ctx)
	if err != nil {
		return nil, err
	}
	return u.result(c, choice)
}

// result переводит решение пользователя в ResolutionResult.
// Любой результат отмечается RequiresUserIntervention: решение принимал человек.
func (u *userMediated) result(c *models.ConflictRecord, choice models.UserChoice) (*models.ResolutionResult, error) {
	res, err := u.choiceResult(c, choice)
	if err != nil {
		return nil, err
	}
	res.RequiresUserIntervention = true
	return res, nil
}

func (u *userMediated) choiceResult(c *models.ConflictRecord, choice models.UserChoice) (*models.ResolutionResult, error) {
	switch choice.Kind {
	case models.ChoiceKeepLocal, models.ChoiceKeepServer:
		local := choice.Kind == models.ChoiceKeepLocal
		reason := "user kept server"
		if local {
			reason = "user kept local"
		}
		return side(c, local, u.Name(), models.ResolutionUserDecision, reason)
	case models.ChoiceManualMerge:
		if choice.Record == nil {
			return nil, fmt.Errorf("%w: manual merge without record", ErrInvalidChoice)
		}
		if choice.Record.ID != "" && choice.Record.ID != c.EntityID() {
			return nil, fmt.Errorf("%w: manual merge record %q for entity %q", ErrInvalidChoice, choice.Record.ID, c.EntityID())
		}
		normalized, err := models.NormalizeFields(choice.Record.Fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidChoice, err)
		}
		rec, err := dominating(c, &models.Record{Fields: normalized})
		if err != nil {
			return nil, err
		}
		return &models.ResolutionResult{
			Record:       rec,
			Resolution:   models.ResolutionUserDecision,
			StrategyName: u.Name(),
			Metadata:     models.ResolutionMetadata{Reason: "manual merge"},
		}, nil
	case models.ChoicePostpone:
		return &models.ResolutionResult{
			Resolution:   models.ResolutionUserDecision,
			StrategyName: u.Name(),
			Metadata:     models.ResolutionMetadata{Postponed: true, Reason: "postponed"},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoice, choice.Kind)
	}
}
