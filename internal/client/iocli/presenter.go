package iocli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/iudanet/gophsync/internal/models"
	"github.com/iudanet/gophsync/internal/resolver"
)

const absent = "<absent>"

// errSuperseded решение отменено, пока вопрос ждал ответа
var errSuperseded = errors.New("decision superseded")

type readResult struct {
	err  error
	line string
}

// Presenter показывает конфликт в терминале и запрашивает решение пользователя.
// Запросы обслуживаются по одному. Если ввод не терминал, решение сразу откладывается.
//
// Ввод читает одна горутина. Вопрос, решение которого отменили, не ждет ответа:
// начатое чтение достается следующему вопросу.
type Presenter struct {
	io       IO
	logger   *slog.Logger
	prompts  chan string
	lines    chan readResult
	mu       sync.Mutex
	startRd  sync.Once
	inFlight bool // защищено mu
}

var _ resolver.Presenter = (*Presenter)(nil)

// NewPresenter создает презентер поверх IO
func NewPresenter(io IO, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Presenter{
		io:      io,
		logger:  logger,
		prompts: make(chan string),
		lines:   make(chan readResult),
	}
}

func (p *Presenter) readLoop() {
	for prompt := range p.prompts {
		line, err := p.io.ReadInput(prompt)
		p.lines <- readResult{line: line, err: err}
	}
}

// readLine читает строку ответа, пока решение d не выполнено и не отменено.
// Вызывается под mu.
func (p *Presenter) readLine(d *resolver.Decision, prompt string) (string, error) {
	p.startRd.Do(func() { go p.readLoop() })

	if p.inFlight {
		// чтение, начатое отмененным вопросом, еще ждет ввода
		p.io.Printf("%s", prompt)
	} else {
		p.prompts <- prompt
		p.inFlight = true
	}

	select {
	case r := <-p.lines:
		p.inFlight = false
		return r.line, r.err
	case <-d.Done():
		return "", errSuperseded
	}
}

// RequestUserDecision возвращает решение, которое будет выполнено после ответа пользователя
func (p *Presenter) RequestUserDecision(ctx context.Context, c *models.ConflictRecord) (*resolver.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, context.Cause(ctx)
	}
	if !p.io.IsInteractive() {
		p.logger.Debug("Input is not a terminal, postponing", "conflict_id", c.ID, "entity_id", c.EntityID())
		return resolver.Decided(models.Postpone()), nil
	}

	d := resolver.NewDecision()
	go p.prompt(c, d)
	return d, nil
}

func (p *Presenter) prompt(c *models.ConflictRecord, d *resolver.Decision) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// решение могло быть отменено, пока запрос ждал очереди
	select {
	case <-d.Done():
		return
	default:
	}

	choice, err := p.ask(c, d)
	switch {
	case errors.Is(err, errSuperseded):
		p.io.Println()
		p.io.Printf("Conflict %s was superseded by a newer change, question withdrawn.\n", c.ID)
		p.logger.Debug("Prompt withdrawn", "conflict_id", c.ID)
		return
	case errors.Is(err, io.EOF):
		choice = models.Postpone()
	case err != nil:
		d.Cancel(fmt.Errorf("failed to read decision: %w", err))
		return
	}

	if !d.Fulfill(choice) {
		p.logger.Debug("Decision arrived after cancellation", "conflict_id", c.ID)
	}
}

func (p *Presenter) ask(c *models.ConflictRecord, d *resolver.Decision) (models.UserChoice, error) {
	p.render(c)

	for {
		answer, err := p.readLine(d, "Choose [l]ocal, [s]erver, [m]anual merge, [p]ostpone: ")
		if err != nil {
			return models.UserChoice{}, err
		}
		switch strings.ToLower(answer) {
		case "l", "local":
			return models.KeepLocal(), nil
		case "s", "server":
			return models.KeepServer(), nil
		case "p", "postpone":
			return models.Postpone(), nil
		case "m", "manual":
			return p.manual(c, d)
		default:
			p.io.Printf("Unknown choice %q\n", answer)
		}
	}
}

func (p *Presenter) render(c *models.ConflictRecord) {
	base := "-"
	if c.HasBase() {
		base = fmt.Sprint(c.Base.Version)
	}

	p.io.Println()
	p.io.Printf("=== Conflict %s ===\n", c.ID)
	p.io.Printf("Entity:   %s/%s\n", c.EntityType(), c.EntityID())
	p.io.Printf("Type:     %s\n", c.Type)
	p.io.Printf("Versions: local %d, server %d, base %s\n", c.Local.Version, c.Server.Version, base)
	p.io.Println("Fields in conflict:")
	for _, f := range c.FieldsInConflict {
		p.io.Printf("  %s\n", f)
		if c.HasBase() {
			p.io.Printf("    base:   %s\n", formatField(c.Base, f))
		}
		p.io.Printf("    local:  %s\n", formatField(c.Local, f))
		p.io.Printf("    server: %s\n", formatField(c.Server, f))
	}
}

// manual собирает запись из локальной реплики, запрашивая значение каждого конфликтующего поля.
// Пустой ввод оставляет локальное значение, "-" удаляет поле, остальное читается как JSON или как строка.
func (p *Presenter) manual(c *models.ConflictRecord, d *resolver.Decision) (models.UserChoice, error) {
	fields := c.Local.Clone().Fields

	for _, f := range c.FieldsInConflict {
		for {
			input, err := p.readLine(d, fmt.Sprintf("%s (JSON, empty keeps local, - removes): ", f))
			if err != nil {
				return models.UserChoice{}, err
			}
			if input == "" {
				break
			}
			if input == "-" {
				delete(fields, f)
				break
			}
			v, err := ParseValue(input)
			if err != nil {
				p.io.Printf("Invalid value: %v\n", err)
				continue
			}
			fields[f] = v
			break
		}
	}

	return models.ManualMerge(&models.Record{
		ID:         c.EntityID(),
		EntityType: c.EntityType(),
		Fields:     fields,
	}), nil
}

// ParseValue читает значение поля: JSON-литерал или, если это не JSON, строку как есть
func ParseValue(input string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return input, nil
	}
	return models.NormalizeValue(v)
}

func formatField(r *models.Record, field string) string {
	v, ok := r.Get(field)
	if !ok {
		return absent
	}
	b, err := models.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(bytes.TrimSpace(b))
}
