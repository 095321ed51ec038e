package policy

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/gophsync/internal/detector"
	"github.com/iudanet/gophsync/internal/merge"
	"github.com/iudanet/gophsync/internal/models"
	"github.com/iudanet/gophsync/internal/resolver"
)

// Config конфигурация политики разрешения конфликтов
type Config struct {
	// FieldStrategies стратегии слияния для конкретных полей (имя поля -> имя стратегии)
	FieldStrategies map[string]string `yaml:"field_strategies,omitempty"`

	// Rules правила в порядке регистрации
	Rules []Rule `yaml:"rules"`

	// TimestampTolerance окно одновременности детектора
	TimestampTolerance time.Duration `yaml:"timestamp_tolerance"`

	// MaxTextBytes предел размера текста для построчного слияния
	MaxTextBytes int `yaml:"max_text_bytes"`

	// MaxTextLines предел числа строк текста для построчного слияния
	MaxTextLines int `yaml:"max_text_lines"`
}

// Rule правило политики
type Rule struct {
	Match    Match  `yaml:"match,omitempty"`
	Name     string `yaml:"name"`
	Resolver string `yaml:"resolver"`
	// Tier уровень приоритета; игнорируется, если задан Priority
	Tier     string `yaml:"tier,omitempty"`
	Priority int    `yaml:"priority,omitempty"`
}

// Match условия применимости правила. Пустое условие подходит любому конфликту.
type Match struct {
	// HasBase если задано, требует наличия (true) или отсутствия (false) base
	HasBase       *bool    `yaml:"has_base,omitempty"`
	EntityTypes   []string `yaml:"entity_types,omitempty"`
	ConflictTypes []string `yaml:"conflict_types,omitempty"`
	// FieldsAny хотя бы одно из полей должно быть в конфликте
	FieldsAny []string `yaml:"fields_any,omitempty"`
	// LargerSide "local" или "server": сторона должна быть строго больше по размеру содержимого
	LargerSide string `yaml:"larger_side,omitempty"`
	// MaxFieldsInConflict ограничивает число конфликтующих полей (0 - без ограничения)
	MaxFieldsInConflict int `yaml:"max_fields_in_conflict,omitempty"`
	// MinContentBytes минимальный размер большей стороны в байтах
	MinContentBytes int  `yaml:"min_content_bytes,omitempty"`
	RequiresBase    bool `yaml:"requires_base,omitempty"`
}

// DefaultConfig возвращает политику по умолчанию:
// трехстороннее и построчное слияние при наличии base, пополевое слияние без base,
// LWW только для конфликтов с доминирующей стороной. VersionMismatch автоматически не разрешается.
func DefaultConfig() *Config {
	noBase := false
	return &Config{
		TimestampTolerance: detector.DefaultTimestampTolerance,
		MaxTextBytes:       merge.DefaultMaxTextBytes,
		MaxTextLines:       merge.DefaultMaxTextLines,
		FieldStrategies:    map[string]string{},
		Rules: []Rule{
			{
				Name:     "three_way",
				Resolver: resolver.KindThreeWayMerge.String(),
				Tier:     "business_rule",
				Match: Match{
					RequiresBase:  true,
					ConflictTypes: automaticTypes(),
				},
			},
			{
				Name:     "semantic_text",
				Resolver: resolver.KindSemanticTextMerge.String(),
				Tier:     "business_rule",
				Match: Match{
					RequiresBase:  true,
					ConflictTypes: automaticTypes(),
				},
			},
			{
				Name:     "field_level",
				Resolver: resolver.KindFieldLevelMerge.String(),
				Tier:     "user_preference",
				Match: Match{
					HasBase:       &noBase,
					ConflictTypes: automaticTypes(),
				},
			},
			{
				Name:     "last_writer_wins",
				Resolver: resolver.KindLastWriterWins.String(),
				Tier:     "version",
				Match: Match{
					ConflictTypes: []string{
						string(models.ConflictServerNewer),
						string(models.ConflictClientNewer),
					},
				},
			},
		},
	}
}

func automaticTypes() []string {
	return []string{
		string(models.ConflictServerNewer),
		string(models.ConflictClientNewer),
		string(models.ConflictSimultaneous),
		string(models.ConflictContentDivergent),
	}
}

// LoadConfig читает YAML-файл поверх политики по умолчанию.
// Правила из файла полностью заменяют правила по умолчанию.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse policy config: %w", err)
	}

	cfg.applyEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvironment применяет переопределения из переменных окружения
func (c *Config) applyEnvironment() {
	if v := os.Getenv("GOPHSYNC_MAX_TEXT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxTextBytes = n
		}
	}
	if v := os.Getenv("GOPHSYNC_MAX_TEXT_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxTextLines = n
		}
	}
	if v := os.Getenv("GOPHSYNC_TIMESTAMP_TOLERANCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.TimestampTolerance = d
		}
	}
}

// Validate проверяет конфигурацию без построения движка
func (c *Config) Validate() error {
	for field, name := range c.FieldStrategies {
		if !slices.Contains(merge.BuiltinNames(), name) {
			return fmt.Errorf("field %q: %w: %q", field, merge.ErrUnknownStrategy, name)
		}
	}
	for i, rule := range c.Rules {
		if _, _, err := rule.compile(); err != nil {
			return fmt.Errorf("rule #%d: %w", i+1, err)
		}
	}
	return nil
}

// Registry строит реестр стратегий слияния
func (c *Config) Registry() (*merge.Registry, error) {
	registry := merge.NewRegistry(merge.Config{
		MaxTextBytes: c.MaxTextBytes,
		MaxTextLines: c.MaxTextLines,
	})
	for _, field := range models.SortedKeys(c.FieldStrategies) {
		if err := registry.UseField(field, c.FieldStrategies[field]); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Detector строит детектор с настроенным окном одновременности
func (c *Config) Detector() *detector.Detector {
	return detector.New(detector.Config{TimestampTolerance: c.TimestampTolerance})
}

// Build строит движок политик. presenter используется терминальным UserMediated.
func (c *Config) Build(presenter resolver.Presenter, logger *slog.Logger) (*Engine, error) {
	registry, err := c.Registry()
	if err != nil {
		return nil, err
	}

	engine := NewEngine(presenter, logger)
	for i, rule := range c.Rules {
		kind, priority, err := rule.compile()
		if err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i+1, err)
		}
		predicate, err := rule.Match.Predicate()
		if err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i+1, err)
		}
		r, err := resolver.New(kind, resolver.Options{Registry: registry, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i+1, err)
		}
		if err := engine.Register(rule.Name, r, predicate, priority); err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i+1, err)
		}
	}
	return engine, nil
}

func (r Rule) compile() (resolver.Kind, int, error) {
	kind, err := resolver.ParseKind(r.Resolver)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	if kind == resolver.KindUserMediated {
		return 0, 0, ErrTerminalResolver
	}
	if _, err := r.Match.Predicate(); err != nil {
		return 0, 0, err
	}

	priority := r.Priority
	if priority == 0 {
		if r.Tier == "" {
			return 0, 0, fmt.Errorf("%w: %q needs tier or priority", ErrInvalidRule, r.Name)
		}
		tier, err := ParseTier(r.Tier)
		if err != nil {
			return 0, 0, err
		}
		priority = int(tier)
	}
	return kind, priority, nil
}

// Predicate компилирует условия в предикат
func (m Match) Predicate() (Predicate, error) {
	types := make([]models.ConflictType, 0, len(m.ConflictTypes))
	for _, s := range m.ConflictTypes {
		t, err := models.ParseConflictType(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		types = append(types, t)
	}
	if m.LargerSide != "" && m.LargerSide != "local" && m.LargerSide != "server" {
		return nil, fmt.Errorf("%w: larger_side must be local or server, got %q", ErrInvalidRule, m.LargerSide)
	}
	if m.RequiresBase && m.HasBase != nil && !*m.HasBase {
		return nil, fmt.Errorf("%w: requires_base contradicts has_base: false", ErrInvalidRule)
	}

	return func(c *models.ConflictRecord) bool {
		if len(m.EntityTypes) > 0 && !slices.Contains(m.EntityTypes, c.EntityType()) {
			return false
		}
		if len(types) > 0 && !slices.Contains(types, c.Type) {
			return false
		}
		if m.RequiresBase && !c.HasBase() {
			return false
		}
		if m.HasBase != nil && *m.HasBase != c.HasBase() {
			return false
		}
		if len(m.FieldsAny) > 0 && !slices.ContainsFunc(m.FieldsAny, c.InConflict) {
			return false
		}
		if m.MaxFieldsInConflict > 0 && len(c.FieldsInConflict) > m.MaxFieldsInConflict {
			return false
		}
		localSize, serverSize := c.Local.ContentSize(), c.Server.ContentSize()
		switch m.LargerSide {
		case "local":
			if localSize <= serverSize {
				return false
			}
		case "server":
			if serverSize <= localSize {
				return false
			}
		}
		if m.MinContentBytes > 0 && max(localSize, serverSize) < m.MinContentBytes {
			return false
		}
		return true
	}, nil
}
