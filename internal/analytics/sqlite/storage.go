// Package sqlite хранит события аналитики конфликтов в SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/gophsync/internal/analytics"
	"github.com/iudanet/gophsync/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage журнал событий аналитики. Реализует analytics.Collector.
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ analytics.Collector = (*Storage)(nil)

// New открывает (или создает) базу аналитики и применяет миграции.
// Для тестов используйте ":memory:".
func New(ctx context.Context, dbPath string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite поддерживает только одного писателя
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Storage{db: db, logger: logger}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close закрывает соединение с базой
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) runMigrations() error {
	goose.SetDialect("sqlite3")
	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
}

// OnConflictDetected записывает событие обнаружения. Ошибки записи только логируются.
func (s *Storage) OnConflictDetected(ctx context.Context, e analytics.DetectedEvent) {
	if err := s.SaveDetected(ctx, e); err != nil {
		s.logger.Warn("Failed to store detection event", "conflict_id", e.ConflictID, "error", err)
	}
}

// OnConflictResolved записывает событие разрешения. Ошибки записи только логируются.
func (s *Storage) OnConflictResolved(ctx context.Context, e analytics.ResolvedEvent) {
	if err := s.SaveResolved(ctx, e); err != nil {
		s.logger.Warn("Failed to store resolution event", "conflict_id", e.ConflictID, "error", err)
	}
}

// SaveDetected записывает событие обнаружения конфликта
func (s *Storage) SaveDetected(ctx context.Context, e analytics.DetectedEvent) error {
	query := `
		INSERT INTO conflict_detected (conflict_id, entity_type, conflict_type, field_count, detected_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ConflictID,
		e.EntityType,
		string(e.ConflictType),
		e.FieldCount,
		e.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert detection event: %w", err)
	}
	return nil
}

// SaveResolved записывает событие разрешения конфликта
func (s *Storage) SaveResolved(ctx context.Context, e analytics.ResolvedEvent) error {
	query := `
		INSERT INTO conflict_resolved (conflict_id, strategy_name, method, duration_ms, auto_resolved)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		e.ConflictID,
		e.StrategyName,
		string(e.Method),
		e.DurationMs,
		boolToInt(e.AutoResolved),
	)
	if err != nil {
		return fmt.Errorf("failed to insert resolution event: %w", err)
	}
	return nil
}

// Stats вычисляет агрегированные метрики по всем сохраненным событиям
func (s *Storage) Stats(ctx context.Context) (*analytics.Snapshot, error) {
	snap := &analytics.Snapshot{
		ByConflictType: make(map[models.ConflictType]int64),
		ByEntityType:   make(map[string]int64),
		ByStrategy:     make(map[string]int64),
		ByMethod:       make(map[models.Resolution]int64),
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(field_count), 0) FROM conflict_detected`,
	).Scan(&snap.Detected, &snap.TotalFields)
	if err != nil {
		return nil, fmt.Errorf("failed to count detections: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(auto_resolved), 0),
		       COALESCE(SUM(duration_ms), 0), COALESCE(MAX(duration_ms), 0)
		FROM conflict_resolved
	`).Scan(&snap.Resolved, &snap.AutoResolved, &snap.TotalDurationMs, &snap.MaxDurationMs)
	if err != nil {
		return nil, fmt.Errorf("failed to count resolutions: %w", err)
	}

	groups := []struct {
		apply func(key string, n int64)
		query string
	}{
		{
			query: `SELECT conflict_type, COUNT(*) FROM conflict_detected GROUP BY conflict_type`,
			apply: func(key string, n int64) { snap.ByConflictType[models.ConflictType(key)] = n },
		},
		{
			query: `SELECT entity_type, COUNT(*) FROM conflict_detected GROUP BY entity_type`,
			apply: func(key string, n int64) { snap.ByEntityType[key] = n },
		},
		{
			query: `SELECT strategy_name, COUNT(*) FROM conflict_resolved GROUP BY strategy_name`,
			apply: func(key string, n int64) { snap.ByStrategy[key] = n },
		},
		{
			query: `SELECT method, COUNT(*) FROM conflict_resolved GROUP BY method`,
			apply: func(key string, n int64) { snap.ByMethod[models.Resolution(key)] = n },
		},
	}
	for _, g := range groups {
		if err := s.group(ctx, g.query, g.apply); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

func (s *Storage) group(ctx context.Context, query string, apply func(key string, n int64)) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			n   int64
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan stats row: %w", err)
		}
		apply(key, n)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating stats rows: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
