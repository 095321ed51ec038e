package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/gophsync/internal/analytics"
	"github.com/iudanet/gophsync/internal/client/iocli"
	"github.com/iudanet/gophsync/internal/client/sync"
)

// Переменные окружения, задающие значения флагов по умолчанию
const (
	EnvDB          = "GOPHSYNC_DB"
	EnvPolicy      = "GOPHSYNC_POLICY"
	EnvAnalyticsDB = "GOPHSYNC_ANALYTICS_DB"
)

// RootOptions глобальные флаги
type RootOptions struct {
	DBPath      string
	PolicyPath  string // PolicyPath пустой путь означает политику по умолчанию
	AnalyticsDB string
	Concurrency int
	Verbose     bool
}

// VersionInfo информация о сборке (задается через ldflags)
type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// StatsReader источник агрегированной аналитики
type StatsReader interface {
	Stats(ctx context.Context) (*analytics.Snapshot, error)
}

// Deps сервисы, нужные командам
type Deps struct {
	Sync  sync.Service
	Stats StatsReader
	Close func() error
}

// Builder открывает хранилища и собирает сервисы по глобальным флагам
type Builder func(ctx context.Context, opts RootOptions, io iocli.IO) (*Deps, error)

// Cli команды gophsync
type Cli struct {
	io          iocli.IO
	build       Builder
	syncService sync.Service
	stats       StatsReader
	closeFn     func() error
	opts        RootOptions
}

// New создает CLI. Сервисы собираются при первой команде, которой они нужны.
func New(io iocli.IO, build Builder) *Cli {
	return &Cli{io: io, build: build}
}

// NewRootCommand создает корневую команду
func (c *Cli) NewRootCommand(info VersionInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gophsync",
		Short: "gophsync - conflict resolution for offline-first sync",
		Long: `Detects and resolves conflicts between local and server replicas.

Replicas are imported into a local store, resolved by an ordered policy
(merges first, last-writer-wins for dominated conflicts) and committed.
Conflicts that need a human are prompted on a terminal or postponed.`,
		SilenceUsage: true,
	}
	cmd.SetOut(c.io)

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.opts.DBPath, "db", envOr(EnvDB, "gophsync.db"), "path to local replica database")
	flags.StringVar(&c.opts.PolicyPath, "policy", os.Getenv(EnvPolicy), "path to policy YAML (default policy if empty)")
	flags.StringVar(&c.opts.AnalyticsDB, "analytics-db", envOr(EnvAnalyticsDB, "gophsync-analytics.db"), "path to analytics database")
	flags.IntVar(&c.opts.Concurrency, "concurrency", sync.DefaultConcurrency, "entities resolved in parallel")
	flags.BoolVarP(&c.opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(c.newImportCommand())
	cmd.AddCommand(c.newEditCommand())
	cmd.AddCommand(c.newConflictsCommand())
	cmd.AddCommand(c.newResolveCommand())
	cmd.AddCommand(c.newResolveAllCommand())
	cmd.AddCommand(c.newRetryCommitsCommand())
	cmd.AddCommand(c.newStatsCommand())
	cmd.AddCommand(c.newVersionCommand(info))

	return cmd
}

// services собирает сервисы один раз за запуск
func (c *Cli) services(ctx context.Context) error {
	if c.syncService != nil {
		return nil
	}
	if c.build == nil {
		return errors.New("services are not configured")
	}
	deps, err := c.build(ctx, c.opts, c.io)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	c.syncService = deps.Sync
	c.stats = deps.Stats
	c.closeFn = deps.Close
	return nil
}

// Close освобождает хранилища, открытые Builder
func (c *Cli) Close() error {
	if c.closeFn == nil {
		return nil
	}
	err := c.closeFn()
	c.closeFn = nil
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
