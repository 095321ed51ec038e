package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/gophsync/internal/analytics"
	"github.com/iudanet/gophsync/internal/analytics/sqlite"
	"github.com/iudanet/gophsync/internal/client/cli"
	"github.com/iudanet/gophsync/internal/client/iocli"
	"github.com/iudanet/gophsync/internal/client/storage/boltdb"
	"github.com/iudanet/gophsync/internal/client/sync"
	"github.com/iudanet/gophsync/internal/engine"
	"github.com/iudanet/gophsync/internal/policy"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := cli.New(iocli.NewStdio(), build)
	cmd := app.NewRootCommand(cli.VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	})

	err := cmd.ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil {
		slog.Error("failed to close storage", "error", cerr)
	}
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// build открывает хранилища и собирает движок разрешения конфликтов
func build(ctx context.Context, opts cli.RootOptions, out iocli.IO) (*cli.Deps, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	cfg := policy.DefaultConfig()
	if opts.PolicyPath != "" {
		loaded, err := policy.LoadConfig(opts.PolicyPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	pol, err := cfg.Build(iocli.NewPresenter(out, logger), logger)
	if err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	store, err := boltdb.New(ctx, opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	events, err := sqlite.New(ctx, opts.AnalyticsDB, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open analytics database: %w", err)
	}

	collector := analytics.Fanout{events, analytics.NewLogger(logger)}
	processor := engine.New(cfg.Detector(), pol, collector, logger)

	return &cli.Deps{
		Sync:  sync.NewService(processor, store, logger, opts.Concurrency),
		Stats: events,
		Close: func() error {
			return errors.Join(store.Close(), events.Close())
		},
	}, nil
}
