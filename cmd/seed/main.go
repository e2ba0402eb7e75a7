package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/tennis-league/internal/app"
	"github.com/riskibarqy/tennis-league/internal/config"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/seed"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
)

func main() {
	file := flag.String("file", "", "YAML fixture to load (defaults to the bundled fixture)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewJSON(cfg.LogLevel).With("component", "seed")

	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn("STORE_DRIVER=memory keeps nothing after exit; set mongo or postgres")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *file, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, file string, logger *logging.Logger) error {
	data, err := loadDataset(file, time.Now().UTC())
	if err != nil {
		return err
	}

	// Writes must reach the store directly.
	cfg.CacheEnabled = false
	repos, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = repos.Close(context.Background()) }()

	result, err := seed.Apply(ctx, data, repos.Cities, repos.Leagues)
	if err != nil {
		return err
	}

	logger.Info("seed applied",
		"store_driver", cfg.StoreDriver,
		"cities", result.Cities,
		"leagues_created", result.LeaguesCreated,
		"leagues_skipped", result.LeaguesSkipped,
	)
	return nil
}

func loadDataset(file string, now time.Time) (seed.Dataset, error) {
	if file == "" {
		return seed.Default(now)
	}

	f, err := os.Open(file)
	if err != nil {
		return seed.Dataset{}, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	return seed.Load(f, now)
}
