package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tennis-league/internal/app"
	"github.com/riskibarqy/tennis-league/internal/config"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
	"github.com/riskibarqy/tennis-league/internal/usecase"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report drift without writing")
	workers := flag.Int("workers", 4, "concurrent status writes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewJSON(cfg.LogLevel).With("component", "statusrepair")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.CacheEnabled = false
	repos, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer func() { _ = repos.Close(context.Background()) }()

	svc := usecase.NewLeagueService(repos.Leagues, repos.Cities, nil, nil, usecase.WithLeagueLogger(logger))
	result, err := svc.ReconcileStatuses(ctx, usecase.ReconcileInput{MaxWorkers: *workers, DryRun: *dryRun})
	if err != nil {
		logger.Error("reconcile statuses", "error", err)
		os.Exit(1)
	}

	if err := writeResult(os.Stdout, result); err != nil {
		logger.Error("write result", "error", err)
		os.Exit(1)
	}
	if result.FailedCount > 0 {
		os.Exit(3)
	}
}

func writeResult(w io.Writer, result usecase.ReconcileResult) error {
	out, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
