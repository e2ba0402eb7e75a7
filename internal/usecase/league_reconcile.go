package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	"go.opentelemetry.io/otel/attribute"
)

const maxReconcileWorkers = 8

type ReconcileInput struct {
	MaxWorkers int
	// DryRun computes the drift without writing it back.
	DryRun bool
}

type ReconcileResult struct {
	CheckedCount int                     `json:"checked_count"`
	DriftCount   int                     `json:"drift_count"`
	SuccessCount int                     `json:"success_count"`
	FailedCount  int                     `json:"failed_count"`
	SkippedCount int                     `json:"skipped_count"`
	WorkerCount  int                     `json:"worker_count"`
	DryRun       bool                    `json:"dry_run"`
	Leagues      []ReconcileLeagueResult `json:"leagues"`
}

type ReconcileLeagueResult struct {
	LeagueID   string `json:"league_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	reconcileStatusSuccess = "success"
	reconcileStatusFailed  = "failed"
	reconcileStatusSkipped = "skipped"
)

type reconcileTask struct {
	leagueID string
	from     league.Status
	to       league.Status
}

// ReconcileStatuses persists the effective status of every league whose
// stored status has drifted from it.
func (s *LeagueService) ReconcileStatuses(ctx context.Context, input ReconcileInput) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ReconcileStatuses",
		attribute.Bool("reconcile.dry_run", input.DryRun),
		attribute.Int("reconcile.max_workers", input.MaxWorkers),
	)
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return ReconcileResult{}, spanError(span, fmt.Errorf("list leagues: %w", err))
	}

	now := s.clock.Now()
	tasks := make([]reconcileTask, 0)
	for _, item := range leagues {
		effective := item.EffectiveStatus(now)
		if effective == item.Status {
			continue
		}
		tasks = append(tasks, reconcileTask{leagueID: item.ID, from: item.Status, to: effective})
	}

	workerCount := normalizeReconcileWorkerCount(input.MaxWorkers, len(tasks))
	result := ReconcileResult{
		CheckedCount: len(leagues),
		DriftCount:   len(tasks),
		WorkerCount:  workerCount,
		DryRun:       input.DryRun,
		Leagues:      make([]ReconcileLeagueResult, 0, len(tasks)),
	}
	if len(tasks) == 0 {
		return result, nil
	}

	results := make(chan ReconcileLeagueResult, len(tasks))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	workers, err := ants.NewPool(workerCount)
	if err != nil {
		return ReconcileResult{}, spanError(span, fmt.Errorf("create worker pool: %w", err))
	}
	defer workers.Release()

	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			start := time.Now()
			row := ReconcileLeagueResult{
				LeagueID: task.leagueID,
				From:     string(task.from),
				To:       string(task.to),
			}
			row.Status, row.Message = s.reconcileOne(ctx, task, now, input.DryRun)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case reconcileStatusSuccess:
				successCount.Add(1)
			case reconcileStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			s.metrics.StatusReconciled(task.from, task.to, row.Status)

			results <- row
		}); err != nil {
			wg.Done()
			return ReconcileResult{}, spanError(span, fmt.Errorf("submit task to worker pool: %w", err))
		}
	}

	wg.Wait()
	close(results)

	for row := range results {
		result.Leagues = append(result.Leagues, row)
	}
	sort.SliceStable(result.Leagues, func(i, j int) bool {
		return result.Leagues[i].LeagueID < result.Leagues[j].LeagueID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	span.SetAttributes(
		attribute.Int("reconcile.drift", result.DriftCount),
		attribute.Int("reconcile.failed", result.FailedCount),
	)
	s.logger.InfoContext(ctx, "league status reconcile finished",
		"checked", result.CheckedCount,
		"drift", result.DriftCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
		"dry_run", input.DryRun,
	)
	return result, nil
}

func (s *LeagueService) reconcileOne(ctx context.Context, task reconcileTask, now time.Time, dryRun bool) (string, string) {
	if dryRun {
		return reconcileStatusSkipped, "dry run"
	}
	if err := ctx.Err(); err != nil {
		return reconcileStatusFailed, err.Error()
	}

	updated, err := s.leagueRepo.CompareAndSetStatus(ctx, task.leagueID, task.from, task.to, now.UTC())
	if err != nil {
		s.logger.WarnContext(ctx, "reconcile league status failed", "league_id", task.leagueID, "error", err)
		return reconcileStatusFailed, err.Error()
	}
	if updated {
		return reconcileStatusSuccess, ""
	}

	// Nothing matched: either the league is gone or someone set a new
	// status after the list was read. The latter wins.
	current, exists, err := s.leagueRepo.GetByID(ctx, task.leagueID)
	if err != nil {
		return reconcileStatusFailed, err.Error()
	}
	if !exists {
		return reconcileStatusFailed, "league not found"
	}
	s.logger.InfoContext(ctx, "league status changed during reconcile",
		"league_id", task.leagueID,
		"expected", task.from,
		"current", current.Status,
	)
	return reconcileStatusSkipped, "status changed"
}

func normalizeReconcileWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > maxReconcileWorkers {
		value = maxReconcileWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
