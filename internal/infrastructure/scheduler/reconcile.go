package scheduler

import (
	"context"
	"time"

	"github.com/riskibarqy/tennis-league/internal/platform/logging"
	"github.com/riskibarqy/tennis-league/internal/usecase"
)

const ReconcileStatusesJobName = "league-status-reconcile"

type StatusReconciler interface {
	ReconcileStatuses(ctx context.Context, input usecase.ReconcileInput) (usecase.ReconcileResult, error)
}

// ReconcileStatusesTask writes drifted league statuses back to the store.
func ReconcileStatusesTask(reconciler StatusReconciler, workers int, logger *logging.Logger) Task {
	if logger == nil {
		logger = logging.Default()
	}

	return func(ctx context.Context) error {
		result, err := reconciler.ReconcileStatuses(ctx, usecase.ReconcileInput{MaxWorkers: workers})
		if err != nil {
			return err
		}
		if result.DriftCount > 0 {
			logger.InfoContext(ctx, "scheduled league status reconcile",
				"drift", result.DriftCount,
				"success", result.SuccessCount,
				"failed", result.FailedCount,
			)
		}
		return nil
	}
}

// RegisterReconcileStatuses adds the periodic reconcile job.
func (s *Service) RegisterReconcileStatuses(cronExpr string, reconciler StatusReconciler, workers int) error {
	_, err := s.AddJob(ReconcileStatusesJobName, cronExpr, 5*time.Minute, ReconcileStatusesTask(reconciler, workers, s.logger))
	return err
}
