package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
)

var (
	ErrEmptyJobName  = errors.New("job name is required")
	ErrEmptyCronExpr = errors.New("cron expression is required")
)

// Task runs under a context that is cancelled when the scheduler stops.
type Task func(ctx context.Context) error

// Service wraps a gocron scheduler. Jobs never overlap with themselves.
type Service struct {
	scheduler gocron.Scheduler
	logger    *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
	stopErr  error
}

func New(logger *logging.Logger, clock clockwork.Clock) (*Service, error) {
	if logger == nil {
		logger = logging.Default()
	}

	opts := []gocron.SchedulerOption{
		gocron.WithLocation(time.UTC),
		gocron.WithGlobalJobOptions(
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("scheduler job panicked",
						"job_id", jobID.String(),
						"job_name", jobName,
						"panic", recoverData,
					)
				}),
			),
		),
	}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}

	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		scheduler: sched,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

func (s *Service) Start() {
	s.logger.Info("scheduler starting", "jobs", len(s.scheduler.Jobs()))
	s.scheduler.Start()
}

// Stop cancels running tasks and waits for them to return.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		s.logger.Info("scheduler stopping")
		s.cancel()
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

// AddJob registers a cron job. Five-field expressions are expected.
func (s *Service) AddJob(name, cronExpr string, timeout time.Duration, task Task) (gocron.Job, error) {
	name = strings.TrimSpace(name)
	cronExpr = strings.TrimSpace(cronExpr)
	if name == "" {
		return nil, ErrEmptyJobName
	}
	if cronExpr == "" {
		return nil, ErrEmptyCronExpr
	}

	jobLogger := s.logger.With("job_name", name, "cron", cronExpr)

	wrapped := func() {
		ctx := s.ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		started := time.Now()
		jobLogger.DebugContext(ctx, "scheduler job started")
		if err := task(ctx); err != nil {
			jobLogger.ErrorContext(ctx, "scheduler job failed", "error", err, "duration_ms", time.Since(started).Milliseconds())
			return
		}
		jobLogger.DebugContext(ctx, "scheduler job completed", "duration_ms", time.Since(started).Milliseconds())
	}

	job, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(wrapped),
		gocron.WithName(name),
	)
	if err != nil {
		jobLogger.Error("register scheduler job failed", "error", err)
		return nil, err
	}

	jobLogger.Info("scheduler job registered")
	return job, nil
}
