package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tennis-league/internal/config"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/account/jwtauth"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/scheduler"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/seed"
	"github.com/riskibarqy/tennis-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/tennis-league/internal/observability"
	idgen "github.com/riskibarqy/tennis-league/internal/platform/id"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
	"github.com/riskibarqy/tennis-league/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

var clockNow = func() time.Time { return time.Now().UTC() }

// App owns the HTTP server and everything that must be released with it.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	server    *http.Server
	scheduler *scheduler.Service
	repos     *Repositories
	debug     *observability.DebugServer

	shutdownTracing  func(context.Context) error
	shutdownProfiler func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{cfg: cfg, logger: logger}
	if err := a.build(ctx); err != nil {
		_ = a.release(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.cfg
	logger := a.logger

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	a.shutdownTracing = shutdownTracing

	shutdownProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	a.shutdownProfiler = shutdownProfiler

	if a.debug, err = observability.StartDebugServer(cfg, logger); err != nil {
		return fmt.Errorf("start pprof: %w", err)
	}

	repos, err := OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	a.repos = repos

	if cfg.SeedOnStart && cfg.StoreDriver != config.StoreMemory {
		data, err := seed.Default(clockNow())
		if err != nil {
			return fmt.Errorf("load default fixture: %w", err)
		}
		result, err := seed.Apply(ctx, data, repos.Cities, repos.Leagues)
		if err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		logger.Info("store seeded", "cities", result.Cities, "leagues_created", result.LeaguesCreated, "leagues_skipped", result.LeaguesSkipped)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics(cfg.ServiceName)
	}

	clock := clockwork.NewRealClock()
	ids := idgen.NewObjectIDGenerator()

	leagueSvc := usecase.NewLeagueService(repos.Leagues, repos.Cities, ids, clock,
		usecase.WithLeagueMetrics(metricsRecorder(metrics)),
		usecase.WithLeagueLogger(logger),
	)
	citySvc := usecase.NewCityService(repos.Cities)
	interestSvc := usecase.NewInterestService(repos.Interests, repos.Leagues, ids, clock, metricsRecorder(metrics))

	auth, err := jwtauth.NewManager(jwtauth.Config{
		Secret: cfg.AuthJWTSecret,
		Issuer: cfg.AuthJWTIssuer,
		TTL:    cfg.AuthTokenTTL,
	}, clock)
	if err != nil {
		return fmt.Errorf("build token manager: %w", err)
	}

	routerCfg := httpapi.RouterConfig{
		Handler:            httpapi.NewHandler(leagueSvc, citySvc, interestSvc, logger),
		Verifier:           auth,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InterestLimiter:    httpapi.NewIPRateLimiter(cfg.InterestRateLimit, cfg.InterestRateBurst, clock),
	}
	if metrics != nil {
		routerCfg.Metrics = metrics
		routerCfg.MetricsHandler = metrics.Handler()
	}

	a.server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(routerCfg),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	if cfg.StatusReconcileEnabled {
		sched, err := scheduler.New(logger, clock)
		if err != nil {
			return fmt.Errorf("build scheduler: %w", err)
		}
		a.scheduler = sched
		if err := sched.RegisterReconcileStatuses(cfg.StatusReconcileCron, leagueSvc, cfg.StatusReconcileWorkers); err != nil {
			return fmt.Errorf("register reconcile job: %w", err)
		}
	}

	return nil
}

// metricsRecorder keeps a nil *Metrics from becoming a non-nil interface.
func metricsRecorder(m *observability.Metrics) usecase.MetricsRecorder {
	if m == nil {
		return nil
	}
	return m
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr, "store_driver", a.cfg.StoreDriver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", "error", err)
		runErr = errors.Join(runErr, err)
	}
	if err := a.release(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}

	a.logger.Info("http server stopped")
	return runErr
}

func (a *App) release(ctx context.Context) error {
	var errs []error
	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
		}
	}
	if err := a.repos.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if err := a.debug.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.shutdownProfiler != nil {
		if err := a.shutdownProfiler(); err != nil {
			errs = append(errs, fmt.Errorf("stop pyroscope: %w", err))
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
	}
	return errors.Join(errs...)
}
