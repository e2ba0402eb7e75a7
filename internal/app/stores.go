package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/tennis-league/internal/config"
	"github.com/riskibarqy/tennis-league/internal/domain/city"
	"github.com/riskibarqy/tennis-league/internal/domain/interest"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/repository/mongodb"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tennis-league/internal/infrastructure/seed"
	basecache "github.com/riskibarqy/tennis-league/internal/platform/cache"
	"github.com/riskibarqy/tennis-league/internal/platform/logging"
	"github.com/riskibarqy/tennis-league/internal/platform/resilience"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

// Repositories is the persistence layer selected by STORE_DRIVER.
type Repositories struct {
	Cities    city.Repository
	Leagues   league.Repository
	Interests interest.Repository

	close func(context.Context) error
}

func (r *Repositories) Close(ctx context.Context) error {
	if r == nil || r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// OpenRepositories connects the configured store and wraps reads in the TTL
// cache when enabled. The memory store starts from the bundled fixture.
func OpenRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Repositories, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		repos *Repositories
		err   error
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		repos, err = openMemory()
	case config.StoreMongo:
		repos, err = openMongo(ctx, cfg, logger)
	case config.StorePostgres:
		repos, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled && cfg.StoreDriver != config.StoreMemory {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.Cities = cache.NewCityRepository(repos.Cities, store)
		repos.Leagues = cache.NewLeagueRepository(repos.Leagues, store)
	}

	logger.Info("repositories ready", "store_driver", cfg.StoreDriver, "cache_enabled", cfg.CacheEnabled)
	return repos, nil
}

func openMemory() (*Repositories, error) {
	data, err := seed.Default(clockNow())
	if err != nil {
		return nil, fmt.Errorf("load default fixture: %w", err)
	}

	return &Repositories{
		Cities:    memory.NewCityRepository(data.Cities),
		Leagues:   memory.NewLeagueRepository(data.Leagues),
		Interests: memory.NewInterestRepository(),
	}, nil
}

func openMongo(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Repositories, error) {
	breaker := cfg.MongoCircuit
	breaker.Name = "mongo"
	breaker.OnStateChange = func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", string(from), "to", string(to))
	}

	store, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
		Timeout:  cfg.MongoTimeout,
		Breaker:  breaker,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}

	return &Repositories{
		Cities:    mongodb.NewCityRepository(store),
		Leagues:   mongodb.NewLeagueRepository(store),
		Interests: mongodb.NewInterestRepository(store),
		close:     store.Close,
	}, nil
}

func openPostgres(cfg config.Config) (*Repositories, error) {
	db, err := openPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Cities:    postgres.NewCityRepository(db),
		Leagues:   postgres.NewLeagueRepository(db),
		Interests: postgres.NewInterestRepository(db),
		close: func(context.Context) error {
			return db.Close()
		},
	}, nil
}

func openPostgresDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := PostgresDSN(cfg)
	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(postgresDBName(dsn)),
		otelsql.WithAttributes(attribute.String("service.name", cfg.ServiceName)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB, opts...)

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}
