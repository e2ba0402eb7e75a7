// Package mongodb stores cities, leagues and interests in MongoDB. League
// documents are kept in the same shape pages read them back in.
package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tennis-league/internal/platform/resilience"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	citiesCollection    = "cities"
	leaguesCollection   = "leagues"
	interestsCollection = "league_interests"

	defaultTimeout = 5 * time.Second
)

var storeTracer = otel.Tracer("tennis-league/internal/infrastructure/repository/mongodb")

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
	Breaker  resilience.CircuitBreakerConfig
}

type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	breaker *resilience.CircuitBreaker
}

func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, errors.New("mongo uri is required")
	}
	if strings.TrimSpace(cfg.Database) == "" {
		return nil, errors.New("mongo database is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	store := &Store{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: cfg.Timeout,
		breaker: resilience.NewCircuitBreakerFromConfig(cfg.Breaker),
	}
	if err := store.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return store, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.do(ctx, "ping", func(ctx context.Context) error {
		return s.client.Ping(ctx, readpref.Primary())
	})
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, "disconnect mongo")
	}
	return nil
}

// EnsureIndexes creates the lookup and uniqueness indexes the repositories
// rely on. It is safe to call on every start.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		citiesCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		leaguesCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "cityId", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		interestsCollection: {
			{
				Keys:    bson.D{{Key: "leagueId", Value: 1}, {Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for collection, models := range specs {
		err := s.do(ctx, "create indexes "+collection, func(ctx context.Context) error {
			_, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// do runs one driver call under the store timeout, a span and the circuit
// breaker. Driver errors come back wrapped with the operation name.
func (s *Store) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := storeTracer.Start(ctx, "mongodb."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.operation", op),
	)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := s.breaker.Execute(func() error {
		return fn(ctx)
	}, isBreakerFailure)
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return errors.Wrapf(err, "mongo %s", op)
}

// isBreakerFailure reports errors that say something about server health.
// Missing documents, duplicate keys and caller cancellation do not.
func isBreakerFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, mongo.ErrNoDocuments):
		return false
	case mongo.IsDuplicateKeyError(err):
		return false
	case errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}
