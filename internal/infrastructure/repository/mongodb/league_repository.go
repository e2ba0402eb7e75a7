package mongodb

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	return r.find(ctx, "find leagues", bson.D{})
}

func (r *LeagueRepository) ListByCity(ctx context.Context, cityID string) ([]league.League, error) {
	cityOID, err := objectID(cityID)
	if err != nil {
		return []league.League{}, nil
	}
	return r.find(ctx, "find leagues by city", bson.D{{Key: "cityId", Value: cityOID}})
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	oid, err := objectID(leagueID)
	if err != nil {
		return league.League{}, false, nil
	}
	return r.findOne(ctx, "find league by id", bson.D{{Key: "_id", Value: oid}})
}

func (r *LeagueRepository) GetBySlug(ctx context.Context, slug string) (league.League, bool, error) {
	return r.findOne(ctx, "find league by slug", bson.D{{Key: "slug", Value: slug}})
}

// GetDocument returns the stored document untouched: ids stay ObjectIDs and
// dates stay BSON date-times.
func (r *LeagueRepository) GetDocument(ctx context.Context, leagueID string) (map[string]any, bool, error) {
	oid, err := objectID(leagueID)
	if err != nil {
		return nil, false, nil
	}

	var raw bson.M
	err = r.store.do(ctx, "find league document", func(ctx context.Context) error {
		return r.store.collection(leaguesCollection).
			FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).
			Decode(&raw)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return map[string]any(raw), true, nil
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	doc, err := toLeagueDocument(item)
	if err != nil {
		return err
	}

	err = r.store.do(ctx, "insert league", func(ctx context.Context) error {
		_, err := r.store.collection(leaguesCollection).InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return league.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *LeagueRepository) UpdateStatus(ctx context.Context, leagueID string, status league.Status, updatedAt time.Time) (bool, error) {
	return r.setStatus(ctx, "update league status", leagueID, nil, status, updatedAt)
}

// CompareAndSetStatus writes to only while the stored status is still from.
func (r *LeagueRepository) CompareAndSetStatus(ctx context.Context, leagueID string, from, to league.Status, updatedAt time.Time) (bool, error) {
	return r.setStatus(ctx, "compare and set league status", leagueID, &from, to, updatedAt)
}

func (r *LeagueRepository) setStatus(ctx context.Context, op, leagueID string, from *league.Status, to league.Status, updatedAt time.Time) (bool, error) {
	oid, err := objectID(leagueID)
	if err != nil {
		return false, nil
	}

	filter := bson.D{{Key: "_id", Value: oid}}
	if from != nil {
		filter = append(filter, bson.E{Key: "status", Value: string(*from)})
	}

	var matched int64
	err = r.store.do(ctx, op, func(ctx context.Context) error {
		res, err := r.store.collection(leaguesCollection).UpdateOne(ctx, filter,
			bson.D{{Key: "$set", Value: bson.D{
				{Key: "status", Value: string(to)},
				{Key: "updatedAt", Value: updatedAt.UTC()},
			}}},
		)
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})
	if err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (r *LeagueRepository) find(ctx context.Context, op string, filter bson.D) ([]league.League, error) {
	var docs []leagueDocument
	err := r.store.do(ctx, op, func(ctx context.Context) error {
		cursor, err := r.store.collection(leaguesCollection).Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}

	out := make([]league.League, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (r *LeagueRepository) findOne(ctx context.Context, op string, filter bson.D) (league.League, bool, error) {
	var doc leagueDocument
	err := r.store.do(ctx, op, func(ctx context.Context) error {
		return r.store.collection(leaguesCollection).FindOne(ctx, filter).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return league.League{}, false, nil
		}
		return league.League{}, false, err
	}
	return doc.toDomain(), true, nil
}
