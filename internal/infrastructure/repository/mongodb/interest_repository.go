package mongodb

import (
	"context"

	"github.com/riskibarqy/tennis-league/internal/domain/interest"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InterestRepository struct {
	store *Store
}

func NewInterestRepository(store *Store) *InterestRepository {
	return &InterestRepository{store: store}
}

func (r *InterestRepository) Create(ctx context.Context, item interest.Interest) error {
	doc, err := toInterestDocument(item)
	if err != nil {
		return err
	}

	err = r.store.do(ctx, "insert interest", func(ctx context.Context) error {
		_, err := r.store.collection(interestsCollection).InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interest.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *InterestRepository) ListByLeague(ctx context.Context, leagueID string) ([]interest.Interest, error) {
	leagueOID, err := objectID(leagueID)
	if err != nil {
		return []interest.Interest{}, nil
	}

	var docs []interestDocument
	err = r.store.do(ctx, "find interests", func(ctx context.Context) error {
		cursor, err := r.store.collection(interestsCollection).Find(ctx,
			bson.D{{Key: "leagueId", Value: leagueOID}},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}

	out := make([]interest.Interest, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}
