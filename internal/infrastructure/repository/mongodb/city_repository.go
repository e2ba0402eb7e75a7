package mongodb

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/tennis-league/internal/domain/city"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CityRepository struct {
	store *Store
}

func NewCityRepository(store *Store) *CityRepository {
	return &CityRepository{store: store}
}

func (r *CityRepository) List(ctx context.Context) ([]city.City, error) {
	var docs []cityDocument
	err := r.store.do(ctx, "find cities", func(ctx context.Context) error {
		cursor, err := r.store.collection(citiesCollection).Find(ctx, bson.D{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			return err
		}
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}

	out := make([]city.City, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (r *CityRepository) GetBySlug(ctx context.Context, slug string) (city.City, bool, error) {
	var doc cityDocument
	err := r.store.do(ctx, "find city by slug", func(ctx context.Context) error {
		return r.store.collection(citiesCollection).
			FindOne(ctx, bson.D{{Key: "slug", Value: slug}}).
			Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return city.City{}, false, nil
		}
		return city.City{}, false, err
	}
	return doc.toDomain(), true, nil
}

func (r *CityRepository) Upsert(ctx context.Context, item city.City) error {
	doc, err := toCityDocument(item)
	if err != nil {
		return err
	}

	return r.store.do(ctx, "upsert city", func(ctx context.Context) error {
		_, err := r.store.collection(citiesCollection).ReplaceOne(ctx,
			bson.D{{Key: "_id", Value: doc.ID}},
			doc,
			options.Replace().SetUpsert(true),
		)
		return err
	})
}
