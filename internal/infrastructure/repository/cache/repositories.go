// Package cache decorates city and league repositories with the TTL read
// cache. Interests are never cached.
package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/tennis-league/internal/domain/city"
	"github.com/riskibarqy/tennis-league/internal/domain/league"
	basecache "github.com/riskibarqy/tennis-league/internal/platform/cache"
)

const (
	leagueKeyPrefix = "league:"
	cityKeyPrefix   = "city:"
)

// lookup keeps misses in the cache so repeated requests for an unknown slug
// stay off the store until the next write.
type lookup[T any] struct {
	value  T
	exists bool
}

func cachedSlice[T any](ctx context.Context, store *basecache.Store, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	items, err := basecache.Load(ctx, store, key, func(ctx context.Context) ([]T, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]T(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]T(nil), items...), nil
}

func cachedLookup[T any](ctx context.Context, store *basecache.Store, key string, load func(context.Context) (T, bool, error)) (T, bool, error) {
	hit, err := basecache.Load(ctx, store, key, func(ctx context.Context) (lookup[T], error) {
		value, exists, err := load(ctx)
		return lookup[T]{value: value, exists: exists}, err
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return hit.value, hit.exists, nil
}

// LeagueRepository caches league reads. Any write drops every cached league
// key. Raw documents are never cached.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	return cachedSlice(ctx, r.cache, leagueKeyPrefix+"list", r.next.List)
}

func (r *LeagueRepository) ListByCity(ctx context.Context, cityID string) ([]league.League, error) {
	return cachedSlice(ctx, r.cache, leagueKeyPrefix+"city:"+cityID, func(ctx context.Context) ([]league.League, error) {
		return r.next.ListByCity(ctx, cityID)
	})
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return cachedLookup(ctx, r.cache, leagueKeyPrefix+"id:"+leagueID, func(ctx context.Context) (league.League, bool, error) {
		return r.next.GetByID(ctx, leagueID)
	})
}

func (r *LeagueRepository) GetBySlug(ctx context.Context, slug string) (league.League, bool, error) {
	return cachedLookup(ctx, r.cache, leagueKeyPrefix+"slug:"+slug, func(ctx context.Context) (league.League, bool, error) {
		return r.next.GetBySlug(ctx, slug)
	})
}

func (r *LeagueRepository) GetDocument(ctx context.Context, leagueID string) (map[string]any, bool, error) {
	return r.next.GetDocument(ctx, leagueID)
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) error {
	defer r.cache.DeletePrefix(ctx, leagueKeyPrefix)
	return r.next.Create(ctx, item)
}

func (r *LeagueRepository) UpdateStatus(ctx context.Context, leagueID string, status league.Status, updatedAt time.Time) (bool, error) {
	defer r.cache.DeletePrefix(ctx, leagueKeyPrefix)
	return r.next.UpdateStatus(ctx, leagueID, status, updatedAt)
}

func (r *LeagueRepository) CompareAndSetStatus(ctx context.Context, leagueID string, from, to league.Status, updatedAt time.Time) (bool, error) {
	defer r.cache.DeletePrefix(ctx, leagueKeyPrefix)
	return r.next.CompareAndSetStatus(ctx, leagueID, from, to, updatedAt)
}

type CityRepository struct {
	next  city.Repository
	cache *basecache.Store
}

func NewCityRepository(next city.Repository, cache *basecache.Store) *CityRepository {
	return &CityRepository{next: next, cache: cache}
}

func (r *CityRepository) List(ctx context.Context) ([]city.City, error) {
	return cachedSlice(ctx, r.cache, cityKeyPrefix+"list", r.next.List)
}

func (r *CityRepository) GetBySlug(ctx context.Context, slug string) (city.City, bool, error) {
	return cachedLookup(ctx, r.cache, cityKeyPrefix+"slug:"+slug, func(ctx context.Context) (city.City, bool, error) {
		return r.next.GetBySlug(ctx, slug)
	})
}

func (r *CityRepository) Upsert(ctx context.Context, item city.City) error {
	defer r.cache.DeletePrefix(ctx, cityKeyPrefix)
	return r.next.Upsert(ctx, item)
}
