package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/tennis-league/internal/domain/city"
)

type CityRepository struct {
	mu     sync.RWMutex
	bySlug map[string]city.City
}

func NewCityRepository(cities []city.City) *CityRepository {
	bySlug := make(map[string]city.City, len(cities))
	for _, c := range cities {
		bySlug[c.Slug] = c
	}

	return &CityRepository{bySlug: bySlug}
}

func (r *CityRepository) List(_ context.Context) ([]city.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]city.City, 0, len(r.bySlug))
	for _, c := range r.bySlug {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func (r *CityRepository) GetBySlug(_ context.Context, slug string) (city.City, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.bySlug[slug]
	return c, ok, nil
}

func (r *CityRepository) Upsert(_ context.Context, item city.City) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bySlug[item.Slug] = item
	return nil
}
