package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/tennis-league/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[string]league.League
	orders []string
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))

	for _, l := range leagues {
		if _, exists := items[l.ID]; !exists {
			orders = append(orders, l.ID)
		}
		items[l.ID] = l
	}

	return &LeagueRepository{
		items:  items,
		orders: orders,
	}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *LeagueRepository) ListByCity(_ context.Context, cityID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, id := range r.orders {
		if item := r.items[id]; item.CityID == cityID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) GetBySlug(_ context.Context, slug string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		if item := r.items[id]; item.Slug == slug {
			return item, true, nil
		}
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) GetDocument(ctx context.Context, leagueID string) (map[string]any, bool, error) {
	item, exists, err := r.GetByID(ctx, leagueID)
	if err != nil || !exists {
		return nil, exists, err
	}

	return league.Document(item), true, nil
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.orders {
		if r.items[id].Slug == item.Slug {
			return league.ErrDuplicateSlug
		}
	}
	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item

	return nil
}

func (r *LeagueRepository) UpdateStatus(_ context.Context, leagueID string, status league.Status, updatedAt time.Time) (bool, error) {
	return r.setStatus(leagueID, nil, status, updatedAt), nil
}

func (r *LeagueRepository) CompareAndSetStatus(_ context.Context, leagueID string, from, to league.Status, updatedAt time.Time) (bool, error) {
	return r.setStatus(leagueID, &from, to, updatedAt), nil
}

func (r *LeagueRepository) setStatus(leagueID string, from *league.Status, to league.Status, updatedAt time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[leagueID]
	if !ok || (from != nil && item.Status != *from) {
		return false
	}
	item.Status = to
	item.UpdatedAt = updatedAt
	r.items[leagueID] = item

	return true
}
