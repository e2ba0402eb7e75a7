package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/tennis-league/internal/domain/interest"
)

type InterestRepository struct {
	mu       sync.RWMutex
	byLeague map[string][]interest.Interest
}

func NewInterestRepository() *InterestRepository {
	return &InterestRepository{byLeague: make(map[string][]interest.Interest)}
}

func (r *InterestRepository) Create(_ context.Context, item interest.Interest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := interest.NormalizeEmail(item.Email)
	for _, existing := range r.byLeague[item.LeagueID] {
		if interest.NormalizeEmail(existing.Email) == email {
			return interest.ErrDuplicate
		}
	}
	r.byLeague[item.LeagueID] = append(r.byLeague[item.LeagueID], item)

	return nil
}

func (r *InterestRepository) ListByLeague(_ context.Context, leagueID string) ([]interest.Interest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byLeague[leagueID]
	return append(make([]interest.Interest, 0, len(items)), items...), nil
}
