package interest

import (
	"context"
	"errors"
)

var ErrDuplicate = errors.New("interest already registered")

// Repository describes interest persistence needs from use cases.
type Repository interface {
	// Create returns ErrDuplicate when the email is already registered for the league.
	Create(ctx context.Context, item Interest) error
	ListByLeague(ctx context.Context, leagueID string) ([]Interest, error)
}
