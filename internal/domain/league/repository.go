package league

import (
	"context"
	"errors"
	"time"
)

var ErrDuplicateSlug = errors.New("league slug already exists")

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	ListByCity(ctx context.Context, cityID string) ([]League, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetBySlug(ctx context.Context, slug string) (League, bool, error)
	// GetDocument returns the league as stored, including fields the League
	// type does not model.
	GetDocument(ctx context.Context, leagueID string) (map[string]any, bool, error)
	Create(ctx context.Context, item League) error
	UpdateStatus(ctx context.Context, leagueID string, status Status, updatedAt time.Time) (bool, error)
	// CompareAndSetStatus updates the status only while it still equals from.
	// It reports false when the league is missing or its status moved on.
	CompareAndSetStatus(ctx context.Context, leagueID string, from, to Status, updatedAt time.Time) (bool, error)
}
