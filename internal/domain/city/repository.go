package city

import "context"

// Repository describes city persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]City, error)
	GetBySlug(ctx context.Context, slug string) (City, bool, error)
	Upsert(ctx context.Context, item City) error
}
