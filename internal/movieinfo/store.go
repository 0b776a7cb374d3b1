package movieinfo

import "context"

// Store persists movie infos. Implementations must be safe for concurrent
// use.
type Store interface {
	// Each calls fn for every matching movie until fn returns an error,
	// which Each returns.
	Each(ctx context.Context, filter Filter, fn func(MovieInfo) error) error
	// Get returns ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (MovieInfo, error)
	// Save inserts or replaces the movie with m.ID.
	Save(ctx context.Context, m MovieInfo) error
	// Delete removes id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
