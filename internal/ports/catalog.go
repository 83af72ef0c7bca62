package ports

import (
	"context"

	"github.com/pbflix/neteflix-api/internal/domain/model"
)

// CatalogGateway is the read-only accessor over the external movie catalog.
// Each call returns the service's own ordering; failures surface as a single
// aggregate error with no partial results.
type CatalogGateway interface {
	Popular(ctx context.Context) ([]model.Movie, error)
	NowPlaying(ctx context.Context) ([]model.Movie, error)
	TopRated(ctx context.Context) ([]model.Movie, error)
	Search(ctx context.Context, query string) ([]model.Movie, error)

	// PosterURL resolves a returned poster path against the fixed image base
	// URL. An empty path resolves to an empty URL.
	PosterURL(path string) string
}
