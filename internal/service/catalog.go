package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pbflix/neteflix-api/internal/domain/model"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// Home-screen section sizes match the original client layout: ten cards per
// carousel row, twelve results per search page.
const (
	sectionSize      = 10
	searchResultSize = 12
)

// HomeSections groups the three concurrent home-screen fetches.
type HomeSections struct {
	Popular    []model.Movie `json:"popular"`
	NowPlaying []model.Movie `json:"now_playing"`
	TopRated   []model.Movie `json:"top_rated"`
}

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	Gateway ports.CatalogGateway
	Cache   ports.CacheRepository
	Logger  *slog.Logger
}

// CatalogService fronts the external movie catalog for the client screens. It
// issues the three home sections concurrently and caches the combined result;
// any section failing fails the whole load as one aggregate error.
type CatalogService struct {
	gateway    ports.CatalogGateway
	cache      ports.CacheRepository
	logger     *slog.Logger
	sectionTTL time.Duration
}

// NewCatalogService constructs a new CatalogService. Cache is optional; when
// absent every load goes to the upstream service.
func NewCatalogService(opts CatalogServiceOptions, sectionTTL time.Duration) *CatalogService {
	if opts.Gateway == nil {
		panic("CatalogService: catalog gateway is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		gateway:    opts.Gateway,
		cache:      opts.Cache,
		logger:     logger,
		sectionTTL: sectionTTL,
	}
}

// sectionsCacheKey versions the cached home payload shape.
const sectionsCacheKey = "catalog:sections:v1"

// Sections returns the three home-screen rows. All three fetches run
// concurrently and must all succeed; a failure surfaces once, with no partial
// results.
func (s *CatalogService) Sections(ctx context.Context) (HomeSections, error) {
	if cached, ok := s.readCachedSections(ctx); ok {
		return cached, nil
	}

	var sections HomeSections
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movies, err := s.gateway.Popular(gctx)
		if err != nil {
			return err
		}
		sections.Popular = capMovies(movies, sectionSize)
		return nil
	})
	g.Go(func() error {
		movies, err := s.gateway.NowPlaying(gctx)
		if err != nil {
			return err
		}
		sections.NowPlaying = capMovies(movies, sectionSize)
		return nil
	})
	g.Go(func() error {
		movies, err := s.gateway.TopRated(gctx)
		if err != nil {
			return err
		}
		sections.TopRated = capMovies(movies, sectionSize)
		return nil
	})
	if err := g.Wait(); err != nil {
		return HomeSections{}, err
	}

	s.writeCachedSections(ctx, sections)
	return sections, nil
}

// Search returns up to twelve matches, optionally re-sorted by a
// client-chosen key. An invalid key keeps the service's own ordering.
func (s *CatalogService) Search(ctx context.Context, query string, sortBy model.SortKey) ([]model.Movie, error) {
	movies, err := s.gateway.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	movies = capMovies(movies, searchResultSize)
	if sortBy.Valid() {
		movies = model.SortMovies(movies, sortBy)
	}
	return movies, nil
}

// PosterURL resolves a poster path via the gateway's fixed image base.
func (s *CatalogService) PosterURL(path string) string {
	return s.gateway.PosterURL(path)
}

func (s *CatalogService) readCachedSections(ctx context.Context) (HomeSections, bool) {
	if s.cache == nil || s.sectionTTL <= 0 {
		return HomeSections{}, false
	}

	raw, err := s.cache.Get(ctx, sectionsCacheKey)
	if err != nil {
		s.logger.WarnContext(ctx, "sections cache read failed", "err", err)
		return HomeSections{}, false
	}
	if raw == nil {
		return HomeSections{}, false
	}

	var sections HomeSections
	if err := json.Unmarshal(raw, &sections); err != nil {
		s.logger.WarnContext(ctx, "sections cache payload corrupt", "err", err)
		return HomeSections{}, false
	}
	return sections, true
}

func (s *CatalogService) writeCachedSections(ctx context.Context, sections HomeSections) {
	if s.cache == nil || s.sectionTTL <= 0 {
		return
	}

	raw, err := json.Marshal(sections)
	if err != nil {
		s.logger.WarnContext(ctx, "sections cache encode failed", "err", err)
		return
	}
	if err := s.cache.Set(ctx, sectionsCacheKey, raw, s.sectionTTL); err != nil {
		s.logger.WarnContext(ctx, "sections cache write failed", "err", err)
	}
}

func capMovies(movies []model.Movie, limit int) []model.Movie {
	if len(movies) > limit {
		return movies[:limit]
	}
	return movies
}
