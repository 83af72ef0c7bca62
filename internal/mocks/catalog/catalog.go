package catalog

// Package catalog contains hand-written doubles for the catalog gateway and
// the section cache.

import (
	"context"
	"sync"
	"time"

	"github.com/pbflix/neteflix-api/internal/domain/model"
	"github.com/pbflix/neteflix-api/internal/ports"
)

var (
	_ ports.CatalogGateway  = (*MockCatalogGateway)(nil)
	_ ports.CacheRepository = (*MemoryCache)(nil)
)

// MockCatalogGateway serves canned movie lists and counts calls so tests can
// assert cache hits skip the upstream.
type MockCatalogGateway struct {
	PopularMovies    []model.Movie
	NowPlayingMovies []model.Movie
	TopRatedMovies   []model.Movie
	SearchMovies     []model.Movie

	PopularErr    error
	NowPlayingErr error
	TopRatedErr   error
	SearchErr     error

	ImageBase string

	mu    sync.Mutex
	calls map[string]int
}

// NewMockCatalogGateway creates an empty gateway double.
func NewMockCatalogGateway() *MockCatalogGateway {
	return &MockCatalogGateway{
		ImageBase: "https://img.example",
		calls:     make(map[string]int),
	}
}

func (m *MockCatalogGateway) Popular(ctx context.Context) ([]model.Movie, error) {
	m.record("popular")
	return m.PopularMovies, m.PopularErr
}

func (m *MockCatalogGateway) NowPlaying(ctx context.Context) ([]model.Movie, error) {
	m.record("now_playing")
	return m.NowPlayingMovies, m.NowPlayingErr
}

func (m *MockCatalogGateway) TopRated(ctx context.Context) ([]model.Movie, error) {
	m.record("top_rated")
	return m.TopRatedMovies, m.TopRatedErr
}

func (m *MockCatalogGateway) Search(ctx context.Context, query string) ([]model.Movie, error) {
	m.record("search")
	return m.SearchMovies, m.SearchErr
}

func (m *MockCatalogGateway) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return m.ImageBase + path
}

// Calls reports how many times the named operation ran.
func (m *MockCatalogGateway) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockCatalogGateway) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
}

// MemoryCache is a TTL-less in-memory cache double.
type MemoryCache struct {
	SetErr error
	GetErr error

	mu     sync.Mutex
	values map[string][]byte
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[string][]byte)}
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.SetErr != nil {
		return c.SetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]byte, len(value))
	copy(copied, value)
	c.values[key] = copied
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	delete(c.values, key)
	return ok, nil
}
