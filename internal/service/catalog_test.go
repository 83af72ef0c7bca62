package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/mock/gomock"

	"github.com/pbflix/neteflix-api/internal/domain/model"
	"github.com/pbflix/neteflix-api/internal/mocks"
	catmocks "github.com/pbflix/neteflix-api/internal/mocks/catalog"
)

func manyMovies(prefix string, n int) []model.Movie {
	out := make([]model.Movie, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Movie{ID: i, Title: fmt.Sprintf("%s %02d", prefix, i)})
	}
	return out
}

func TestSectionsFetchesAllThreeConcurrently(t *testing.T) {
	gw := catmocks.NewMockCatalogGateway()
	gw.PopularMovies = manyMovies("Popular", 20)
	gw.NowPlayingMovies = manyMovies("Now", 5)
	gw.TopRatedMovies = manyMovies("Top", 12)

	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw}, 0)

	sections, err := svc.Sections(context.Background())
	require.NoError(t, err)
	assert.Len(t, sections.Popular, 10)
	assert.Len(t, sections.NowPlaying, 5)
	assert.Len(t, sections.TopRated, 10)
	assert.Equal(t, 1, gw.Calls("popular"))
	assert.Equal(t, 1, gw.Calls("now_playing"))
	assert.Equal(t, 1, gw.Calls("top_rated"))
}

func TestSectionsAggregateFailure(t *testing.T) {
	gw := catmocks.NewMockCatalogGateway()
	gw.PopularMovies = manyMovies("Popular", 3)
	gw.TopRatedErr = assert.AnError

	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw}, 0)

	sections, err := svc.Sections(context.Background())
	require.Error(t, err)
	assert.Empty(t, sections.Popular)
	assert.Empty(t, sections.NowPlaying)
	assert.Empty(t, sections.TopRated)
}

func TestSectionsServedFromCache(t *testing.T) {
	gw := catmocks.NewMockCatalogGateway()
	gw.PopularMovies = manyMovies("Popular", 3)
	cache := catmocks.NewMemoryCache()

	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw, Cache: cache}, 5*time.Minute)
	ctx := context.Background()

	first, err := svc.Sections(ctx)
	require.NoError(t, err)
	second, err := svc.Sections(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gw.Calls("popular"))
}

func TestSectionsCacheFailureFallsThrough(t *testing.T) {
	gw := catmocks.NewMockCatalogGateway()
	gw.PopularMovies = manyMovies("Popular", 3)
	cache := catmocks.NewMemoryCache()
	cache.GetErr = assert.AnError

	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw, Cache: cache}, 5*time.Minute)

	_, err := svc.Sections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, gw.Calls("popular"))
}

func TestSearchCapsResults(t *testing.T) {
	gw := catmocks.NewMockCatalogGateway()
	gw.SearchMovies = manyMovies("Match", 30)

	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw}, 0)

	movies, err := svc.Search(context.Background(), "match", "")
	require.NoError(t, err)
	assert.Len(t, movies, 12)
}

func TestSearchSortsByClientKey(t *testing.T) {
	gw := catmocks.NewMockCatalogGateway()
	gw.SearchMovies = []model.Movie{
		{ID: 1, Title: "Zodiac", VoteAverage: 7.7},
		{ID: 2, Title: "Alien", VoteAverage: 8.5},
	}

	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw}, 0)
	ctx := context.Background()

	byRating, err := svc.Search(ctx, "x", model.SortRating)
	require.NoError(t, err)
	assert.Equal(t, "Alien", byRating[0].Title)

	byTitle, err := svc.Search(ctx, "x", model.SortTitle)
	require.NoError(t, err)
	assert.Equal(t, "Alien", byTitle[0].Title)

	// An unknown key keeps the service ordering.
	unsorted, err := svc.Search(ctx, "x", model.SortKey("wat"))
	require.NoError(t, err)
	assert.Equal(t, "Zodiac", unsorted[0].Title)
}

func TestSearchPropagatesGatewayError(t *testing.T) {
	gw := catmocks.NewMockCatalogGateway()
	gw.SearchErr = assert.AnError

	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw}, 0)

	_, err := svc.Search(context.Background(), "x", "")
	assert.Error(t, err)
}

func TestPosterURLDelegates(t *testing.T) {
	gw := catmocks.NewMockCatalogGateway()
	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw}, 0)

	assert.Equal(t, "https://img.example/a.jpg", svc.PosterURL("/a.jpg"))
	assert.Empty(t, svc.PosterURL(""))
}

func TestSectionsWritesCacheWithConfiguredTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gw := catmocks.NewMockCatalogGateway()
	gw.PopularMovies = manyMovies("Popular", 3)

	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().Get(gomock.Any(), sectionsCacheKey).Return(nil, nil)
	cache.EXPECT().
		Set(gomock.Any(), sectionsCacheKey, gomock.Any(), 10*time.Minute).
		Return(nil)

	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw, Cache: cache}, 10*time.Minute)

	_, err := svc.Sections(context.Background())
	require.NoError(t, err)
}
