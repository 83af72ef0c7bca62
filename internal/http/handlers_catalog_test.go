package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbflix/neteflix-api/internal/domain/model"
	apperrors "github.com/pbflix/neteflix-api/internal/errors"
	"github.com/pbflix/neteflix-api/internal/service"
)

func TestCatalogSections(t *testing.T) {
	fake := &fakeCatalogAPI{Home: service.HomeSections{
		Popular:    []model.Movie{{ID: 1, Title: "Alien"}},
		NowPlaying: []model.Movie{{ID: 2, Title: "Dune"}},
		TopRated:   []model.Movie{{ID: 3, Title: "Heat"}},
	}}
	h := &CatalogHandlers{Svc: fake}

	r := httptest.NewRequest(http.MethodGet, "/api/catalog/sections", nil)
	w := httptest.NewRecorder()

	h.Sections(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	require.Contains(t, got, "popular")
	require.Contains(t, got, "now_playing")
	require.Contains(t, got, "top_rated")
}

func TestCatalogSections_UpstreamFailure(t *testing.T) {
	fake := &fakeCatalogAPI{SectionsErr: apperrors.Unavailable("catalog service unreachable")}
	h := &CatalogHandlers{Svc: fake}

	r := httptest.NewRequest(http.MethodGet, "/api/catalog/sections", nil)
	w := httptest.NewRecorder()

	h.Sections(w, r)

	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCatalogSearch(t *testing.T) {
	fake := &fakeCatalogAPI{Results: []model.Movie{{ID: 603, Title: "The Matrix"}}}
	h := &CatalogHandlers{Svc: fake}

	r := httptest.NewRequest(http.MethodGet, "/api/catalog/search?query=matrix&sort=rating", nil)
	w := httptest.NewRecorder()

	h.Search(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "matrix", fake.LastQuery)
	assert.Equal(t, model.SortRating, fake.LastSort)

	got := decodeBody(t, w)
	results, ok := got["results"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 1)
}

func TestCatalogSearch_RequiresQuery(t *testing.T) {
	h := &CatalogHandlers{Svc: &fakeCatalogAPI{}}

	r := httptest.NewRequest(http.MethodGet, "/api/catalog/search", nil)
	w := httptest.NewRecorder()

	h.Search(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "query", got["field"])
}

func TestCatalogSearch_RejectsUnknownSort(t *testing.T) {
	h := &CatalogHandlers{Svc: &fakeCatalogAPI{}}

	r := httptest.NewRequest(http.MethodGet, "/api/catalog/search?query=matrix&sort=runtime", nil)
	w := httptest.NewRecorder()

	h.Search(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "sort", got["field"])
}
