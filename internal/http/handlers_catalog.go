package httpx

import (
	"context"
	"net/http"

	"github.com/pbflix/neteflix-api/internal/domain/model"
	apperrors "github.com/pbflix/neteflix-api/internal/errors"
	"github.com/pbflix/neteflix-api/internal/service"
)

// CatalogAPI is the slice of the catalog service the handlers need.
type CatalogAPI interface {
	Sections(ctx context.Context) (service.HomeSections, error)
	Search(ctx context.Context, query string, sortBy model.SortKey) ([]model.Movie, error)
	PosterURL(path string) string
}

// CatalogHandlers serves the read-only movie catalog surface.
type CatalogHandlers struct {
	Svc CatalogAPI
}

// Sections returns the three home-screen rows in one response.
func (h *CatalogHandlers) Sections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Svc.Sections(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sections)
}

// Search returns catalog matches for ?query=, optionally ordered by ?sort=.
func (h *CatalogHandlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		WriteAppError(w, apperrors.ValidationField("query", "query parameter is required"))
		return
	}

	sortBy := model.SortKey(r.URL.Query().Get("sort"))
	if sortBy != "" && !sortBy.Valid() {
		WriteAppError(w, apperrors.ValidationField("sort", "unknown sort key"))
		return
	}

	movies, err := h.Svc.Search(r.Context(), query, sortBy)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"results": movies})
}
