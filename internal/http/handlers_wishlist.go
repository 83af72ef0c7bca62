package httpx

import (
	"context"
	"net/http"

	"github.com/pbflix/neteflix-api/internal/domain/model"
	apperrors "github.com/pbflix/neteflix-api/internal/errors"
)

// WishlistAPI is the slice of the wishlist service the handlers need.
type WishlistAPI interface {
	Load(ctx context.Context, userID string) []model.WishlistItem
	Toggle(ctx context.Context, userID string, movie model.Movie) (bool, []model.WishlistItem, error)
}

// WishlistHandlers serves the per-user saved movie set.
type WishlistHandlers struct {
	Svc      WishlistAPI
	Sessions SessionAPI
}

type toggleResponse struct {
	Added bool                 `json:"added"`
	Items []model.WishlistItem `json:"items"`
}

// List returns the active user's wishlist ordered by title.
func (h *WishlistHandlers) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.Sessions.ActiveUserID(ctx)
	if !ok {
		WriteAppError(w, apperrors.Unauthorized("You must be logged in to view your wishlist."))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"items": h.Svc.Load(ctx, userID)})
}

// Toggle flips a movie's wishlist membership for the active user.
func (h *WishlistHandlers) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.Sessions.ActiveUserID(ctx)
	if !ok {
		WriteAppError(w, apperrors.Unauthorized("You must be logged in to manage your wishlist."))
		return
	}

	var movie model.Movie
	if !DecodeJSON(w, r, &movie) {
		return
	}

	added, items, err := h.Svc.Toggle(ctx, userID, movie)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toggleResponse{Added: added, Items: items})
}
