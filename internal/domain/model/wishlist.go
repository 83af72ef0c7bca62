package model

import "errors"

// WishlistItem identifies a movie saved by a user. Items are created when a
// movie is toggled on and deleted when toggled off; there is no in-place
// update. The catalog ID is unique within one user's wishlist.
type WishlistItem struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Poster string `json:"poster,omitempty"`
}

// Validate checks the invariants for a wishlist item before it is stored.
func (w WishlistItem) Validate() error {
	if w.ID <= 0 {
		return errors.New("wishlist item requires a positive catalog id")
	}
	if w.Title == "" {
		return errors.New("wishlist item requires a title")
	}
	return nil
}

// ItemFromMovie projects a catalog movie into its wishlist form.
func ItemFromMovie(m Movie, posterURL string) WishlistItem {
	return WishlistItem{ID: m.ID, Title: m.Title, Poster: posterURL}
}
