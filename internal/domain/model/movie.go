package model

import (
	"sort"
	"strings"
)

// Movie is the read-only projection of a catalog record. It is sourced
// entirely from the external catalog service and never persisted beyond the
// WishlistItem projection.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path,omitempty"`
	Popularity  float64 `json:"popularity,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}

// SortKey names a client-chosen ordering for catalog results.
type SortKey string

const (
	SortPopular SortKey = "popular"
	SortLatest  SortKey = "latest"
	SortRating  SortKey = "rating"
	SortTitle   SortKey = "title"
)

// Valid reports whether the sort key is one of the supported orderings.
func (k SortKey) Valid() bool {
	switch k {
	case SortPopular, SortLatest, SortRating, SortTitle:
		return true
	default:
		return false
	}
}

// SortMovies returns a new slice ordered by the given key. The input is not
// modified; an unknown key returns the service ordering unchanged.
func SortMovies(movies []Movie, key SortKey) []Movie {
	out := make([]Movie, len(movies))
	copy(out, movies)

	switch key {
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	case SortLatest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReleaseDate > out[j].ReleaseDate })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].VoteAverage > out[j].VoteAverage })
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	}

	return out
}
