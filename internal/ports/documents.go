package ports

import (
	"context"
	"time"
)

// Direction orders a document query.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Document is a stored record with its opaque reference.
type Document struct {
	// Ref uniquely identifies the document for deletion.
	Ref       string
	Fields    map[string]any
	CreatedAt time.Time
}

// DocumentStore is the path-addressed hosted document database. Collections
// are namespaced by path; wishlist items live under "wishlists/{userId}/items"
// and notes in a single flat collection.
type DocumentStore interface {
	// Add appends a new document to the collection at path and returns its ref.
	Add(ctx context.Context, path string, fields map[string]any) (string, error)

	// QueryOrdered returns every document in the collection at path ordered by
	// the given field. An empty collection yields an empty slice.
	QueryOrdered(ctx context.Context, path, field string, dir Direction) ([]Document, error)

	// Delete removes the document identified by ref.
	Delete(ctx context.Context, ref string) error
}
