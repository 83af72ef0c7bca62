// Package devseed loads demo documents into a development database so the
// client screens have something to render before any real account exists.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pbflix/neteflix-api/internal/data"
	apperrors "github.com/pbflix/neteflix-api/internal/errors"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// DemoUserID is the account the seeded wishlist belongs to.
const DemoUserID = "demo@example.com"

type seedMovie struct {
	id     int
	title  string
	poster string
}

var demoWishlist = []seedMovie{
	{id: 278, title: "The Shawshank Redemption", poster: "/q6y0Go1tsGEsmtFryDOJo3dEmqu.jpg"},
	{id: 238, title: "The Godfather", poster: "/3bhkrj58Vtu7enYsRolD1fZdja1.jpg"},
	{id: 680, title: "Pulp Fiction", poster: "/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg"},
	{id: 27205, title: "Inception", poster: "/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg"},
}

var demoNotes = []string{
	"Movie night is Friday, pick something from the wishlist.",
	"The search sort dropdown now supports rating and title.",
}

// Run seeds the demo wishlist and note log. Seeding is idempotent: documents
// that already exist are skipped, not duplicated.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	docs := data.NewDocumentStore(db)

	seeded := 0
	path := fmt.Sprintf("wishlists/%s/items", DemoUserID)
	for _, m := range demoWishlist {
		_, err := docs.Add(ctx, path, map[string]any{
			"id":     m.id,
			"title":  m.title,
			"poster": m.poster,
		})
		switch {
		case err == nil:
			seeded++
		case apperrors.IsConflict(err):
			// Already seeded.
		default:
			return fmt.Errorf("seed wishlist item %q: %w", m.title, err)
		}
	}
	logger.InfoContext(ctx, "wishlist seeded", "user", DemoUserID, "added", seeded, "total", len(demoWishlist))

	noteCount, err := seedNotes(ctx, docs)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "notes seeded", "added", noteCount)

	return nil
}

func seedNotes(ctx context.Context, docs *data.DocumentStore) (int, error) {
	existing, err := docs.QueryOrdered(ctx, "notes", "createdAt", ports.Ascending)
	if err != nil {
		return 0, fmt.Errorf("read note log: %w", err)
	}

	present := make(map[string]bool, len(existing))
	for _, doc := range existing {
		if text, ok := doc.Fields["text"].(string); ok {
			present[text] = true
		}
	}

	added := 0
	for _, text := range demoNotes {
		if present[text] {
			continue
		}
		if _, err = docs.Add(ctx, "notes", map[string]any{"text": text, "uid": DemoUserID}); err != nil {
			return added, fmt.Errorf("seed note: %w", err)
		}
		added++
	}
	return added, nil
}
