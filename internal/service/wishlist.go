package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/pbflix/neteflix-api/internal/domain/model"
	apperrors "github.com/pbflix/neteflix-api/internal/errors"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// msgMustBeLoggedIn rejects wishlist mutations without an active session.
const msgMustBeLoggedIn = "You must be logged in to manage your wishlist."

// SessionChecker reports the live provider-held user, used to gate wishlist
// access. Satisfied by SessionService.
type SessionChecker interface {
	ActiveUserID(ctx context.Context) (string, bool)
}

// WishlistServiceOptions groups dependencies for WishlistService.
type WishlistServiceOptions struct {
	Docs     ports.DocumentStore
	Sessions SessionChecker
	Logger   *slog.Logger
}

// WishlistService keeps one user's saved movie set consistent between the
// remote document collection and the local membership view. The remote write
// is always awaited before the local view changes.
type WishlistService struct {
	docs     ports.DocumentStore
	sessions SessionChecker
	logger   *slog.Logger

	// mu serializes toggles so a rapid double-invocation re-reads current
	// membership instead of trusting a stale snapshot.
	mu     sync.Mutex
	userID string
	items  []model.WishlistItem
}

// NewWishlistService constructs a new WishlistService.
func NewWishlistService(opts WishlistServiceOptions) *WishlistService {
	if opts.Docs == nil {
		panic("WishlistService: document store is required")
	}
	if opts.Sessions == nil {
		panic("WishlistService: session checker is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WishlistService{
		docs:     opts.Docs,
		sessions: opts.Sessions,
		logger:   logger,
	}
}

// wishlistPath namespaces wishlist documents per user at the storage-path
// level. One user's service instance never touches another user's path.
func wishlistPath(userID string) string {
	return fmt.Sprintf("wishlists/%s/items", userID)
}

// Load fetches the user's wishlist ordered by title ascending. A user with no
// saved items gets an empty slice; a transport failure is logged and degrades
// to an empty slice so the rest of the screen still renders. The result is
// discarded if the active session changed while the load was in flight.
func (s *WishlistService) Load(ctx context.Context, userID string) []model.WishlistItem {
	if userID == "" {
		return []model.WishlistItem{}
	}

	items, err := s.fetchRemote(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "wishlist load failed", "user_id", userID, "err", err)
		return []model.WishlistItem{}
	}

	// Guard against a logout or user switch racing the load.
	if active, ok := s.sessions.ActiveUserID(ctx); !ok || active != userID {
		s.logger.InfoContext(ctx, "discarding wishlist load for stale session", "user_id", userID)
		return []model.WishlistItem{}
	}

	s.mu.Lock()
	s.userID = userID
	s.items = items
	out := s.snapshot()
	s.mu.Unlock()

	return out
}

// Toggle flips a movie's membership in the user's wishlist: present removes
// it, absent adds it. The remote mutation is awaited before the local view is
// committed, and membership is re-read under the lock so sequential rapid
// toggles land on fresh state. Returns the new membership and the updated
// wishlist.
func (s *WishlistService) Toggle(ctx context.Context, userID string, movie model.Movie) (bool, []model.WishlistItem, error) {
	active, ok := s.sessions.ActiveUserID(ctx)
	if !ok || active != userID {
		return false, nil, apperrors.Unauthorized(msgMustBeLoggedIn)
	}

	item := model.ItemFromMovie(movie, movie.PosterPath)
	if err := item.Validate(); err != nil {
		return false, nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid wishlist item")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read membership from the remote collection when the cached view
	// belongs to someone else or has never been loaded.
	if s.userID != userID {
		items, err := s.fetchRemote(ctx, userID)
		if err != nil {
			return false, nil, err
		}
		s.userID = userID
		s.items = items
	}

	if s.contains(item.ID) {
		if err := s.removeRemote(ctx, userID, item.ID); err != nil {
			return false, nil, err
		}
		s.items = removeItem(s.items, item.ID)
		return false, s.snapshot(), nil
	}

	if _, err := s.docs.Add(ctx, wishlistPath(userID), map[string]any{
		"id":     item.ID,
		"title":  item.Title,
		"poster": item.Poster,
	}); err != nil {
		return false, nil, err
	}
	s.items = insertSorted(s.items, item)
	return true, s.snapshot(), nil
}

// Contains reports whether the movie is in the locally cached wishlist for
// the given user.
func (s *WishlistService) Contains(userID string, movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID != userID {
		return false
	}
	return s.contains(movieID)
}

// fetchRemote reads the full remote collection and projects documents onto
// wishlist items. Documents with a malformed id are skipped.
func (s *WishlistService) fetchRemote(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	docs, err := s.docs.QueryOrdered(ctx, wishlistPath(userID), "title", ports.Ascending)
	if err != nil {
		return nil, err
	}

	items := make([]model.WishlistItem, 0, len(docs))
	for _, doc := range docs {
		item, ok := itemFromFields(doc.Fields)
		if !ok {
			s.logger.WarnContext(ctx, "skipping malformed wishlist document", "ref", doc.Ref)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// removeRemote re-queries the collection and deletes every document matching
// the catalog id. Querying before deleting avoids trusting a ref from an
// earlier, possibly inconsistent read.
func (s *WishlistService) removeRemote(ctx context.Context, userID string, movieID int) error {
	docs, err := s.docs.QueryOrdered(ctx, wishlistPath(userID), "title", ports.Ascending)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		item, ok := itemFromFields(doc.Fields)
		if !ok || item.ID != movieID {
			continue
		}
		if err := s.docs.Delete(ctx, doc.Ref); err != nil {
			return err
		}
	}
	return nil
}

func (s *WishlistService) contains(movieID int) bool {
	for _, it := range s.items {
		if it.ID == movieID {
			return true
		}
	}
	return false
}

func (s *WishlistService) snapshot() []model.WishlistItem {
	out := make([]model.WishlistItem, len(s.items))
	copy(out, s.items)
	return out
}

// itemFromFields maps a stored document onto a wishlist item. Numeric fields
// arrive as float64 from JSON decoding.
func itemFromFields(fields map[string]any) (model.WishlistItem, bool) {
	id, ok := toInt(fields["id"])
	if !ok || id <= 0 {
		return model.WishlistItem{}, false
	}
	title, _ := fields["title"].(string)
	if title == "" {
		return model.WishlistItem{}, false
	}
	poster, _ := fields["poster"].(string)
	return model.WishlistItem{ID: id, Title: title, Poster: poster}, true
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func removeItem(items []model.WishlistItem, movieID int) []model.WishlistItem {
	out := items[:0]
	for _, it := range items {
		if it.ID != movieID {
			out = append(out, it)
		}
	}
	return out
}

// insertSorted keeps the local view in the same title-ascending order the
// remote query returns.
func insertSorted(items []model.WishlistItem, item model.WishlistItem) []model.WishlistItem {
	out := append(items, item)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}
