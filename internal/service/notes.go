package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pbflix/neteflix-api/internal/domain/model"
	apperrors "github.com/pbflix/neteflix-api/internal/errors"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// notesPath is the single flat collection holding all note documents.
const notesPath = "notes"

// NotesServiceOptions groups dependencies for NotesService.
type NotesServiceOptions struct {
	Docs     ports.DocumentStore
	Sessions SessionChecker
	Logger   *slog.Logger
}

// NotesService appends to and reads the shared note log. Notes are ordered by
// creation time, newest first.
type NotesService struct {
	docs     ports.DocumentStore
	sessions SessionChecker
	logger   *slog.Logger
}

// NewNotesService constructs a new NotesService.
func NewNotesService(opts NotesServiceOptions) *NotesService {
	if opts.Docs == nil {
		panic("NotesService: document store is required")
	}
	if opts.Sessions == nil {
		panic("NotesService: session checker is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NotesService{docs: opts.Docs, sessions: opts.Sessions, logger: logger}
}

// Add appends a note for the active user. Requires an active session.
func (s *NotesService) Add(ctx context.Context, text string) (model.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Note{}, apperrors.ValidationField("text", "note text is required")
	}

	userID, ok := s.sessions.ActiveUserID(ctx)
	if !ok {
		return model.Note{}, apperrors.Unauthorized("You must be logged in to add a note.")
	}

	if _, err := s.docs.Add(ctx, notesPath, map[string]any{
		"text": text,
		"uid":  userID,
	}); err != nil {
		return model.Note{}, err
	}

	s.logger.InfoContext(ctx, "note added", "user_id", userID)
	return model.Note{Text: text, UserID: userID, CreatedAt: time.Now().UTC()}, nil
}

// List returns all notes, newest first. A transport failure degrades to an
// empty list so the note log never blocks the rest of the screen.
func (s *NotesService) List(ctx context.Context) []model.Note {
	docs, err := s.docs.QueryOrdered(ctx, notesPath, "createdAt", ports.Descending)
	if err != nil {
		s.logger.WarnContext(ctx, "notes load failed", "err", err)
		return []model.Note{}
	}

	notes := make([]model.Note, 0, len(docs))
	for _, doc := range docs {
		text, _ := doc.Fields["text"].(string)
		if text == "" {
			continue
		}
		uid, _ := doc.Fields["uid"].(string)
		notes = append(notes, model.Note{Text: text, UserID: uid, CreatedAt: doc.CreatedAt})
	}
	return notes
}
