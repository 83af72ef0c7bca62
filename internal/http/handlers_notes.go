package httpx

import (
	"context"
	"net/http"

	"github.com/pbflix/neteflix-api/internal/domain/model"
)

// NotesAPI is the slice of the notes service the handlers need.
type NotesAPI interface {
	Add(ctx context.Context, text string) (model.Note, error)
	List(ctx context.Context) []model.Note
}

// NotesHandlers serves the shared note log.
type NotesHandlers struct {
	Svc NotesAPI
}

type addNoteRequest struct {
	Text string `json:"text"`
}

// List returns all notes, newest first.
func (h *NotesHandlers) List(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"notes": h.Svc.List(r.Context())})
}

// Add appends a note for the active user.
func (h *NotesHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var req addNoteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	note, err := h.Svc.Add(r.Context(), req.Text)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, note)
}
