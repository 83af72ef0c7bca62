package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// SessionAPI is the slice of the session service the auth handlers need.
type SessionAPI interface {
	Register(ctx context.Context, email, password string) (domainauth.Session, error)
	Login(ctx context.Context, email, password string, persist bool) (domainauth.Session, error)
	LoginWithSocial(ctx context.Context, in ports.SocialSignInInput, persist bool) (domainauth.Session, error)
	Logout(ctx context.Context) error
	ActiveUserID(ctx context.Context) (string, bool)
	RememberedEmail(ctx context.Context) (string, bool)
	KeepLoginEnabled(ctx context.Context) bool
}

// AuthHandlers serves the register/login/logout surface.
type AuthHandlers struct {
	Svc SessionAPI
}

type credentialsRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	KeepLoggedIn bool   `json:"keep_logged_in"`
}

type socialLoginRequest struct {
	Provider     string `json:"provider"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	KeepLoggedIn bool   `json:"keep_logged_in"`
}

type sessionResponse struct {
	UserID       string `json:"user_id"`
	KeepLoggedIn bool   `json:"keep_logged_in"`
}

// Register creates an account and signs it in under durable persistence.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.Svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, sessionResponse{UserID: session.UserID, KeepLoggedIn: session.KeepLoggedIn})
}

// Login authenticates an existing account.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.Svc.Login(r.Context(), req.Email, req.Password, req.KeepLoggedIn)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse{UserID: session.UserID, KeepLoggedIn: session.KeepLoggedIn})
}

// SocialLogin completes a federated sign-in with the provider's redirect code.
func (h *AuthHandlers) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req socialLoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.Svc.LoginWithSocial(r.Context(), ports.SocialSignInInput{
		Provider:    domainauth.SocialProvider(req.Provider),
		Code:        req.Code,
		RedirectURI: req.RedirectURI,
	}, req.KeepLoggedIn)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse{UserID: session.UserID, KeepLoggedIn: session.KeepLoggedIn})
}

// Logout signs out. Calling it signed-out is still a 204.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Logout(r.Context()); err != nil {
		WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session reports the live provider-held session plus the durable UX hints.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, active := h.Svc.ActiveUserID(ctx)
	email, _ := h.Svc.RememberedEmail(ctx)

	WriteJSON(w, http.StatusOK, map[string]any{
		"active":           active,
		"user_id":          userID,
		"remembered_email": email,
		"keep_logged_in":   h.Svc.KeepLoginEnabled(ctx),
	})
}
