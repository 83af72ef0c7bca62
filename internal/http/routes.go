package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions SessionAPI
	Wishlist WishlistAPI
	Notes    NotesAPI
	Catalog  CatalogAPI
	Logger   *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Svc: services.Sessions}
	wishlistHandlers := &WishlistHandlers{Svc: services.Wishlist, Sessions: services.Sessions}
	notesHandlers := &NotesHandlers{Svc: services.Notes}
	catalogHandlers := &CatalogHandlers{Svc: services.Catalog}

	mux.HandleFunc("POST /api/auth/register", authHandlers.Register)
	mux.HandleFunc("POST /api/auth/login", authHandlers.Login)
	mux.HandleFunc("POST /api/auth/social", authHandlers.SocialLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /api/auth/session", authHandlers.Session)

	mux.HandleFunc("GET /api/wishlist", wishlistHandlers.List)
	mux.HandleFunc("POST /api/wishlist/toggle", wishlistHandlers.Toggle)

	mux.HandleFunc("GET /api/notes", notesHandlers.List)
	mux.HandleFunc("POST /api/notes", notesHandlers.Add)

	mux.HandleFunc("GET /api/catalog/sections", catalogHandlers.Sections)
	mux.HandleFunc("GET /api/catalog/search", catalogHandlers.Search)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}
