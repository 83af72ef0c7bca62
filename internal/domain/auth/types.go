package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

// PersistenceMode selects which credential tier a login session writes to.
type PersistenceMode string

const (
	// PersistenceDurable survives process restarts.
	PersistenceDurable PersistenceMode = "durable"
	// PersistenceSession lives only for the current process/session.
	PersistenceSession PersistenceMode = "session"
)

// Durable reports whether the mode is the restart-surviving tier.
func (m PersistenceMode) Durable() bool { return m == PersistenceDurable }

// ModeFor maps the "keep me logged in" flag to a persistence mode.
func ModeFor(persist bool) PersistenceMode {
	if persist {
		return PersistenceDurable
	}
	return PersistenceSession
}

// SocialProvider identifies a federated login provider.
type SocialProvider string

const (
	ProviderGoogle SocialProvider = "google"
	ProviderGitHub SocialProvider = "github"
)

// Valid reports whether the provider is one we support.
func (p SocialProvider) Valid() bool {
	return p == ProviderGoogle || p == ProviderGitHub
}

// Placeholder is the identity label used when a provider returns neither an
// email nor a display name.
func (p SocialProvider) Placeholder() string {
	switch p {
	case ProviderGoogle:
		return "Google User"
	case ProviderGitHub:
		return "GitHub User"
	default:
		return "User"
	}
}

// Identity represents the authenticated principal returned by the identity
// provider. Adapters map provider-specific payloads into this shape.
type Identity struct {
	// UserID is the stable identifier shown to the rest of the system,
	// normally the account email.
	UserID      string
	Email       string
	DisplayName string
}

// Resolve picks the user identifier with the documented fallback chain:
// email, then display name, then the given fallback label.
func (i Identity) Resolve(fallback string) string {
	switch {
	case i.Email != "":
		return i.Email
	case i.DisplayName != "":
		return i.DisplayName
	default:
		return fallback
	}
}

// Session is the record describing the currently authenticated user.
// At most one session is active per process; it is derived from the live
// provider state and never reconstructed from cached storage alone.
type Session struct {
	UserID string `json:"user_id"`
	// CatalogKey is the opaque secondary token cached for legacy catalog-key
	// reuse. It never authorizes anything.
	CatalogKey   string `json:"catalog_key,omitempty"`
	KeepLoggedIn bool   `json:"keep_logged_in"`
}

// Active reports whether the session identifies a user.
func (s Session) Active() bool { return s.UserID != "" }
