package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
	apperrors "github.com/pbflix/neteflix-api/internal/errors"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// Credential cache keys. The catalog key mirrors the password submitted at
// registration/login so it can be reused as a legacy catalog credential; it
// never authorizes a session.
const (
	keyCurrentUser   = "currentUser"
	keyKeepLogin     = "keepLogin"
	keyCatalogKey    = "TMDb-Key"
	keyRememberEmail = "rememberEmail"
)

// Fallback messages shown when the identity provider fails without a usable
// message of its own.
const (
	msgRegisterFailed = "Registration failed. Please try again."
	msgLoginFailed    = "Login failed. Check your email and password."
	msgSocialFailed   = "Social login failed. Please try again."
	msgLogoutFailed   = "Logout failed. Please try again."
)

// CredentialStore is the two-tier credential cache the session service writes
// login hints into. Cached values are advisory only.
type CredentialStore interface {
	Set(ctx context.Context, key, value string, persist bool) error
	Clear(ctx context.Context, key string) error
	Read(ctx context.Context, key string) (string, bool, error)
	ReadDurable(ctx context.Context, key string) (string, bool, error)
	SetDurable(ctx context.Context, key, value string) error
	ClearDurable(ctx context.Context, key string) error
}

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Provider ports.AuthProvider
	Creds    CredentialStore
	Logger   *slog.Logger
}

// SessionService owns the single source of truth for "who is logged in". It
// reconciles the identity provider's live session with the credential cache:
// the provider decides, the cache only prefills.
type SessionService struct {
	provider ports.AuthProvider
	creds    CredentialStore
	logger   *slog.Logger
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Provider == nil {
		panic("SessionService: auth provider is required")
	}
	if opts.Creds == nil {
		panic("SessionService: credential store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		provider: opts.Provider,
		creds:    opts.Creds,
		logger:   logger,
	}
}

// Register creates an account and signs it in under durable persistence.
// The submitted password is cached as the legacy catalog key and both
// convenience flags are recorded unconditionally.
func (s *SessionService) Register(ctx context.Context, email, password string) (domainauth.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domainauth.Session{}, apperrors.ValidationField("email", "email is required")
	}
	if password == "" {
		return domainauth.Session{}, apperrors.ValidationField("password", "password is required")
	}

	s.provider.SetPersistence(domainauth.PersistenceDurable)

	identity, err := s.provider.RegisterWithPassword(ctx, email, password)
	if err != nil {
		return domainauth.Session{}, providerFailure(err, msgRegisterFailed)
	}

	userID := identity.Resolve(email)
	s.cacheLoginHints(ctx, loginHints{
		userID:     userID,
		catalogKey: password,
		email:      email,
		persist:    true,
	})

	s.logger.InfoContext(ctx, "user registered", "user_id", userID)
	return domainauth.Session{UserID: userID, CatalogKey: password, KeepLoggedIn: true}, nil
}

// Login authenticates an existing account. The persistence tier is selected
// before the sign-in attempt so the provider-held session lands in the right
// tier; the convenience flags always agree with the chosen tier.
func (s *SessionService) Login(ctx context.Context, email, password string, persist bool) (domainauth.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domainauth.Session{}, apperrors.ValidationField("email", "email is required")
	}
	if password == "" {
		return domainauth.Session{}, apperrors.ValidationField("password", "password is required")
	}

	s.provider.SetPersistence(domainauth.ModeFor(persist))

	identity, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return domainauth.Session{}, providerFailure(err, msgLoginFailed)
	}

	userID := identity.Resolve(email)
	s.cacheLoginHints(ctx, loginHints{
		userID:     userID,
		catalogKey: password,
		email:      email,
		persist:    persist,
	})

	s.logger.InfoContext(ctx, "user logged in", "user_id", userID, "persist", persist)
	return domainauth.Session{UserID: userID, CatalogKey: password, KeepLoggedIn: persist}, nil
}

// LoginWithSocial completes a federated sign-in. Social logins carry no
// password-equivalent token, so any cached catalog key is cleared.
func (s *SessionService) LoginWithSocial(ctx context.Context, in ports.SocialSignInInput, persist bool) (domainauth.Session, error) {
	if !in.Provider.Valid() {
		return domainauth.Session{}, apperrors.ValidationField("provider", "unsupported social provider")
	}

	s.provider.SetPersistence(domainauth.ModeFor(persist))

	identity, err := s.provider.SignInWithSocial(ctx, in)
	if err != nil {
		return domainauth.Session{}, providerFailure(err, msgSocialFailed)
	}

	userID := identity.Resolve(in.Provider.Placeholder())
	if cacheErr := s.creds.Set(ctx, keyCurrentUser, userID, persist); cacheErr != nil {
		s.logger.WarnContext(ctx, "failed to cache current user", "err", cacheErr)
	}
	if clearErr := s.creds.Clear(ctx, keyCatalogKey); clearErr != nil {
		s.logger.WarnContext(ctx, "failed to clear catalog key", "err", clearErr)
	}
	s.setConvenienceFlags(ctx, userID, persist)

	s.logger.InfoContext(ctx, "social login", "provider", in.Provider, "user_id", userID)
	return domainauth.Session{UserID: userID, KeepLoggedIn: persist}, nil
}

// Logout signs out the provider-held session and clears the cached identity
// and catalog key from both tiers. Calling it with no active session is a
// no-op, not an error. The convenience flags survive so a returning user's
// email still prefills.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return providerFailure(err, msgLogoutFailed)
	}

	if err := s.creds.Clear(ctx, keyCurrentUser); err != nil {
		return err
	}
	if err := s.creds.Clear(ctx, keyCatalogKey); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user logged out")
	return nil
}

// ActiveUserID consults only the live provider-held session, never the
// credential cache. A stale cached identifier must not make the system
// believe a user is logged in after real session expiry.
func (s *SessionService) ActiveUserID(ctx context.Context) (string, bool) {
	identity, ok := s.provider.CurrentUser(ctx)
	if !ok {
		return "", false
	}
	return identity.Resolve(""), true
}

// EnsureReady resolves the provider's one-shot replay of the last known auth
// state. When a user is signed in, their identifier is opportunistically
// re-cached into the durable current-user slot; the cached value never
// authorizes a session.
func (s *SessionService) EnsureReady(ctx context.Context) (domainauth.Identity, bool, error) {
	identity, signedIn, err := s.provider.AuthStateOnce(ctx)
	if err != nil {
		return domainauth.Identity{}, false, err
	}
	if signedIn {
		if cacheErr := s.creds.SetDurable(ctx, keyCurrentUser, identity.Resolve("")); cacheErr != nil {
			s.logger.WarnContext(ctx, "failed to cache current user", "err", cacheErr)
		}
	}
	return identity, signedIn, nil
}

// RememberedEmail returns the durable remembered-email hint, if any.
func (s *SessionService) RememberedEmail(ctx context.Context) (string, bool) {
	v, ok, err := s.creds.ReadDurable(ctx, keyRememberEmail)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read remembered email", "err", err)
		return "", false
	}
	return v, ok
}

// KeepLoginEnabled reports whether the durable keep-login flag is set.
func (s *SessionService) KeepLoginEnabled(ctx context.Context) bool {
	v, ok, err := s.creds.ReadDurable(ctx, keyKeepLogin)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read keep-login flag", "err", err)
		return false
	}
	return ok && v == "true"
}

// StoredCatalogKey returns the cached legacy catalog key from whichever tier
// holds it.
func (s *SessionService) StoredCatalogKey(ctx context.Context) (string, bool) {
	v, ok, err := s.creds.Read(ctx, keyCatalogKey)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read catalog key", "err", err)
		return "", false
	}
	return v, ok
}

type loginHints struct {
	userID     string
	catalogKey string
	email      string
	persist    bool
}

// cacheLoginHints writes the cached identity and catalog key into the tier
// matching the login's persistence choice. Cache failures are logged, not
// surfaced; the provider-held session is already established.
func (s *SessionService) cacheLoginHints(ctx context.Context, h loginHints) {
	if err := s.creds.Set(ctx, keyCurrentUser, h.userID, h.persist); err != nil {
		s.logger.WarnContext(ctx, "failed to cache current user", "err", err)
	}
	if err := s.creds.Set(ctx, keyCatalogKey, h.catalogKey, h.persist); err != nil {
		s.logger.WarnContext(ctx, "failed to cache catalog key", "err", err)
	}
	s.setConvenienceFlags(ctx, h.email, h.persist)
}

// setConvenienceFlags keeps the durable flags in lockstep with the chosen
// persistence tier: both set on durable persistence, both cleared otherwise.
func (s *SessionService) setConvenienceFlags(ctx context.Context, email string, persist bool) {
	if persist {
		if err := s.creds.SetDurable(ctx, keyKeepLogin, "true"); err != nil {
			s.logger.WarnContext(ctx, "failed to set keep-login flag", "err", err)
		}
		if err := s.creds.SetDurable(ctx, keyRememberEmail, email); err != nil {
			s.logger.WarnContext(ctx, "failed to set remembered email", "err", err)
		}
		return
	}
	if err := s.creds.ClearDurable(ctx, keyKeepLogin); err != nil {
		s.logger.WarnContext(ctx, "failed to clear keep-login flag", "err", err)
	}
	if err := s.creds.ClearDurable(ctx, keyRememberEmail); err != nil {
		s.logger.WarnContext(ctx, "failed to clear remembered email", "err", err)
	}
}

// providerFailure converts a provider error into a user-facing failure,
// keeping the provider's own message when it has one.
func providerFailure(err error, fallback string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return err
	}
	return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, fallback)
}
