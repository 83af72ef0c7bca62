package identitytoolkit

// Package identitytoolkit implements the AuthProvider port against the hosted
// identity toolkit REST API (the same backend the original web client talks
// to through its SDK). The provider holds the live session in memory; the
// session token is additionally cached through an injected SessionCache so a
// restarted process can replay the last known auth state once.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// sessionTokenKey is the cache key the provider session token lives under.
const sessionTokenKey = "authSession"

// SessionCache persists the provider session token in the tier selected by
// the active persistence mode. credstore.Store satisfies this.
type SessionCache interface {
	Set(ctx context.Context, key, value string, persist bool) error
	Read(ctx context.Context, key string) (string, bool, error)
	Clear(ctx context.Context, key string) error
}

// ProviderConfig holds configuration for the identity toolkit provider.
type ProviderConfig struct {
	APIKey     string
	Endpoint   string
	AuthDomain string
	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// ProviderOptions groups dependencies for NewProvider.
type ProviderOptions struct {
	Config   ProviderConfig
	Sessions SessionCache
	Social   map[domainauth.SocialProvider]ports.SocialExchanger
}

// Provider implements ports.AuthProvider using the identity toolkit REST API.
type Provider struct {
	cfg        ProviderConfig
	httpClient *http.Client
	sessions   SessionCache
	social     map[domainauth.SocialProvider]ports.SocialExchanger

	mu      sync.Mutex
	current domainauth.Identity
	active  bool
	mode    domainauth.PersistenceMode

	replayOnce sync.Once
}

var _ ports.AuthProvider = (*Provider)(nil)

// NewProvider creates an identity toolkit provider.
func NewProvider(opts ProviderOptions) (*Provider, error) {
	if opts.Config.APIKey == "" {
		return nil, errors.New("API key is required")
	}
	if opts.Config.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("session cache is required")
	}

	httpClient := opts.Config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Provider{
		cfg:        opts.Config,
		httpClient: httpClient,
		sessions:   opts.Sessions,
		social:     opts.Social,
		mode:       domainauth.PersistenceSession,
	}, nil
}

// SetPersistence selects the tier that caches the provider session token for
// subsequent sign-ins.
func (p *Provider) SetPersistence(mode domainauth.PersistenceMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
}

// RegisterWithPassword creates an account and signs it in.
func (p *Provider) RegisterWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	return p.passwordCall(ctx, "accounts:signUp", email, password)
}

// SignInWithPassword authenticates an existing account.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	return p.passwordCall(ctx, "accounts:signInWithPassword", email, password)
}

func (p *Provider) passwordCall(ctx context.Context, action, email, password string) (domainauth.Identity, error) {
	var resp tokenResponse
	req := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	if err := p.post(ctx, action, req, &resp); err != nil {
		return domainauth.Identity{}, err
	}

	identity := identityFromResponse(resp, email)
	p.commitSignIn(ctx, identity, resp.IDToken)
	return identity, nil
}

// SignInWithSocial completes a federated sign-in. The front-channel code is
// exchanged with the social provider, then the resulting credential is
// asserted to the identity toolkit.
func (p *Provider) SignInWithSocial(ctx context.Context, in ports.SocialSignInInput) (domainauth.Identity, error) {
	exchanger, ok := p.social[in.Provider]
	if !ok {
		return domainauth.Identity{}, fmt.Errorf("social provider %q is not configured", in.Provider)
	}

	token, claimed, err := exchanger.Exchange(ctx, in)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange %s code: %w", in.Provider, err)
	}

	postBody := url.Values{}
	switch {
	case token.IDToken != "":
		postBody.Set("id_token", token.IDToken)
	case token.AccessToken != "":
		postBody.Set("access_token", token.AccessToken)
	default:
		return domainauth.Identity{}, errors.New("social exchange produced no credential")
	}
	postBody.Set("providerId", providerID(in.Provider))

	var resp tokenResponse
	req := map[string]any{
		"postBody":          postBody.Encode(),
		"requestUri":        "https://" + p.cfg.AuthDomain + "/__/auth/handler",
		"returnSecureToken": true,
	}
	if err := p.post(ctx, "accounts:signInWithIdp", req, &resp); err != nil {
		return domainauth.Identity{}, err
	}

	identity := identityFromResponse(resp, "")
	// The toolkit may omit profile fields for some IdPs; fall back to the
	// claims the social provider itself reported.
	if identity.Email == "" {
		identity.Email = claimed.Email
	}
	if identity.DisplayName == "" {
		identity.DisplayName = claimed.DisplayName
	}
	identity.UserID = identity.Resolve(in.Provider.Placeholder())

	p.commitSignIn(ctx, identity, resp.IDToken)
	return identity, nil
}

// SignOut terminates the live session and drops the cached session token from
// both tiers. Calling it with no active session is a no-op.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = domainauth.Identity{}
	p.active = false
	p.mu.Unlock()

	if err := p.sessions.Clear(ctx, sessionTokenKey); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}

// CurrentUser reports the live provider-held session. It never consults
// cached storage, so a stale cache entry cannot resurrect a logged-in state.
func (p *Provider) CurrentUser(_ context.Context) (domainauth.Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.active
}

// AuthStateOnce replays the last known auth state exactly once per process:
// a cached session token is verified against the live accounts:lookup
// endpoint before any identity is reported. Later calls return the then
// current live state without re-verifying.
func (p *Provider) AuthStateOnce(ctx context.Context) (domainauth.Identity, bool, error) {
	var replayErr error
	p.replayOnce.Do(func() {
		replayErr = p.replayCachedSession(ctx)
	})
	if replayErr != nil {
		return domainauth.Identity{}, false, replayErr
	}

	identity, ok := p.CurrentUser(ctx)
	return identity, ok, nil
}

func (p *Provider) replayCachedSession(ctx context.Context) error {
	raw, ok, err := p.sessions.Read(ctx, sessionTokenKey)
	if err != nil {
		return fmt.Errorf("read cached session token: %w", err)
	}
	if !ok || raw == "" {
		return nil
	}

	var resp lookupResponse
	if err := p.post(ctx, "accounts:lookup", map[string]any{"idToken": raw}, &resp); err != nil {
		// A rejected or expired token means signed out, not failure. Drop it
		// so the next start does not retry the same dead token.
		if clearErr := p.sessions.Clear(ctx, sessionTokenKey); clearErr != nil {
			return fmt.Errorf("clear rejected session token: %w", clearErr)
		}
		return nil
	}
	if len(resp.Users) == 0 {
		return nil
	}

	u := resp.Users[0]
	identity := domainauth.Identity{Email: u.Email, DisplayName: u.DisplayName}
	identity.UserID = identity.Resolve(u.LocalID)

	p.mu.Lock()
	p.current = identity
	p.active = true
	p.mu.Unlock()
	return nil
}

// commitSignIn records the live session and caches the session token in the
// tier selected by the active persistence mode. Cache failures are swallowed:
// the sign-in itself succeeded and the cache is advisory.
func (p *Provider) commitSignIn(ctx context.Context, identity domainauth.Identity, idToken string) {
	p.mu.Lock()
	p.current = identity
	p.active = true
	persist := p.mode.Durable()
	p.mu.Unlock()

	if idToken != "" {
		_ = p.sessions.Set(ctx, sessionTokenKey, idToken, persist)
	}
}

// tokenResponse is the common shape of signUp/signInWithPassword/signInWithIdp
// responses.
type tokenResponse struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"users"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// identityFromResponse builds an Identity from a token response, filling
// gaps from the ID token claims and finally the submitted email.
func identityFromResponse(resp tokenResponse, submittedEmail string) domainauth.Identity {
	identity := domainauth.Identity{Email: resp.Email, DisplayName: resp.DisplayName}

	if identity.Email == "" || identity.DisplayName == "" {
		email, name := claimsFromIDToken(resp.IDToken)
		if identity.Email == "" {
			identity.Email = email
		}
		if identity.DisplayName == "" {
			identity.DisplayName = name
		}
	}
	if identity.Email == "" {
		identity.Email = submittedEmail
	}

	identity.UserID = identity.Resolve(resp.LocalID)
	return identity
}

// claimsFromIDToken reads email and name claims out of the returned ID token.
// The token arrived over TLS from the issuer in the same response, so the
// claims are read without signature verification.
func claimsFromIDToken(raw string) (email, name string) {
	if raw == "" {
		return "", ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", ""
	}

	if v, ok := claims["email"].(string); ok {
		email = v
	}
	if v, ok := claims["name"].(string); ok {
		name = v
	}
	return email, name
}

func providerID(p domainauth.SocialProvider) string {
	switch p {
	case domainauth.ProviderGoogle:
		return "google.com"
	case domainauth.ProviderGitHub:
		return "github.com"
	default:
		return string(p)
	}
}

// post issues one identity toolkit call and decodes the response, converting
// API error payloads into Go errors.
func (p *Provider) post(ctx context.Context, action string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", action, err)
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", p.cfg.Endpoint, action, url.QueryEscape(p.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", action, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if jsonErr := json.Unmarshal(data, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%s: %s", action, apiErr.Error.Message)
		}
		return fmt.Errorf("%s: unexpected status %d", action, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s response: %w", action, err)
		}
	}
	return nil
}
