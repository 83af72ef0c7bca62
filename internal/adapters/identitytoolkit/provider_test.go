package identitytoolkit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbflix/neteflix-api/internal/adapters/credstore"
	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// fakeToolkit serves a minimal identity toolkit API surface.
type fakeToolkit struct {
	t *testing.T

	// per-action responses keyed by action name (e.g. "accounts:signUp")
	responses map[string]any
	statuses  map[string]int
	requests  map[string]json.RawMessage
}

func newFakeToolkit(t *testing.T) *fakeToolkit {
	return &fakeToolkit{
		t:         t,
		responses: map[string]any{},
		statuses:  map[string]int{},
		requests:  map[string]json.RawMessage{},
	}
}

func (f *fakeToolkit) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := strings.TrimPrefix(r.URL.Path, "/")
		body, _ := json.Marshal(map[string]any{})
		if r.Body != nil {
			raw := json.RawMessage{}
			if err := json.NewDecoder(r.Body).Decode(&raw); err == nil {
				body = raw
			}
		}
		f.requests[action] = body

		if code, ok := f.statuses[action]; ok {
			w.WriteHeader(code)
		}
		resp, ok := f.responses[action]
		if !ok {
			resp = map[string]any{}
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			f.t.Errorf("encode fake response: %v", err)
		}
	})
}

func newTestProvider(t *testing.T, endpoint string) (*Provider, *credstore.Store) {
	t.Helper()
	cache := credstore.New(credstore.StoreOptions{
		Durable:   credstore.NewMemoryBackend(),
		Ephemeral: credstore.NewMemoryBackend(),
	})
	p, err := NewProvider(ProviderOptions{
		Config: ProviderConfig{
			APIKey:     "test-key",
			Endpoint:   endpoint,
			AuthDomain: "test.firebaseapp.com",
		},
		Sessions: cache,
	})
	require.NoError(t, err)
	return p, cache
}

func TestProvider_RegisterWithPassword(t *testing.T) {
	fake := newFakeToolkit(t)
	fake.responses["accounts:signUp"] = map[string]any{
		"idToken": "tok-1",
		"email":   "a@example.com",
		"localId": "uid-1",
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	p.SetPersistence(domainauth.PersistenceDurable)

	identity, err := p.RegisterWithPassword(context.Background(), "a@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", identity.UserID)

	current, active := p.CurrentUser(context.Background())
	require.True(t, active)
	assert.Equal(t, "a@example.com", current.UserID)
}

func TestProvider_RegisterFallsBackToSubmittedEmail(t *testing.T) {
	fake := newFakeToolkit(t)
	// Provider response omits the email entirely.
	fake.responses["accounts:signUp"] = map[string]any{"idToken": "tok-1", "localId": "uid-1"}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)

	identity, err := p.RegisterWithPassword(context.Background(), "a@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", identity.UserID)
}

func TestProvider_SignInFailureSurfacesProviderMessage(t *testing.T) {
	fake := newFakeToolkit(t)
	fake.statuses["accounts:signInWithPassword"] = http.StatusBadRequest
	fake.responses["accounts:signInWithPassword"] = map[string]any{
		"error": map[string]any{"message": "INVALID_PASSWORD"},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)

	_, err := p.SignInWithPassword(context.Background(), "a@example.com", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_PASSWORD")

	_, active := p.CurrentUser(context.Background())
	assert.False(t, active, "failed sign-in must not create a session")
}

func TestProvider_SessionTokenFollowsPersistenceMode(t *testing.T) {
	fake := newFakeToolkit(t)
	fake.responses["accounts:signInWithPassword"] = map[string]any{
		"idToken": "tok-9",
		"email":   "a@example.com",
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	p, cache := newTestProvider(t, srv.URL)
	ctx := context.Background()

	p.SetPersistence(domainauth.PersistenceSession)
	_, err := p.SignInWithPassword(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	_, inDurable, err := cache.ReadDurable(ctx, sessionTokenKey)
	require.NoError(t, err)
	assert.False(t, inDurable, "session-mode token must not land in the durable tier")

	v, ok, err := cache.Read(ctx, sessionTokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-9", v)
}

func TestProvider_SignOutIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(newFakeToolkit(t).handler())
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, p.SignOut(ctx))
	require.NoError(t, p.SignOut(ctx))

	_, active := p.CurrentUser(ctx)
	assert.False(t, active)
}

func TestProvider_AuthStateOnceReplaysCachedSession(t *testing.T) {
	fake := newFakeToolkit(t)
	fake.responses["accounts:lookup"] = map[string]any{
		"users": []map[string]any{{"localId": "uid-1", "email": "a@example.com"}},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	p, cache := newTestProvider(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, sessionTokenKey, "tok-1", true))

	identity, ok, err := p.AuthStateOnce(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", identity.UserID)
}

func TestProvider_AuthStateOnceDropsRejectedToken(t *testing.T) {
	fake := newFakeToolkit(t)
	fake.statuses["accounts:lookup"] = http.StatusBadRequest
	fake.responses["accounts:lookup"] = map[string]any{
		"error": map[string]any{"message": "INVALID_ID_TOKEN"},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	p, cache := newTestProvider(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, sessionTokenKey, "dead-token", true))

	_, ok, err := p.AuthStateOnce(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, present, err := cache.Read(ctx, sessionTokenKey)
	require.NoError(t, err)
	assert.False(t, present, "rejected token must be dropped from the cache")
}

func TestProvider_AuthStateOnceFiresOnce(t *testing.T) {
	fake := newFakeToolkit(t)
	fake.responses["accounts:lookup"] = map[string]any{
		"users": []map[string]any{{"localId": "uid-1", "email": "a@example.com"}},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	p, cache := newTestProvider(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, sessionTokenKey, "tok-1", true))

	_, ok, err := p.AuthStateOnce(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// Sign out, then ask again: the replay must not fire a second lookup and
	// resurrect the session.
	require.NoError(t, p.SignOut(ctx))
	_, ok, err = p.AuthStateOnce(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

// staticExchanger returns fixed values for social sign-in tests.
type staticExchanger struct {
	token    ports.SocialToken
	identity domainauth.Identity
	err      error
}

func (s staticExchanger) Exchange(context.Context, ports.SocialSignInInput) (ports.SocialToken, domainauth.Identity, error) {
	return s.token, s.identity, s.err
}

func TestProvider_SignInWithSocial(t *testing.T) {
	fake := newFakeToolkit(t)
	fake.responses["accounts:signInWithIdp"] = map[string]any{
		"idToken":     "tok-idp",
		"email":       "",
		"displayName": "",
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	p.social = map[domainauth.SocialProvider]ports.SocialExchanger{
		domainauth.ProviderGitHub: staticExchanger{
			token:    ports.SocialToken{AccessToken: "gh-token"},
			identity: domainauth.Identity{DisplayName: "octocat"},
		},
	}

	identity, err := p.SignInWithSocial(context.Background(), ports.SocialSignInInput{
		Provider: domainauth.ProviderGitHub,
		Code:     "code-1",
	})
	require.NoError(t, err)
	// No email anywhere: display name from the social claims wins.
	assert.Equal(t, "octocat", identity.UserID)

	var req struct {
		PostBody string `json:"postBody"`
	}
	require.NoError(t, json.Unmarshal(fake.requests["accounts:signInWithIdp"], &req))
	assert.Contains(t, req.PostBody, "access_token=gh-token")
	assert.Contains(t, req.PostBody, "providerId=github.com")
}

func TestProvider_SignInWithSocialUnconfiguredProvider(t *testing.T) {
	srv := httptest.NewServer(newFakeToolkit(t).handler())
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)

	_, err := p.SignInWithSocial(context.Background(), ports.SocialSignInInput{
		Provider: domainauth.ProviderGoogle,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
