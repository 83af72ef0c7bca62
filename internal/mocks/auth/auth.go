package auth

// Package auth contains simple hand-written test doubles for the auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var _ ports.AuthProvider = (*MockAuthProvider)(nil)

// MockAuthProvider simulates the hosted identity provider with deterministic
// in-memory session state. Per-call overrides take precedence over defaults.
type MockAuthProvider struct {
	RegisterFunc func(ctx context.Context, email, password string) (domainauth.Identity, error)
	SignInFunc   func(ctx context.Context, email, password string) (domainauth.Identity, error)
	SocialFunc   func(ctx context.Context, in ports.SocialSignInInput) (domainauth.Identity, error)

	// FailWith, when set, makes every default sign-in path fail.
	FailWith error

	// ReplayIdentity is what AuthStateOnce reports; nil replays signed-out.
	ReplayIdentity *domainauth.Identity

	mu       sync.Mutex
	mode     domainauth.PersistenceMode
	current  *domainauth.Identity
	replayed bool
	replayID domainauth.Identity
	replayOK bool
}

// NewMockAuthProvider creates a MockAuthProvider with nobody signed in.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{mode: domainauth.PersistenceSession}
}

// SetPersistence records the selected tier.
func (m *MockAuthProvider) SetPersistence(mode domainauth.PersistenceMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
}

// Mode returns the last persistence mode selected.
func (m *MockAuthProvider) Mode() domainauth.PersistenceMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// RegisterWithPassword signs up and signs in a user keyed by email.
func (m *MockAuthProvider) RegisterWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password)
	}
	return m.signIn(email)
}

// SignInWithPassword authenticates a user keyed by email.
func (m *MockAuthProvider) SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	return m.signIn(email)
}

// SignInWithSocial completes a federated sign-in.
func (m *MockAuthProvider) SignInWithSocial(ctx context.Context, in ports.SocialSignInInput) (domainauth.Identity, error) {
	if m.SocialFunc != nil {
		return m.SocialFunc(ctx, in)
	}
	return m.signIn("social-" + string(in.Provider) + "@example.com")
}

func (m *MockAuthProvider) signIn(email string) (domainauth.Identity, error) {
	if m.FailWith != nil {
		return domainauth.Identity{}, m.FailWith
	}
	identity := domainauth.Identity{UserID: email, Email: email}
	m.mu.Lock()
	m.current = &identity
	m.mu.Unlock()
	return identity, nil
}

// SignOut clears the live session. Idempotent.
func (m *MockAuthProvider) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}

// CurrentUser reports the live session only.
func (m *MockAuthProvider) CurrentUser(ctx context.Context) (domainauth.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return domainauth.Identity{}, false
	}
	return *m.current, true
}

// AuthStateOnce resolves the replay identity exactly once; later calls return
// the same resolved value.
func (m *MockAuthProvider) AuthStateOnce(ctx context.Context) (domainauth.Identity, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.replayed {
		m.replayed = true
		if m.ReplayIdentity != nil {
			m.replayID = *m.ReplayIdentity
			m.replayOK = true
			m.current = m.ReplayIdentity
		}
	}
	return m.replayID, m.replayOK, nil
}
