package ports

// Package ports defines interfaces (hexagonal ports) for the external
// collaborators of the core: the identity provider, the credential tiers, the
// document store, and the movie catalog. Implementations live in
// internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
)

// AuthProvider wraps the hosted identity provider. It is the single source of
// truth for "who is logged in"; cached credential values are advisory only.
type AuthProvider interface {
	// SetPersistence selects the tier the provider-held session is cached in
	// for subsequent sign-ins. Called before the sign-in attempt.
	SetPersistence(mode domainauth.PersistenceMode)

	// RegisterWithPassword creates an account and signs it in.
	RegisterWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error)

	// SignInWithPassword authenticates an existing account.
	SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error)

	// SignInWithSocial completes a federated sign-in with a token previously
	// obtained from the social provider's front channel.
	SignInWithSocial(ctx context.Context, in SocialSignInInput) (domainauth.Identity, error)

	// SignOut terminates the provider-held session. Idempotent.
	SignOut(ctx context.Context) error

	// CurrentUser reports the live provider-held session, never cached state.
	CurrentUser(ctx context.Context) (domainauth.Identity, bool)

	// AuthStateOnce resolves with the provider's replay of the last known auth
	// state. It fires at most once per process; later calls return the same
	// resolved value.
	AuthStateOnce(ctx context.Context) (domainauth.Identity, bool, error)
}

// SocialSignInInput carries the result of a front-channel social login.
type SocialSignInInput struct {
	Provider domainauth.SocialProvider
	// Code is the authorization code returned by the provider's redirect.
	Code        string
	RedirectURI string
}

// SocialToken is the provider credential produced by a code exchange.
type SocialToken struct {
	Provider    domainauth.SocialProvider
	AccessToken string
	IDToken     string
}

// SocialExchanger turns an authorization code into a provider token plus the
// identity claims the provider exposes.
type SocialExchanger interface {
	Exchange(ctx context.Context, in SocialSignInInput) (SocialToken, domainauth.Identity, error)
}
