package social

// Package social provides per-provider OAuth code exchangers used to complete
// federated sign-ins. Each exchanger turns a front-channel authorization code
// into a provider credential plus the identity claims the provider exposes.

import (
	"context"
	"errors"
	"fmt"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
	"github.com/pbflix/neteflix-api/internal/ports"
)

const googleIssuer = "https://accounts.google.com"

// GoogleExchanger exchanges Google authorization codes via OIDC and verifies
// the returned ID token before trusting its claims.
type GoogleExchanger struct {
	config   *oauth2.Config
	verifier *gooidc.IDTokenVerifier
}

var _ ports.SocialExchanger = (*GoogleExchanger)(nil)

// GoogleConfig holds client credentials for the Google exchanger.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Issuer overrides the Google issuer URL, for tests.
	Issuer string
}

// NewGoogleExchanger creates a Google exchanger. It performs a single OIDC
// discovery fetch against the Google issuer.
func NewGoogleExchanger(ctx context.Context, cfg GoogleConfig) (*GoogleExchanger, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("google client credentials are required")
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = googleIssuer
	}

	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("google oidc discovery: %w", err)
	}

	return &GoogleExchanger{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gooidc.ScopeOpenID, "profile", "email"},
			Endpoint:     provider.Endpoint(),
		},
		verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (g *GoogleExchanger) Exchange(ctx context.Context, in ports.SocialSignInInput) (ports.SocialToken, domainauth.Identity, error) {
	if in.Code == "" {
		return ports.SocialToken{}, domainauth.Identity{}, errors.New("authorization code is required")
	}

	var opts []oauth2.AuthCodeOption
	if in.RedirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", in.RedirectURI))
	}
	token, err := g.config.Exchange(ctx, in.Code, opts...)
	if err != nil {
		return ports.SocialToken{}, domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return ports.SocialToken{}, domainauth.Identity{}, errors.New("missing id_token in token response")
	}

	idToken, err := g.verifier.Verify(ctx, rawID)
	if err != nil {
		return ports.SocialToken{}, domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return ports.SocialToken{}, domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", err)
	}

	return ports.SocialToken{
			Provider: domainauth.ProviderGoogle,
			IDToken:  rawID,
		}, domainauth.Identity{
			Email:       claims.Email,
			DisplayName: claims.Name,
		}, nil
}
