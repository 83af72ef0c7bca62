package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	githubendpoint "golang.org/x/oauth2/github"

	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
	"github.com/pbflix/neteflix-api/internal/ports"
)

// githubScopes is the fixed permission set requested from GitHub: read the
// profile and read the account emails. This is a contract with the provider,
// not configurable per call.
var githubScopes = []string{"read:user", "user:email"}

const githubAPIBase = "https://api.github.com"

// GitHubExchanger exchanges GitHub authorization codes and resolves the
// account identity through the GitHub REST API.
type GitHubExchanger struct {
	config     *oauth2.Config
	apiBase    string
	httpClient *http.Client
}

var _ ports.SocialExchanger = (*GitHubExchanger)(nil)

// GitHubConfig holds client credentials for the GitHub exchanger.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// APIBase and TokenURL override GitHub endpoints, for tests.
	APIBase    string
	TokenURL   string
	HTTPClient *http.Client
}

// NewGitHubExchanger creates a GitHub exchanger.
func NewGitHubExchanger(cfg GitHubConfig) (*GitHubExchanger, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("github client credentials are required")
	}

	endpoint := githubendpoint.Endpoint
	if cfg.TokenURL != "" {
		endpoint = oauth2.Endpoint{TokenURL: cfg.TokenURL, AuthURL: cfg.TokenURL}
	}
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = githubAPIBase
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &GitHubExchanger{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       githubScopes,
			Endpoint:     endpoint,
		},
		apiBase:    apiBase,
		httpClient: httpClient,
	}, nil
}

func (g *GitHubExchanger) Exchange(ctx context.Context, in ports.SocialSignInInput) (ports.SocialToken, domainauth.Identity, error) {
	if in.Code == "" {
		return ports.SocialToken{}, domainauth.Identity{}, errors.New("authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	token, err := g.config.Exchange(ctx, in.Code)
	if err != nil {
		return ports.SocialToken{}, domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	identity, err := g.fetchIdentity(ctx, token.AccessToken)
	if err != nil {
		return ports.SocialToken{}, domainauth.Identity{}, err
	}

	return ports.SocialToken{
		Provider:    domainauth.ProviderGitHub,
		AccessToken: token.AccessToken,
	}, identity, nil
}

// fetchIdentity resolves the account profile, falling back to the emails
// endpoint when the profile hides the address.
func (g *GitHubExchanger) fetchIdentity(ctx context.Context, accessToken string) (domainauth.Identity, error) {
	var user struct {
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := g.get(ctx, accessToken, "/user", &user); err != nil {
		return domainauth.Identity{}, fmt.Errorf("fetch github profile: %w", err)
	}

	email := user.Email
	if email == "" {
		// Profile email is often hidden; user:email grants the emails API.
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := g.get(ctx, accessToken, "/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					email = e.Email
					break
				}
			}
		}
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return domainauth.Identity{Email: email, DisplayName: name}, nil
}

func (g *GitHubExchanger) get(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.Unmarshal(data, out)
}
