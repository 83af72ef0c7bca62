package config

// AuthConfig contains the identity provider connection parameters. Every
// field is required: the process refuses to start without a complete set
// rather than failing on the first sign-in.
type AuthConfig struct {
	// APIKey is the browser API key for the hosted identity provider project.
	APIKey string `env:"API_KEY,required"`

	// AuthDomain is the provider-hosted auth handler domain
	// (e.g., "my-project.firebaseapp.com").
	AuthDomain string `env:"AUTH_DOMAIN,required"`

	// ProjectID identifies the provider project.
	ProjectID string `env:"PROJECT_ID,required"`

	// AppID is the registered application identifier.
	AppID string `env:"APP_ID,required"`

	// Endpoint is the identity toolkit REST endpoint. Overridable for tests.
	Endpoint string `env:"ENDPOINT" envDefault:"https://identitytoolkit.googleapis.com/v1"`
}

// OAuthClientConfig contains the client credentials for one social login
// provider. Providers with empty credentials are left unregistered; attempting
// a social login against one then fails with a user-facing message.
type OAuthClientConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Configured reports whether the social client has credentials.
func (o OAuthClientConfig) Configured() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}
