package config

import "time"

// CatalogConfig contains movie catalog service configuration.
type CatalogConfig struct {
	// APIKey is the catalog service API key. Required at startup.
	APIKey string `env:"API_KEY,required"`

	// BaseURL is the catalog REST endpoint.
	BaseURL string `env:"BASE_URL" envDefault:"https://api.themoviedb.org/3"`

	// ImageBaseURL is the fixed base for resolving returned poster paths.
	ImageBaseURL string `env:"IMAGE_BASE_URL" envDefault:"https://image.tmdb.org/t/p/w500"`

	// ResultsExpr is the JMESPath expression locating the movie list inside a
	// catalog response envelope.
	ResultsExpr string `env:"RESULTS_EXPR" envDefault:"results"`

	// RequestsPerSecond caps outbound catalog calls.
	RequestsPerSecond float64 `env:"REQUESTS_PER_SECOND" envDefault:"4"`

	// Burst is the rate limiter burst size.
	Burst int `env:"BURST" envDefault:"8"`

	// SectionTTL is how long home-section responses stay cached.
	SectionTTL time.Duration `env:"SECTION_TTL" envDefault:"5m"`
}

// Sanitize applies guardrails to catalog configuration values.
func (c *CatalogConfig) Sanitize() {
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 4
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.SectionTTL < 0 {
		c.SectionTTL = 0
	}
}
