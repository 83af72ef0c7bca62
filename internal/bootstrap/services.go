package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/pbflix/neteflix-api/config"
	"github.com/pbflix/neteflix-api/internal/adapters/credstore"
	"github.com/pbflix/neteflix-api/internal/adapters/identitytoolkit"
	redisadapter "github.com/pbflix/neteflix-api/internal/adapters/redis"
	"github.com/pbflix/neteflix-api/internal/adapters/social"
	"github.com/pbflix/neteflix-api/internal/adapters/tmdb"
	"github.com/pbflix/neteflix-api/internal/data"
	domainauth "github.com/pbflix/neteflix-api/internal/domain/auth"
	"github.com/pbflix/neteflix-api/internal/ports"
	"github.com/pbflix/neteflix-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Sessions *service.SessionService
	Wishlist *service.WishlistService
	Notes    *service.NotesService
	Catalog  *service.CatalogService
	Creds    *credstore.Store
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// InitServices wires the adapters and services that back the HTTP surface.
// The durable credential tier lives in Redis; the ephemeral tier is process
// memory and vanishes on restart.
func InitServices(ctx context.Context, deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, fmt.Errorf("config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	creds := credstore.New(credstore.StoreOptions{
		Durable:   credstore.NewRedisBackend(deps.RedisClient),
		Ephemeral: credstore.NewMemoryBackend(),
	})

	exchangers, err := buildSocialExchangers(ctx, deps.Config, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	provider, err := identitytoolkit.NewProvider(identitytoolkit.ProviderOptions{
		Config: identitytoolkit.ProviderConfig{
			APIKey:     deps.Config.Auth.APIKey,
			Endpoint:   deps.Config.Auth.Endpoint,
			AuthDomain: deps.Config.Auth.AuthDomain,
		},
		Sessions: creds,
		Social:   exchangers,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("init identity provider: %w", err)
	}

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Provider: provider,
		Creds:    creds,
		Logger:   logger,
	})

	docs := data.NewDocumentStore(deps.DB)

	wishlist := service.NewWishlistService(service.WishlistServiceOptions{
		Docs:     docs,
		Sessions: sessions,
		Logger:   logger,
	})

	notes := service.NewNotesService(service.NotesServiceOptions{
		Docs:     docs,
		Sessions: sessions,
		Logger:   logger,
	})

	catalog := service.NewCatalogService(service.CatalogServiceOptions{
		Gateway: tmdb.NewClient(deps.Config.Catalog, nil),
		Cache:   redisadapter.NewCacheRepo(deps.RedisClient),
		Logger:  logger,
	}, deps.Config.Catalog.SectionTTL)

	return ServiceContainer{
		Sessions: sessions,
		Wishlist: wishlist,
		Notes:    notes,
		Catalog:  catalog,
		Creds:    creds,
	}, nil
}

// buildSocialExchangers registers one exchanger per configured social client.
// Unconfigured providers are skipped so a deployment can run with any subset.
func buildSocialExchangers(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (map[domainauth.SocialProvider]ports.SocialExchanger, error) {
	exchangers := make(map[domainauth.SocialProvider]ports.SocialExchanger)

	if cfg.Google.Configured() {
		google, err := social.NewGoogleExchanger(ctx, social.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init google exchanger: %w", err)
		}
		exchangers[domainauth.ProviderGoogle] = google
	} else {
		logger.Info("google social login not configured")
	}

	if cfg.GitHub.Configured() {
		github, err := social.NewGitHubExchanger(social.GitHubConfig{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  cfg.GitHub.RedirectURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init github exchanger: %w", err)
		}
		exchangers[domainauth.ProviderGitHub] = github
	} else {
		logger.Info("github social login not configured")
	}

	return exchangers, nil
}
