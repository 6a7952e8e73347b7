package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"mediascope/internal/cache"
	"mediascope/internal/config"
	"mediascope/internal/database"
	"mediascope/internal/handlers"
	"mediascope/internal/logger"
	"mediascope/internal/repository"
	"mediascope/internal/services"
	"mediascope/internal/sources"
	"mediascope/internal/usecases"
)

// per-source minimum gap between requests
const (
	tmdbRateLimit        = 50 * time.Millisecond
	aniListRateLimit     = 700 * time.Millisecond
	openLibraryRateLimit = 200 * time.Millisecond
)

type Container struct {
	Config     config.Config
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Logger     *logrus.Logger
	Store      repository.LogStore
	Aggregator *services.Aggregator
	Engine     *services.Engine
	UseCases   *usecases.UseCases
	Verifier   handlers.TokenVerifier
}

func New(ctx context.Context, cfg config.Config) (*Container, error) {
	log := logger.Get()
	c := &Container{Config: cfg, Logger: log}

	if cfg.Database.User == "" {
		log.Warn("DB_USER not set, keeping logs in memory")
		c.Store = repository.NewMemoryStore()
	} else {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		c.DB = db
		c.Store = repository.NewPostgresStore(db)
	}

	var store cache.Store
	if cfg.Redis.Host != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, using in-process details cache")
		} else {
			c.Redis = client
			store = cache.NewRedisStore(client)
		}
	}
	if store == nil {
		store = cache.NewMemoryStore()
	}

	catalog := services.NewCatalog(newSources(cfg, log), log)
	details := cache.NewDetails(store, catalog, cfg.DetailsCacheTTL, log)
	c.Aggregator = services.NewAggregator(catalog, details, c.Store, log)
	c.Engine = services.NewEngine(c.Aggregator, c.Store, cfg.EnrichConcurrency, log)
	c.UseCases = usecases.New(c.Aggregator, c.Engine)

	c.Verifier = handlers.TokenVerifier{Secret: []byte(cfg.Auth.JWTSecret), Issuer: cfg.Auth.JWTIssuer}
	if !c.Verifier.Configured() {
		log.Warn("AUTH_JWT_SECRET not set, /api/me routes will reject every request")
	}

	return c, nil
}

func newSources(cfg config.Config, log *logrus.Logger) services.Sources {
	client := func(rateLimit time.Duration) sources.ClientConfig {
		return sources.ClientConfig{
			Timeout:    cfg.Sources.HTTPTimeout,
			RateLimit:  rateLimit,
			MaxRetries: 3,
			RetryDelay: time.Second,
			UserAgent:  cfg.Sources.UserAgent,
			Logger:     log,
		}
	}

	if cfg.Sources.TMDBAPIKey == "" && cfg.Sources.TMDBReadToken == "" {
		log.Warn("No TMDB credentials set, movie and tv requests will fail")
	}
	tmdb := sources.NewTMDB(sources.TMDBConfig{
		BaseURL:   cfg.Sources.TMDBBaseURL,
		APIKey:    cfg.Sources.TMDBAPIKey,
		ReadToken: cfg.Sources.TMDBReadToken,
		Client:    client(tmdbRateLimit),
	})

	return services.Sources{
		Movies: tmdb.Movies(),
		TV:     tmdb.TV(),
		Books: sources.NewOpenLibrary(sources.OpenLibraryConfig{
			BaseURL: cfg.Sources.OpenLibraryBaseURL,
			Client:  client(openLibraryRateLimit),
		}),
		Games: sources.NewSteamSpy(sources.SteamSpyConfig{
			BaseURL:    cfg.Sources.SteamSpyBaseURL,
			CatalogTTL: cfg.DetailsCacheTTL,
			Client:     client(0),
		}),
		Manga: sources.NewAniList(sources.AniListConfig{
			URL:    cfg.Sources.AniListURL,
			Client: client(aniListRateLimit),
		}),
	}
}

func (c *Container) Close() {
	if c.Redis != nil {
		c.Redis.Close()
		c.Logger.Info("Redis connection closed")
	}
	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("Database connection closed")
	}
}
