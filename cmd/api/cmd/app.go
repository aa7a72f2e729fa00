package cmd

import (
	"context"
	"fmt"

	"github.com/labdan/Dashboard-sub000/internal/domain/company"
	"github.com/labdan/Dashboard-sub000/internal/infra/cache"
	"github.com/labdan/Dashboard-sub000/internal/infra/database/postgres"
	"github.com/labdan/Dashboard-sub000/internal/infra/external/logo"
	"github.com/labdan/Dashboard-sub000/internal/infra/external/twelvedata"
	"github.com/labdan/Dashboard-sub000/internal/pkg/config"
	"github.com/labdan/Dashboard-sub000/internal/service/enrichment"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// app is the wired dependency graph shared by serve and enrich
type app struct {
	pool  *postgres.Pool
	redis *redis.Client
	cache *cache.CompanyCache // nil when Redis is disabled or unreachable
	svc   *enrichment.Service
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	a := &app{pool: pool}

	var repo company.Repository = postgres.NewCompanyRepository(pool.Pool)
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			// Postgres stays authoritative; run without the hot cache
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, company cache disabled")
			_ = a.redis.Close()
			a.redis = nil
		} else {
			a.cache = cache.NewCompanyCache(repo, a.redis, cfg.Redis.TTL)
			repo = a.cache
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("✅ Redis company cache enabled")
		}
	}

	provider := twelvedata.NewClientWithTimeout(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Enrichment.TierTimeout)
	a.svc = enrichment.NewService(
		repo,
		logo.NewHTTPProberWithTimeout(cfg.Enrichment.TierTimeout),
		provider,
		enrichment.Config{
			TierTimeout:    cfg.Enrichment.TierTimeout,
			RequestTimeout: cfg.Enrichment.RequestTimeout,
			BatchLimit:     cfg.Enrichment.BatchLimit,
			BatchMaxItems:  cfg.Enrichment.BatchMaxItems,
			Templates: logo.Templates{
				SlugURL:   cfg.Logo.SlugURLTemplate,
				SymbolURL: cfg.Logo.SymbolURLTemplate,
			},
		},
	)
	if err := a.svc.Configured(); err != nil {
		log.Warn().Err(err).Msg("TWELVEDATA_API_KEY is not set; only complete cached records can be served")
	}

	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	a.pool.Close()
}
