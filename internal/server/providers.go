package server

import (
	"context"
	"fmt"
	"log"

	"anoa.com/playstats/internal/bootstrap"
	"anoa.com/playstats/internal/config"
	statsDto "anoa.com/playstats/internal/modules/stats/dto"
	statsRepo "anoa.com/playstats/internal/modules/stats/repository"
	statsService "anoa.com/playstats/internal/modules/stats/service"
	"anoa.com/playstats/pkg/database"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns nil when REDIS_URL is unset; callers treat a nil
// client as "no cache".
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	log.Println("✅ Connected to Redis")
	return client, nil
}

// NewProvider builds the configured stats source wrapped in the redis cache.
func NewProvider(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (*statsService.CachedProvider, error) {
	var source statsService.Provider

	switch cfg.StatsSource {
	case config.SourceDatabase:
		db, err := database.Connect(database.Options{
			DSN:      cfg.DatabaseURL,
			Host:     cfg.DBHost,
			User:     cfg.DBUser,
			Password: cfg.DBPass,
			Name:     cfg.DBName,
			Port:     cfg.DBPort,
		})
		if err != nil {
			return nil, err
		}
		if err := bootstrap.Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		repo := statsRepo.NewStatsRepository(db)
		if cfg.AppEnv == "development" {
			seed := statsDto.DefaultDocument()
			seed.InviteURL = cfg.InviteURL
			if err := bootstrap.SeedStats(ctx, repo, seed); err != nil {
				return nil, fmt.Errorf("failed to seed stats: %w", err)
			}
		}
		source = statsService.NewRepositoryProvider(repo, cfg.InviteURL, cfg.TopLimit)
	default:
		doc := statsDto.DefaultDocument()
		doc.InviteURL = cfg.InviteURL
		source = statsService.NewStaticProvider(doc)
	}

	log.Printf("📊 Stats source: %s (cache: %t)", cfg.StatsSource, redisClient != nil)
	return statsService.NewCachedProvider(source, redisClient, cfg.CacheMaxAge), nil
}
