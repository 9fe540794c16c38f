// Command playctl records plays into the stats database.
//
//	playctl -user 1234 -name KEX
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"anoa.com/playstats/internal/bootstrap"
	"anoa.com/playstats/internal/config"
	statsRepo "anoa.com/playstats/internal/modules/stats/repository"
	statsService "anoa.com/playstats/internal/modules/stats/service"
	"anoa.com/playstats/internal/server"
	"anoa.com/playstats/pkg/database"
)

func main() {
	userID := flag.String("user", "", "player id (required)")
	name := flag.String("name", "", "player display name")
	count := flag.Int("count", 1, "number of plays to record")
	flag.Parse()

	if strings.TrimSpace(*userID) == "" || *count < 1 {
		flag.Usage()
		log.Fatal("-user is required and -count must be at least 1")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(database.Options{
		DSN:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	repo := statsRepo.NewStatsRepository(db)
	for i := 0; i < *count; i++ {
		if err := repo.RecordPlay(ctx, *userID, *name); err != nil {
			log.Fatalf("failed to record play: %v", err)
		}
	}
	log.Printf("✅ Recorded %d play(s) for %s", *count, *userID)

	redisClient, err := server.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Printf("⚠️ Cache not invalidated: %v", err)
		return
	}
	if redisClient == nil {
		return
	}
	defer redisClient.Close()

	cache := statsService.NewCachedProvider(nil, redisClient, cfg.CacheMaxAge)
	if err := cache.Invalidate(ctx); err != nil {
		log.Printf("⚠️ Cache not invalidated: %v", err)
	}
}
