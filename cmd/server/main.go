package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"anoa.com/playstats/internal/config"
	dashboardService "anoa.com/playstats/internal/modules/dashboard/service"
	statsService "anoa.com/playstats/internal/modules/stats/service"
	"anoa.com/playstats/internal/scheduler"
	"anoa.com/playstats/internal/server"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := server.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, serving without cache: %v", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	provider, err := server.NewProvider(ctx, cfg, redisClient)
	if err != nil {
		log.Fatalf("failed to initialize stats provider: %v", err)
	}

	// Keep the cache warm only when there is a cache to warm
	if redisClient != nil {
		sched := scheduler.NewScheduler(cfg.Timezone)
		if err := sched.Register(statsService.NewWarmJob(provider, cfg.WarmSchedule)); err != nil {
			log.Fatalf("failed to schedule cache warmer: %v", err)
		}
		if err := sched.RunByName(ctx, statsService.WarmJobName); err != nil {
			log.Printf("⚠️ Initial cache warm failed: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	fetcher := dashboardService.NewClient(cfg.EndpointURL, cfg.DashboardTimeout)
	srv := server.NewServer(cfg, provider, fetcher)

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
