package handler

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"anoa.com/playstats/internal/config"
	"anoa.com/playstats/internal/server"
	"github.com/gin-gonic/gin"
)

var (
	engine   *gin.Engine
	initOnce sync.Once
	initErr  error
)

// ensureEngine builds the stats engine once per cold start.
func ensureEngine() error {
	initOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		redisClient, err := server.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Printf("⚠️ Redis unavailable, serving without cache: %v", err)
			redisClient = nil
		}

		provider, err := server.NewProvider(ctx, cfg, redisClient)
		if err != nil {
			initErr = err
			return
		}

		gin.SetMode(gin.ReleaseMode)
		engine = server.NewStatsRouter(cfg, provider)
	})
	return initErr
}

// Handler is the serverless entrypoint for the stats endpoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	if err := ensureEngine(); err != nil {
		log.Printf("[Init Error]: %v", err)
		http.Error(w, "Server initialization error", http.StatusInternalServerError)
		return
	}
	engine.ServeHTTP(w, r)
}
