package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/playstats/internal/config"
	"anoa.com/playstats/internal/middleware"
	dashboardHttp "anoa.com/playstats/internal/modules/dashboard/delivery/http"
	dashboardService "anoa.com/playstats/internal/modules/dashboard/service"
	statsHttp "anoa.com/playstats/internal/modules/stats/delivery/http"
	statsService "anoa.com/playstats/internal/modules/stats/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
}

func NewServer(cfg *config.Config, provider statsService.Provider, fetcher dashboardService.Fetcher) *Server {
	router := NewRouter(cfg, provider, fetcher)

	return &Server{
		engine: router,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Listening on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Println("🛑 Shutting down server...")
	return s.httpServer.Shutdown(shutdownCtx)
}

// NewStatsRouter answers every request with the stats document.
func NewStatsRouter(cfg *config.Config, provider statsService.Provider) *gin.Engine {
	router := gin.New()
	// wrong-method requests on named routes go through NoMethod
	router.HandleMethodNotAllowed = true

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz"},
	}))
	router.Use(middleware.RequestID())

	statsHandler := statsHttp.NewStatsHandler(provider, cfg.CacheControl())
	router.NoRoute(statsHandler.GetStats)
	router.NoMethod(statsHandler.GetStats)

	return router
}

// NewRouter adds the health check and, when a fetcher is given, the
// server-rendered dashboard. Every other request gets the stats document.
func NewRouter(cfg *config.Config, provider statsService.Provider, fetcher dashboardService.Fetcher) *gin.Engine {
	router := NewStatsRouter(cfg, provider)

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if fetcher != nil {
		dashboardHandler := dashboardHttp.NewDashboardHandler(fetcher)
		router.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	return router
}

// setupCORS never rejects a request. Origins outside the list are served
// without Access-Control-Allow-Origin.
func setupCORS(router *gin.Engine, origins []string) {
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
		router.Use(cors.New(corsConfig))
		return
	}

	corsConfig.AllowOrigins = origins
	handleCORS := cors.New(corsConfig)

	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[strings.ToLower(origin)] = struct{}{}
	}

	router.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[strings.ToLower(origin)]; !ok {
				c.Next()
				return
			}
		}
		handleCORS(c)
	})
}
