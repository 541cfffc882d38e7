package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ratescope/api/handler"
	"github.com/use-agent/ratescope/api/middleware"
	"github.com/use-agent/ratescope/cache"
	"github.com/use-agent/ratescope/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:     Recovery → Logger
//	Protected:  Auth (if enabled) → RateLimit
//
// The stream and download routes are what the front end talks to; the
// session debug view lives under /api/v1. Health is outside auth so
// monitoring probes always work.
func NewRouter(st handler.Streamer, store *cache.Store, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", handler.Health(store, startTime))

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.GET("/stream", handler.Stream(st, store))
	protected.GET("/download/excel/:session", handler.DownloadExcel(store))
	protected.GET("/api/v1/cache/:session", handler.GetSession(store))

	return r
}
