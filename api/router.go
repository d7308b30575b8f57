package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/deref/api/handler"
	"github.com/use-agent/deref/api/middleware"
	"github.com/use-agent/deref/config"
	"github.com/use-agent/deref/referrer"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:    Recovery → Logger → Errors
//	Referrer:  Auth (if enabled) → RateLimit → referrer.Middleware
//
// Health is outside auth so monitoring probes always work. ctx bounds the
// lifetime of background janitors.
func NewRouter(ctx context.Context, cfg *config.Config, fetcher *referrer.Fetcher, version string, startTime time.Time) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.Errors())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(version, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(ctx, cfg.RateLimit))

	protected.GET("/referrer",
		referrer.Middleware(referrer.Config{
			QueryName:    cfg.Referrer.QueryName,
			DisableQuery: cfg.Referrer.DisableQuery,
			IgnoreErrors: !cfg.Referrer.Errors,
			Fetcher:      fetcher,
		}),
		handler.Referrer(),
	)

	return r, nil
}
