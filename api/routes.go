package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/lectern-app/lectern-api/api/certificates"
	"github.com/lectern-app/lectern-api/api/generate"
	"github.com/lectern-app/lectern-api/api/health"
	"github.com/lectern-app/lectern-api/api/progress"
	"github.com/lectern-app/lectern-api/api/transcripts"
	"github.com/lectern-app/lectern-api/api/types"
	"github.com/lectern-app/lectern-api/api/version"
	_ "github.com/lectern-app/lectern-api/docs/swagger"
	"github.com/lectern-app/lectern-api/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Register public routes (no auth, no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if deps == nil {
		deps = &types.Dependencies{}
	}

	// API v1 routes require caller identity
	v1 := engine.Group("/api/v1")
	v1.Use(BearerAuth(cfg.Auth.Enabled, cfg.Auth.JWTSecret))

	// Transcript chunk ingestion from workers. No rate limiting: chunk
	// webhooks arrive in bursts when a video finishes transcribing.
	transcriptGroup := v1.Group("/transcripts")
	transcripts.RegisterRoutes(transcriptGroup, deps)

	// Generation requests fan out to a paid upstream, so they get the
	// tightest per-client limits.
	generateGroup := v1.Group("/generate")
	generateGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized,
		cfg.RateLimiting.GenerateRPS, cfg.RateLimiting.GenerateBurst))
	generate.RegisterRoutes(generateGroup, deps)

	// Progress and certificate routes with general rate limiting (10 req/s, burst of 20)
	progressGroup := v1.Group("/progress")
	progressGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	progress.RegisterRoutes(progressGroup, deps)

	certificateGroup := v1.Group("/certificates")
	certificateGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	certificates.RegisterRoutes(certificateGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
