// Package api exposes the funding query and ingestion HTTP endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/fundwatch/internal/domain"
	"github.com/jonesrussell/fundwatch/internal/logger"
)

// QueryService is the read side of the funding store.
type QueryService interface {
	Search(ctx context.Context, q domain.Query) (*domain.PaginatedResult, error)
	DistinctRounds(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

// IngestRunner triggers an ingestion run.
type IngestRunner interface {
	Run(ctx context.Context) (domain.RunSummary, error)
}

// RunHistory lists recent ingestion runs; may be nil when history is disabled.
type RunHistory interface {
	Recent(ctx context.Context, limit int) ([]domain.IngestionRun, error)
}

// SetupRouter builds the gin engine with all routes registered.
func SetupRouter(
	log logger.Interface,
	queries QueryService,
	runner IngestRunner,
	history RunHistory,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	h := &handler{
		log:     log,
		queries: queries,
		runner:  runner,
		history: history,
	}

	router.GET("/health", h.health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/funding", h.listFunding)
		v1.GET("/rounds", h.listRounds)
		v1.GET("/stats", h.stats)
		v1.POST("/ingest", h.triggerIngest)
		v1.GET("/runs", h.listRuns)
	}

	return router
}

// loggingMiddleware logs each request with its latency and status.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// corsMiddleware allows browser dashboards on other origins to call the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
