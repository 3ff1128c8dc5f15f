package api

import (
	"context"
	"net/http"
	"time"

	"github.com/content-modeling-api/internal/config"
	"github.com/content-modeling-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HealthFunc reports whether the backing store is reachable
type HealthFunc func(ctx context.Context) error

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, health HealthFunc, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	typeHandler := NewContentTypeHandler(services, log)
	entryHandler := NewEntryHandler(services, log)
	tagHandler := NewTagHandler(services, log)
	mediaHandler := NewMediaHandler(services, cfg, log)
	exportHandler := NewExportHandler(services, log)
	publicHandler := NewPublicHandler(services, log)

	router.GET("/health", healthCheck(health))
	router.GET("/metrics", metricsHandler(services))

	// API v1
	v1 := router.Group("/v1")
	{
		types := v1.Group("/content-types")
		{
			types.GET("", typeHandler.List)
			types.POST("", typeHandler.Create)
			types.GET("/:id", typeHandler.Get)
			types.PATCH("/:id", typeHandler.Update)
			types.DELETE("/:id", typeHandler.Delete)

			types.POST("/:id/fields", typeHandler.AddField)
			types.PATCH("/:id/fields/:field_id", typeHandler.UpdateField)
			types.DELETE("/:id/fields/:field_id", typeHandler.DeleteField)

			types.GET("/:id/entries", entryHandler.List)
			types.POST("/:id/entries", entryHandler.Create)
			types.POST("/:id/entries/bulk", entryHandler.Bulk)
			types.GET("/:id/export", exportHandler.StreamExport)
		}

		entries := v1.Group("/entries")
		{
			entries.GET("/:id", entryHandler.Get)
			entries.PATCH("/:id", entryHandler.Update)
			entries.DELETE("/:id", entryHandler.Delete)
			entries.GET("/:id/preview", publicHandler.Preview)
			entries.PUT("/:id/tags", tagHandler.SetEntryTags)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", tagHandler.List)
			tags.POST("", tagHandler.Create)
			tags.GET("/:id", tagHandler.Get)
			tags.DELETE("/:id", tagHandler.Delete)
		}

		media := v1.Group("/media")
		{
			media.GET("", mediaHandler.List)
			media.POST("", mediaHandler.Upload)
			media.GET("/:id", mediaHandler.Get)
			media.GET("/:id/file", mediaHandler.Download)
			media.DELETE("/:id", mediaHandler.Delete)
		}

		v1.GET("/bulk-actions", entryHandler.BulkActions)
		v1.POST("/scheduler/run", entryHandler.PublishDue)

		public := v1.Group("/public")
		{
			public.GET("/:type_slug", publicHandler.List)
			public.GET("/:type_slug/:entry_slug", publicHandler.Get)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(health HealthFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if health != nil {
			ctx, cancel := contextWithTimeout(c, 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "content-modeling-api",
		})
	}
}

// metricsHandler returns content counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		typesCount, _ := services.Export.GetCount(ctx, "content_types")
		entriesCount, _ := services.Export.GetCount(ctx, "entries")
		mediaCount, _ := services.Export.GetCount(ctx, "media")
		tagsCount, _ := services.Export.GetCount(ctx, "tags")

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"content_types": typesCount,
				"entries":       entriesCount,
				"media":         mediaCount,
				"tags":          tagsCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
