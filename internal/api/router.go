package api

import (
	"net/http"
	"time"

	"github.com/autosphere/autosphere-api/internal/config"
	"github.com/autosphere/autosphere-api/internal/events"
	"github.com/autosphere/autosphere-api/internal/metrics"
	"github.com/autosphere/autosphere-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, broadcaster *events.ArticleBroadcaster, collector *metrics.Collector, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log, collector))
	router.Use(corsMiddleware())

	// Handlers
	articleHandler := NewArticleHandler(services, broadcaster, log)
	subscriptionHandler := NewSubscriptionHandler(services, log)
	adminHandler := NewAdminHandler(services, log)

	// Health check and metrics
	router.GET("/health", healthCheck)
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	// API v1
	v1 := router.Group("/v1")
	{
		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.POST("", articleHandler.Create)
			articles.GET("/events", articleHandler.Events)
		}

		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("/subscribe", subscriptionHandler.Subscribe)
			subscriptions.POST("/unsubscribe", subscriptionHandler.Unsubscribe)
			subscriptions.GET("/stats", subscriptionHandler.Stats)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/login", loginRateLimiter(&cfg.Auth), adminHandler.Login)
			// Called from public article pages, so no bearer requirement
			admin.POST("/track-view", adminHandler.TrackView)

			authed := admin.Group("", bearerAuth(services.Admin))
			{
				authed.GET("/stats", adminHandler.Stats)
				authed.GET("/subscribers", adminHandler.Subscribers)
				authed.GET("/export", adminHandler.Export)
			}
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "autosphere-api",
	})
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

// loggingMiddleware logs requests and feeds the status counter
func loggingMiddleware(log zerolog.Logger, collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()
		collector.RecordHTTPStatus(statusCode)

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
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
