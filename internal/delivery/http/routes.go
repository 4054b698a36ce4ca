package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dealscope/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, metrics *Metrics, logger zerolog.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if metrics != nil {
		router.Use(metrics.Middleware())
		router.GET("/metrics", metrics.Handler())
	}

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	}
	{
		v1.GET("/deals", handler.SearchDeals)
		v1.GET("/query/parse", handler.ParseQuery)
		v1.GET("/categories/stats", handler.CategoryStats)
		v1.POST("/recommendations", handler.RecommendFromMultiple)
		v1.POST("/catalog/refresh", handler.RefreshCatalog)

		products := v1.Group("/products")
		{
			products.GET("/:id", handler.GetProduct)
			products.GET("/:id/recommendations", handler.GetRecommendations)
			products.GET("/:id/similarity/:otherId", handler.CompareProducts)
		}
	}

	return router
}
