package api

import (
	"github.com/gin-gonic/gin"

	"sjsage522/pharmaimport/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())

	router.GET("/health", handler.HealthCheck)

	admin := router.Group("/api/admin")
	{
		admin.POST("/import-brands", handler.ImportBrands)
		admin.POST("/import-from-url", handler.ImportFromURL)
		admin.POST("/import-products", handler.ImportProducts)
		admin.DELETE("/partner-blocks/:host", handler.UnblockPartner)
	}

	return router
}
