package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bwayne222/youtube-video-downloader/config"
	"github.com/bwayne222/youtube-video-downloader/controller"
	"github.com/bwayne222/youtube-video-downloader/middleware"
)

// API builds the gin engine: public resolve/metadata endpoints plus the
// signed admin group.
func API(h *controller.Handler) *gin.Engine {
	cfg := config.Get()
	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// public
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	router.POST("/resolve", h.Resolve)
	router.GET("/api/metadata", h.Metadata)

	// admin, signature-checked when a salt is configured
	admin := router.Group("/api", middleware.RequestAuthMiddleware())
	{
		admin.GET("/resolutions", h.ListResolutions)
	}
	return router
}
