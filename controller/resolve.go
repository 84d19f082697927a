package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bwayne222/youtube-video-downloader/dao"
	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/models"
	"github.com/bwayne222/youtube-video-downloader/provider"
	"github.com/bwayne222/youtube-video-downloader/service"
	"github.com/bwayne222/youtube-video-downloader/utils"
)

// StreamResolver is what the handlers need from the service layer.
type StreamResolver interface {
	Resolve(ctx context.Context, videoID, quality string) (*models.ResolutionResult, error)
}

type Handler struct {
	resolver   StreamResolver
	http       *http.Client
	oembedBase string
	watchBase  string
}

func NewHandler(resolver StreamResolver) *Handler {
	return &Handler{
		resolver:   resolver,
		http:       &http.Client{},
		oembedBase: "https://www.youtube.com/oembed",
		watchBase:  "https://www.youtube.com",
	}
}

// Resolve handles POST /resolve: {videoId, quality} in, ResolutionResult
// out. Every failure is a JSON error payload; nothing escapes the handler.
func (h *Handler) Resolve(c *gin.Context) {
	var req models.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VideoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoId is required"})
		return
	}
	videoID := req.VideoID
	if id, err := utils.ExtractVideoID(videoID); err == nil {
		videoID = id
	}

	res, err := h.resolver.Resolve(c.Request.Context(), videoID, req.Quality)
	if err != nil {
		h.writeResolveError(c, videoID, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) writeResolveError(c *gin.Context, videoID string, err error) {
	switch {
	case errors.Is(err, service.ErrNoMatchingStream):
		c.JSON(http.StatusNotFound, gin.H{"error": "no stream available for the requested quality"})
	case errors.Is(err, service.ErrDirectUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       "direct_download_unavailable",
			"fallbackUrl": utils.WatchURL(videoID),
		})
	case errors.Is(err, provider.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no upstream provider configured"})
	case errors.Is(err, provider.ErrAllProvidersFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "all upstream providers failed"})
	default:
		log.Error("resolve %s: %v", videoID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// ListResolutions returns the recent history, newest first.
func (h *Handler) ListResolutions(c *gin.Context) {
	records, err := dao.RecentResolutions(50)
	if err != nil {
		if errors.Is(err, dao.ErrHistoryDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history store not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolutions": records})
}
