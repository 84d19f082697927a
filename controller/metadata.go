package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"

	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/models"
	"github.com/bwayne222/youtube-video-downloader/utils"
)

const metadataTimeout = 8 * time.Second

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Metadata handles GET /api/metadata?videoId=|url= and backs the client's
// preview card. oEmbed is the primary source; the watch page's OpenGraph
// tags are the fallback when oEmbed is down.
func (h *Handler) Metadata(c *gin.Context) {
	raw := c.Query("videoId")
	if raw == "" {
		raw = c.Query("url")
	}
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoId is required"})
		return
	}
	videoID, err := utils.ExtractVideoID(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a recognizable video id or url"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), metadataTimeout)
	defer cancel()

	meta, err := h.fetchOembed(ctx, videoID)
	if err != nil {
		log.Debug("oembed for %s: %v", videoID, err)
		meta, err = h.scrapeWatchPage(ctx, videoID)
	}
	if err != nil {
		log.Warn("metadata for %s: %v", videoID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not fetch details"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (h *Handler) fetchOembed(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	endpoint := h.oembedBase + "?format=json&url=" + url.QueryEscape(utils.WatchURL(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var parsed oembedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	if parsed.Title == "" {
		return nil, fmt.Errorf("oembed returned no title")
	}
	return &models.VideoMetadata{
		Title:     parsed.Title,
		Author:    parsed.AuthorName,
		Thumbnail: parsed.ThumbnailURL,
	}, nil
}

func (h *Handler) scrapeWatchPage(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.watchBase+"/watch?v="+videoID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page status %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	meta := &models.VideoMetadata{
		Title:     doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		Thumbnail: doc.Find(`meta[property="og:image"]`).AttrOr("content", ""),
		Author:    doc.Find(`link[itemprop="name"]`).AttrOr("content", ""),
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("watch page has no og:title")
	}
	return meta, nil
}
