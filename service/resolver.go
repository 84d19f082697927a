package service

import (
	"context"
	"time"

	"github.com/bwayne222/youtube-video-downloader/dao"
	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/models"
	"github.com/bwayne222/youtube-video-downloader/utils"
)

// Fetcher is what the resolver needs from the provider chain.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) ([]models.StreamDescriptor, string, error)
}

// ResultCache is what the resolver needs from the result cache. A miss
// reads as (nil, false); Set failures are logged, never fatal.
type ResultCache interface {
	Get(ctx context.Context, videoID, quality string) (*models.ResolutionResult, bool)
	Set(ctx context.Context, videoID, quality string, res *models.ResolutionResult, ttl time.Duration) error
}

// daoCache backs ResultCache with the shared redis client.
type daoCache struct{}

func (daoCache) Get(ctx context.Context, videoID, quality string) (*models.ResolutionResult, bool) {
	return dao.CachedResult(ctx, videoID, quality)
}

func (daoCache) Set(ctx context.Context, videoID, quality string, res *models.ResolutionResult, ttl time.Duration) error {
	return dao.CacheResult(ctx, videoID, quality, res, ttl)
}

// Resolver runs one resolution request end to end: cache lookup, chain
// fetch, stream selection, cache fill and history record.
type Resolver struct {
	chain    Fetcher
	cache    ResultCache
	cacheTTL time.Duration
}

func NewResolver(chain Fetcher, cacheTTL time.Duration) *Resolver {
	return &Resolver{chain: chain, cache: daoCache{}, cacheTTL: cacheTTL}
}

// Resolve maps a video id and requested quality to a direct media URL.
// Errors surface the chain/selection sentinels for the handler to map to
// status codes; nothing is retried here.
func (r *Resolver) Resolve(ctx context.Context, videoID, quality string) (*models.ResolutionResult, error) {
	if quality == "" {
		quality = models.DefaultQuality
	}
	if res, ok := r.cache.Get(ctx, videoID, quality); ok {
		log.Debug("cache hit for %s/%s", videoID, quality)
		return res, nil
	}

	start := time.Now()
	streams, providerName, err := r.chain.Fetch(ctx, videoID)
	if err != nil {
		r.record(videoID, quality, providerName, models.ResolutionUpstreamErr, start, err)
		return nil, err
	}

	res, err := SelectStream(streams, quality)
	if err != nil {
		r.record(videoID, quality, providerName, models.ResolutionNoMatch, start, err)
		return nil, err
	}
	if res.URL == "" {
		r.record(videoID, quality, providerName, models.ResolutionNoMatch, start, ErrDirectUnavailable)
		return nil, ErrDirectUnavailable
	}

	if err := r.cache.Set(ctx, videoID, quality, res, r.cacheTTL); err != nil {
		log.Warn("cache fill for %s/%s: %v", videoID, quality, err)
	}
	r.record(videoID, quality, providerName, models.ResolutionOK, start, nil)
	return res, nil
}

func (r *Resolver) record(videoID, quality, providerName string, status models.ResolutionStatus, start time.Time, cause error) {
	rec := &models.Resolution{
		VideoID:   videoID,
		Quality:   quality,
		Provider:  providerName,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if cause != nil {
		rec.ErrorMsg = cause.Error()
	}
	utils.SafeCall(func() {
		if err := dao.RecordResolution(rec); err != nil {
			log.Warn("record resolution for %s: %v", videoID, err)
		}
	})
}
