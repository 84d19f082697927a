package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/mdb"
	"github.com/bwayne222/youtube-video-downloader/models"
)

// ErrHistoryDisabled is returned when the history store is not configured.
var ErrHistoryDisabled = errors.New("resolution history disabled")

func cacheKey(videoID, quality string) string {
	return fmt.Sprintf("resolve:%s:%s", videoID, quality)
}

// CachedResult returns a previously resolved result, if any. All cache
// failures read as a miss.
func CachedResult(ctx context.Context, videoID, quality string) (*models.ResolutionResult, bool) {
	if mdb.Redis == nil {
		return nil, false
	}
	raw, err := mdb.Redis.Get(ctx, cacheKey(videoID, quality)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug("cache get %s: %v", cacheKey(videoID, quality), err)
		}
		return nil, false
	}
	var res models.ResolutionResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, false
	}
	return &res, true
}

// CacheResult stores a resolved result with a TTL. Direct media URLs
// expire upstream, so the TTL should stay well under their lifetime.
func CacheResult(ctx context.Context, videoID, quality string, res *models.ResolutionResult, ttl time.Duration) error {
	if mdb.Redis == nil {
		return nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return mdb.Redis.Set(ctx, cacheKey(videoID, quality), raw, ttl).Err()
}

// RecordResolution persists one resolution attempt. Best effort: a nil
// database makes this a no-op.
func RecordResolution(rec *models.Resolution) error {
	if mdb.Mysql == nil {
		return nil
	}
	return mdb.Mysql.Create(rec).Error
}

// RecentResolutions lists the latest attempts, newest first.
func RecentResolutions(limit int) ([]models.Resolution, error) {
	if mdb.Mysql == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 50
	}
	var out []models.Resolution
	if err := mdb.Mysql.Order("created_at desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
