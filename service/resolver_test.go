package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwayne222/youtube-video-downloader/models"
	"github.com/bwayne222/youtube-video-downloader/provider"
)

type fakeChain struct {
	streams []models.StreamDescriptor
	name    string
	err     error
	calls   int
}

func (f *fakeChain) Fetch(ctx context.Context, videoID string) ([]models.StreamDescriptor, string, error) {
	f.calls++
	return f.streams, f.name, f.err
}

type fakeCache struct {
	entries map[string]*models.ResolutionResult
	sets    int
	lastTTL time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*models.ResolutionResult)}
}

func (f *fakeCache) Get(ctx context.Context, videoID, quality string) (*models.ResolutionResult, bool) {
	res, ok := f.entries[videoID+"/"+quality]
	return res, ok
}

func (f *fakeCache) Set(ctx context.Context, videoID, quality string, res *models.ResolutionResult, ttl time.Duration) error {
	f.entries[videoID+"/"+quality] = res
	f.sets++
	f.lastTTL = ttl
	return nil
}

func TestResolveSuccess(t *testing.T) {
	chain := &fakeChain{
		name: "innertube",
		streams: []models.StreamDescriptor{
			{URL: "https://cdn/720", Height: 720, HasAudio: true, HasVideo: true, MimeType: "video/mp4"},
		},
	}
	r := NewResolver(chain, time.Minute)

	res, err := r.Resolve(context.Background(), "dQw4w9WgXcQ", "720")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.URL != "https://cdn/720" {
		t.Errorf("url = %q", res.URL)
	}
	if res.Type != models.TypeVideo {
		t.Errorf("type = %q, want video", res.Type)
	}
}

func TestResolveChainErrorPassesThrough(t *testing.T) {
	chain := &fakeChain{err: provider.ErrAllProvidersFailed}
	r := NewResolver(chain, time.Minute)

	_, err := r.Resolve(context.Background(), "vid", "720")
	if !errors.Is(err, provider.ErrAllProvidersFailed) {
		t.Fatalf("err = %v, want ErrAllProvidersFailed", err)
	}
}

func TestResolveNoMatch(t *testing.T) {
	chain := &fakeChain{
		name:    "piped",
		streams: []models.StreamDescriptor{{URL: "https://cdn/a", HasAudio: true}},
	}
	r := NewResolver(chain, time.Minute)

	_, err := r.Resolve(context.Background(), "vid", "720")
	if !errors.Is(err, ErrNoMatchingStream) {
		t.Fatalf("err = %v, want ErrNoMatchingStream", err)
	}
}

func TestResolveEmptyURLIsDirectUnavailable(t *testing.T) {
	chain := &fakeChain{
		name:    "innertube",
		streams: []models.StreamDescriptor{{Height: 720, HasAudio: true, HasVideo: true}},
	}
	r := NewResolver(chain, time.Minute)

	_, err := r.Resolve(context.Background(), "vid", "720")
	if !errors.Is(err, ErrDirectUnavailable) {
		t.Fatalf("err = %v, want ErrDirectUnavailable", err)
	}
}

func TestResolveCacheHitSkipsChain(t *testing.T) {
	// the chain would fail; a warm cache must answer before it is asked
	chain := &fakeChain{err: provider.ErrAllProvidersFailed}
	r := NewResolver(chain, time.Minute)
	cache := newFakeCache()
	cache.entries["vid/720"] = &models.ResolutionResult{URL: "https://cdn/cached", Type: models.TypeVideo}
	r.cache = cache

	res, err := r.Resolve(context.Background(), "vid", "720")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.URL != "https://cdn/cached" {
		t.Errorf("url = %q, want the cached entry", res.URL)
	}
	if chain.calls != 0 {
		t.Errorf("chain fetched %d times, want 0 on a warm cache", chain.calls)
	}
}

func TestResolveFillsCacheOnSuccess(t *testing.T) {
	chain := &fakeChain{
		name: "innertube",
		streams: []models.StreamDescriptor{
			{URL: "https://cdn/720", Height: 720, HasAudio: true, HasVideo: true},
		},
	}
	r := NewResolver(chain, 30*time.Minute)
	cache := newFakeCache()
	r.cache = cache

	if _, err := r.Resolve(context.Background(), "vid", "720"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}
	if cache.lastTTL != 30*time.Minute {
		t.Errorf("cache ttl = %v, want 30m", cache.lastTTL)
	}

	if _, err := r.Resolve(context.Background(), "vid", "720"); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if chain.calls != 1 {
		t.Errorf("chain fetched %d times, want 1 with a filled cache", chain.calls)
	}
}

func TestResolveFailureNotCached(t *testing.T) {
	chain := &fakeChain{
		name:    "piped",
		streams: []models.StreamDescriptor{{URL: "https://cdn/a", HasAudio: true}},
	}
	r := NewResolver(chain, time.Minute)
	cache := newFakeCache()
	r.cache = cache

	if _, err := r.Resolve(context.Background(), "vid", "720"); err == nil {
		t.Fatal("expected no-match error")
	}
	if cache.sets != 0 {
		t.Errorf("cache sets = %d, failures must not be cached", cache.sets)
	}
}

func TestResolveDefaultsEmptyQuality(t *testing.T) {
	chain := &fakeChain{
		name: "innertube",
		streams: []models.StreamDescriptor{
			{URL: "https://cdn/v", Height: 360, HasAudio: true, HasVideo: true},
		},
	}
	r := NewResolver(chain, time.Minute)

	res, err := r.Resolve(context.Background(), "vid", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Type != models.TypeVideo {
		t.Errorf("type = %q", res.Type)
	}
}
