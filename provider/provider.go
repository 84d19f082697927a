// Package provider implements the upstream extraction services and the
// fixed-priority fallback chain over them.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/models"
)

var (
	// ErrNotConfigured marks a provider that cannot run because it is
	// missing a credential. It is skipped, not counted as an attempt.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrNoStreams means the provider answered but its stream list was
	// empty or unusable.
	ErrNoStreams = errors.New("provider returned no streams")

	// ErrAllProvidersFailed means every configured provider was attempted
	// and none yielded a non-empty stream list.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

// Provider is one upstream extraction service.
type Provider interface {
	Name() string

	// Timeout bounds a single Fetch. A provider exceeding it is abandoned
	// and the chain moves on.
	Timeout() time.Duration

	// Fetch returns candidate streams for a video id.
	Fetch(ctx context.Context, videoID string) ([]models.StreamDescriptor, error)
}

// Chain tries providers one at a time in fixed order and stops at the first
// non-empty stream list. Providers are never queried in parallel and a
// failed provider is never retried within a request.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Fetch runs the chain. It returns the winning provider's streams and name.
// Exhausting the chain yields ErrNotConfigured when every provider was
// skipped for missing credentials, ErrAllProvidersFailed otherwise.
func (c *Chain) Fetch(ctx context.Context, videoID string) ([]models.StreamDescriptor, string, error) {
	attempted := 0
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		pctx, cancel := context.WithTimeout(ctx, p.Timeout())
		streams, err := p.Fetch(pctx, videoID)
		cancel()
		if errors.Is(err, ErrNotConfigured) {
			log.Debug("provider %s skipped: not configured", p.Name())
			continue
		}
		attempted++
		if err != nil {
			log.Warn("provider %s failed for %s: %v", p.Name(), videoID, err)
			continue
		}
		if len(streams) == 0 {
			log.Warn("provider %s returned empty stream list for %s", p.Name(), videoID)
			continue
		}
		log.Info("provider %s resolved %s with %d streams", p.Name(), videoID, len(streams))
		return streams, p.Name(), nil
	}
	if attempted == 0 {
		return nil, "", ErrNotConfigured
	}
	return nil, "", ErrAllProvidersFailed
}
