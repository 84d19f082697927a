package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"

	"github.com/bwayne222/youtube-video-downloader/models"
)

// Innertube queries YouTube's internal player API directly. Highest
// priority: no third-party middleman and no credential needed.
type Innertube struct {
	client  youtube.Client
	timeout time.Duration
}

func NewInnertube(timeout time.Duration) *Innertube {
	return &Innertube{timeout: timeout}
}

func (p *Innertube) Name() string { return "innertube" }

func (p *Innertube) Timeout() time.Duration { return p.timeout }

func (p *Innertube) Fetch(ctx context.Context, videoID string) ([]models.StreamDescriptor, error) {
	video, err := p.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("player api: %w", err)
	}
	streams := make([]models.StreamDescriptor, 0, len(video.Formats))
	for i := range video.Formats {
		f := &video.Formats[i]
		url := f.URL
		if url == "" {
			// ciphered formats need the player js to produce a direct URL
			url, err = p.client.GetStreamURLContext(ctx, video, f)
			if err != nil {
				continue
			}
		}
		streams = append(streams, models.StreamDescriptor{
			URL:          url,
			MimeType:     f.MimeType,
			Quality:      f.Quality,
			QualityLabel: f.QualityLabel,
			Bitrate:      f.Bitrate,
			Height:       f.Height,
			HasAudio:     f.AudioChannels > 0 || strings.HasPrefix(f.MimeType, "audio/"),
			HasVideo:     strings.HasPrefix(f.MimeType, "video/"),
		})
	}
	if len(streams) == 0 {
		return nil, ErrNoStreams
	}
	return streams, nil
}
