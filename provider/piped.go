package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bwayne222/youtube-video-downloader/log"
	"github.com/bwayne222/youtube-video-downloader/models"
)

// Piped queries public Piped mirror instances. Instances come from a
// function so the health checker can reorder the pool between requests.
// Each instance gets its own timeout; the first one answering with a
// non-empty stream list wins.
type Piped struct {
	instances func() []string
	timeout   time.Duration
	http      *http.Client
}

func NewPiped(instances func() []string, perInstanceTimeout time.Duration) *Piped {
	return &Piped{
		instances: instances,
		timeout:   perInstanceTimeout,
		http:      &http.Client{},
	}
}

func (p *Piped) Name() string { return "piped" }

// Timeout covers the whole instance sweep.
func (p *Piped) Timeout() time.Duration {
	n := len(p.instances())
	if n == 0 {
		n = 1
	}
	return time.Duration(n) * p.timeout
}

type pipedStream struct {
	URL       string `json:"url"`
	MimeType  string `json:"mimeType"`
	Quality   string `json:"quality"`
	Bitrate   int    `json:"bitrate"`
	Height    int    `json:"height"`
	VideoOnly bool   `json:"videoOnly"`
}

type pipedResponse struct {
	Error        string        `json:"error"`
	VideoStreams []pipedStream `json:"videoStreams"`
	AudioStreams []pipedStream `json:"audioStreams"`
}

func (p *Piped) Fetch(ctx context.Context, videoID string) ([]models.StreamDescriptor, error) {
	instances := p.instances()
	if len(instances) == 0 {
		return nil, ErrNotConfigured
	}
	var lastErr error
	for _, instance := range instances {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		streams, err := p.fetchInstance(ctx, instance, videoID)
		if err != nil {
			log.Debug("piped instance %s failed for %s: %v", instance, videoID, err)
			lastErr = err
			continue
		}
		return streams, nil
	}
	return nil, fmt.Errorf("all piped instances failed: %w", lastErr)
}

func (p *Piped) fetchInstance(ctx context.Context, instance, videoID string) ([]models.StreamDescriptor, error) {
	ictx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ictx, http.MethodGet, instance+"/streams/"+videoID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, err
	}
	var parsed pipedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("instance error: %s", parsed.Error)
	}

	streams := make([]models.StreamDescriptor, 0, len(parsed.VideoStreams)+len(parsed.AudioStreams))
	for _, s := range parsed.VideoStreams {
		if s.URL == "" {
			continue
		}
		streams = append(streams, models.StreamDescriptor{
			URL:          s.URL,
			MimeType:     s.MimeType,
			QualityLabel: s.Quality,
			Bitrate:      s.Bitrate,
			Height:       s.Height,
			HasAudio:     !s.VideoOnly,
			HasVideo:     true,
		})
	}
	for _, s := range parsed.AudioStreams {
		if s.URL == "" {
			continue
		}
		streams = append(streams, models.StreamDescriptor{
			URL:      s.URL,
			MimeType: s.MimeType,
			Quality:  s.Quality,
			Bitrate:  s.Bitrate,
			HasAudio: true,
		})
	}
	if len(streams) == 0 {
		return nil, ErrNoStreams
	}
	return streams, nil
}
