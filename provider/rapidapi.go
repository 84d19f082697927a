package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwayne222/youtube-video-downloader/models"
)

const maxUpstreamBody = 10 * 1024 * 1024

// RapidAPI queries a RapidAPI-hosted YouTube scraper (the ytstream API
// shape: combined streams under "formats", split tracks under
// "adaptiveFormats"). Skipped entirely when no API key is configured.
type RapidAPI struct {
	key      string
	host     string
	endpoint string
	timeout  time.Duration
	http     *http.Client
}

func NewRapidAPI(key, host string, timeout time.Duration) *RapidAPI {
	return &RapidAPI{
		key:      key,
		host:     host,
		endpoint: "https://" + host,
		timeout:  timeout,
		http:     &http.Client{},
	}
}

func (p *RapidAPI) Name() string { return "rapidapi" }

func (p *RapidAPI) Timeout() time.Duration { return p.timeout }

type rapidFormat struct {
	URL          string `json:"url"`
	MimeType     string `json:"mimeType"`
	Quality      string `json:"quality"`
	QualityLabel string `json:"qualityLabel"`
	Bitrate      int    `json:"bitrate"`
	Height       int    `json:"height"`
}

type rapidResponse struct {
	Status          string        `json:"status"`
	Title           string        `json:"title"`
	Formats         []rapidFormat `json:"formats"`
	AdaptiveFormats []rapidFormat `json:"adaptiveFormats"`
}

func (p *RapidAPI) Fetch(ctx context.Context, videoID string) ([]models.StreamDescriptor, error) {
	if p.key == "" {
		return nil, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"/dl?id="+videoID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", p.key)
	req.Header.Set("X-RapidAPI-Host", p.host)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rapidapi status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, err
	}
	var parsed rapidResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("rapidapi payload: %w", err)
	}
	if parsed.Status != "" && !strings.EqualFold(parsed.Status, "ok") {
		return nil, fmt.Errorf("rapidapi status %q", parsed.Status)
	}

	streams := make([]models.StreamDescriptor, 0, len(parsed.Formats)+len(parsed.AdaptiveFormats))
	for _, f := range parsed.Formats {
		if f.URL == "" {
			continue
		}
		// progressive formats always mux both tracks
		streams = append(streams, descriptorFrom(f, true, true))
	}
	for _, f := range parsed.AdaptiveFormats {
		if f.URL == "" {
			continue
		}
		audio := strings.HasPrefix(f.MimeType, "audio/")
		streams = append(streams, descriptorFrom(f, audio, !audio))
	}
	if len(streams) == 0 {
		return nil, ErrNoStreams
	}
	return streams, nil
}

func descriptorFrom(f rapidFormat, hasAudio, hasVideo bool) models.StreamDescriptor {
	return models.StreamDescriptor{
		URL:          f.URL,
		MimeType:     f.MimeType,
		Quality:      f.Quality,
		QualityLabel: f.QualityLabel,
		Bitrate:      f.Bitrate,
		Height:       f.Height,
		HasAudio:     hasAudio,
		HasVideo:     hasVideo,
	}
}
