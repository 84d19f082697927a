package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/bwayne222/youtube-video-downloader/models"
)

var (
	// ErrNoMatchingStream means providers answered but nothing fits the
	// requested quality.
	ErrNoMatchingStream = errors.New("no stream matches the requested quality")

	// ErrDirectUnavailable means the best candidate has no direct URL;
	// the caller should send the user to the watch page instead.
	ErrDirectUnavailable = errors.New("direct download unavailable")
)

// SelectStream picks the best descriptor for the requested quality.
//
// For "audio", audio-only streams win on highest bitrate, with combined
// streams as the fallback. For a numeric target, combined streams are
// preferred over video-only ones, and within the eligible subset the winner
// minimizes |height - target|. This is a nearest match, not a quality
// ladder: a 144p-only catalog asked for 2160 yields 144p.
func SelectStream(streams []models.StreamDescriptor, quality string) (*models.ResolutionResult, error) {
	if quality == "" {
		quality = models.DefaultQuality
	}
	if quality == models.QualityAudio {
		return selectAudio(streams)
	}
	target, err := strconv.Atoi(quality)
	if err != nil {
		target, _ = strconv.Atoi(models.DefaultQuality)
	}
	return selectVideo(streams, target)
}

func selectAudio(streams []models.StreamDescriptor) (*models.ResolutionResult, error) {
	if best := bestAudio(streams); best != nil {
		return &models.ResolutionResult{
			URL:      best.URL,
			MimeType: best.MimeType,
			Type:     models.TypeAudio,
			Quality:  qualityLabel(*best),
		}, nil
	}
	// no pure audio track published; a combined stream still plays
	var best *models.StreamDescriptor
	for i := range streams {
		s := &streams[i]
		if !s.Combined() {
			continue
		}
		if best == nil || s.Bitrate > best.Bitrate {
			best = s
		}
	}
	if best == nil {
		return nil, ErrNoMatchingStream
	}
	return &models.ResolutionResult{
		URL:      best.URL,
		MimeType: best.MimeType,
		Type:     models.TypeAudio,
		Quality:  qualityLabel(*best),
	}, nil
}

func bestAudio(streams []models.StreamDescriptor) *models.StreamDescriptor {
	var best *models.StreamDescriptor
	for i := range streams {
		s := &streams[i]
		if !s.HasAudio || s.HasVideo {
			continue
		}
		if best == nil || s.Bitrate > best.Bitrate {
			best = s
		}
	}
	return best
}

func selectVideo(streams []models.StreamDescriptor, target int) (*models.ResolutionResult, error) {
	eligible := make([]models.StreamDescriptor, 0, len(streams))
	for _, s := range streams {
		if s.Combined() {
			eligible = append(eligible, s)
		}
	}
	videoOnly := false
	if len(eligible) == 0 {
		for _, s := range streams {
			if s.HasVideo && !s.HasAudio {
				eligible = append(eligible, s)
			}
		}
		videoOnly = true
	}
	if len(eligible) == 0 {
		return nil, ErrNoMatchingStream
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return absDiff(eligible[i].EffectiveHeight(), target) < absDiff(eligible[j].EffectiveHeight(), target)
	})
	chosen := eligible[0]

	res := &models.ResolutionResult{
		URL:       chosen.URL,
		MimeType:  chosen.MimeType,
		Type:      models.TypeVideo,
		Quality:   qualityLabel(chosen),
		VideoOnly: videoOnly,
	}
	if videoOnly {
		// tell the caller where to source the missing audio track
		if audio := bestAudio(streams); audio != nil {
			res.AudioURL = audio.URL
		}
	}
	return res, nil
}

func qualityLabel(s models.StreamDescriptor) string {
	if s.QualityLabel != "" {
		return s.QualityLabel
	}
	if h := s.EffectiveHeight(); h > 0 {
		return fmt.Sprintf("%dp", h)
	}
	return s.Quality
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
