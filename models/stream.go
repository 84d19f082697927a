package models

import (
	"regexp"
	"strconv"
)

// Quality values accepted by the resolver. "audio" requests an audio-only
// stream; everything else is a target height in pixels.
const (
	QualityAudio   = "audio"
	DefaultQuality = "720"
)

// MediaType of the stream handed back to the client.
const (
	TypeAudio = "audio"
	TypeVideo = "video"
)

// StreamDescriptor is one candidate stream as reported by an upstream
// provider. It lives only for the duration of a single resolution request.
type StreamDescriptor struct {
	URL          string `json:"url"`
	MimeType     string `json:"mimeType,omitempty"`
	Quality      string `json:"quality,omitempty"`
	QualityLabel string `json:"qualityLabel,omitempty"`
	Bitrate      int    `json:"bitrate,omitempty"`
	Height       int    `json:"height,omitempty"`
	HasAudio     bool   `json:"hasAudio"`
	HasVideo     bool   `json:"hasVideo"`
}

// Combined reports whether the descriptor carries both tracks in one file.
func (s StreamDescriptor) Combined() bool {
	return s.HasAudio && s.HasVideo
}

var (
	labelHeightRe   = regexp.MustCompile(`^(\d{3,4})p`)
	qualityHeightRe = regexp.MustCompile(`(\d{3,4})$`)
)

// EffectiveHeight is the declared height, falling back to whatever can be
// read out of the quality label ("720p60" -> 720) or the quality name
// ("hd1080" -> 1080) when the upstream omitted the numeric field.
func (s StreamDescriptor) EffectiveHeight() int {
	if s.Height > 0 {
		return s.Height
	}
	if m := labelHeightRe.FindStringSubmatch(s.QualityLabel); m != nil {
		h, _ := strconv.Atoi(m[1])
		return h
	}
	if m := qualityHeightRe.FindStringSubmatch(s.Quality); m != nil {
		h, _ := strconv.Atoi(m[1])
		return h
	}
	return 0
}

// ResolveRequest is the body of POST /resolve.
type ResolveRequest struct {
	VideoID string `json:"videoId"`
	Quality string `json:"quality"`
}

// ResolutionResult is returned to the client on success. AudioURL is set
// only when the chosen video stream carries no audio track, so the client
// knows a separate audio fetch is needed.
type ResolutionResult struct {
	URL       string `json:"url"`
	MimeType  string `json:"mimeType,omitempty"`
	Type      string `json:"type"`
	Quality   string `json:"quality,omitempty"`
	VideoOnly bool   `json:"videoOnly,omitempty"`
	AudioURL  string `json:"audioUrl,omitempty"`
}

// VideoMetadata backs the client's preview card.
type VideoMetadata struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
