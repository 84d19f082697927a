package models

import (
	"time"

	"gorm.io/gorm"
)

type ResolutionStatus string

const (
	ResolutionOK          ResolutionStatus = "ok"
	ResolutionNoMatch     ResolutionStatus = "no_match"
	ResolutionUpstreamErr ResolutionStatus = "upstream_error"
)

// Resolution records one resolution attempt for the history endpoint.
// Nothing in the resolve path depends on it; writes are best effort.
type Resolution struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	VideoID   string           `gorm:"size:32;index" json:"video_id"`
	Quality   string           `gorm:"size:16" json:"quality"`
	Provider  string           `gorm:"size:64" json:"provider"`
	Status    ResolutionStatus `gorm:"size:32;index" json:"status"`
	LatencyMs int64            `json:"latency_ms"`
	ErrorMsg  string           `gorm:"size:1024" json:"error_msg,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}
