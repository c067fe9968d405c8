package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingStatus tracks a meeting through the processing pipeline.
type MeetingStatus string

const (
	// StatusPending marks a meeting whose audio is uploaded but unprocessed.
	StatusPending MeetingStatus = "pending"
	// StatusProcessing marks a meeting whose stream has started.
	StatusProcessing MeetingStatus = "processing"
	// StatusCompleted marks a meeting whose result was persisted.
	StatusCompleted MeetingStatus = "completed"
	// StatusFailed marks a meeting whose processing or persistence failed.
	StatusFailed MeetingStatus = "failed"
)

// Meeting is the persisted meeting aggregate.
type Meeting struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Title     string        `gorm:"size:255"`
	Status    MeetingStatus `gorm:"size:16;not null;default:pending"`
	Summary   *string
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate generates an ID if not already set.
func (m *Meeting) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TranscriptFragment is one persisted row per meeting event. Fragments are
// replaced wholesale on every successful processing run.
type TranscriptFragment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MeetingID uuid.UUID `gorm:"type:uuid;index;not null"`
	Speaker   string    `gorm:"size:255;not null"`
	Text      string    `gorm:"not null"`
	Timestamp *time.Time
	Position  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// BeforeCreate generates an ID if not already set.
func (f *TranscriptFragment) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
