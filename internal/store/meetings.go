package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillsenselab/meetstream/internal/apperrors"
)

// MeetingRepository provides access to the meeting aggregate.
type MeetingRepository struct {
	db *DB
}

// NewMeetingRepository creates a repository over the given database.
func NewMeetingRepository(db *DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create stores a new meeting.
func (r *MeetingRepository) Create(ctx context.Context, meeting *Meeting) error {
	if meeting.Status == "" {
		meeting.Status = StatusPending
	}
	if err := r.db.WithContext(ctx).Create(meeting).Error; err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

// GetByID fetches a meeting by its identifier.
func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*Meeting, error) {
	var meeting Meeting
	err := r.db.WithContext(ctx).First(&meeting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.MeetingNotFound(id.String())
		}
		return nil, apperrors.PersistenceFailure(err)
	}
	return &meeting, nil
}

// MarkProcessing transitions a pending meeting to processing. Meetings in any
// other status are left untouched; completed and failed are terminal for this
// service.
func (r *MeetingRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&Meeting{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusProcessing).Error
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}
