package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillsenselab/meetstream/internal/apperrors"
)

// FragmentRepository provides read access to transcript fragments. Writes go
// through the Coordinator so they stay transactional with meeting status.
type FragmentRepository struct {
	db *DB
}

// NewFragmentRepository creates a repository over the given database.
func NewFragmentRepository(db *DB) *FragmentRepository {
	return &FragmentRepository{db: db}
}

// ListByMeeting returns a meeting's fragments in transcript order.
func (r *FragmentRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]TranscriptFragment, error) {
	var fragments []TranscriptFragment
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("position ASC").
		Find(&fragments).Error
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	return fragments, nil
}
