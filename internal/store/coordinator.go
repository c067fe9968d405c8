package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillsenselab/meetstream/internal/apperrors"
	"github.com/skillsenselab/meetstream/internal/logger"
	"github.com/skillsenselab/meetstream/internal/processing"
)

// Coordinator persists processing results atomically. A successful call
// replaces the meeting's fragments and marks it completed; a failed call
// leaves no partial fragments behind and flips the meeting to failed on a
// best-effort basis.
type Coordinator struct {
	db  *DB
	log *logger.Logger
}

// NewCoordinator creates a coordinator over the given database.
func NewCoordinator(db *DB, log *logger.Logger) *Coordinator {
	return &Coordinator{db: db, log: log.WithComponent("store.coordinator")}
}

// Persist writes the result of processing a meeting in a single transaction:
// prior fragments are deleted, one fragment is inserted per event in order,
// and the meeting is marked completed with its summary. If the transaction
// fails the meeting is marked failed in a separate transaction whose own
// error is swallowed; the original error is returned.
func (c *Coordinator) Persist(ctx context.Context, meetingID uuid.UUID, result *processing.Result) error {
	err := c.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var meeting Meeting
		if err := tx.First(&meeting, "id = ?", meetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.MeetingNotFound(meetingID.String())
			}
			return apperrors.PersistenceFailure(err)
		}

		if err := tx.Where("meeting_id = ?", meetingID).Delete(&TranscriptFragment{}).Error; err != nil {
			return apperrors.PersistenceFailure(err)
		}

		for i, event := range result.Events {
			fragment := TranscriptFragment{
				MeetingID: meetingID,
				Speaker:   event.Speaker,
				Text:      event.Text,
				Position:  i,
				Timestamp: fragmentTimestamp(meeting.CreatedAt, event.Start),
			}
			if err := tx.Create(&fragment).Error; err != nil {
				return apperrors.PersistenceFailure(err)
			}
		}

		updates := map[string]interface{}{
			"status":  StatusCompleted,
			"summary": summaryValue(result.Summary),
		}
		if err := tx.Model(&Meeting{}).Where("id = ?", meetingID).Updates(updates).Error; err != nil {
			return apperrors.PersistenceFailure(err)
		}
		return nil
	})
	if err != nil {
		c.MarkFailed(ctx, meetingID)
		return err
	}
	return nil
}

// MarkFailed flips the meeting to failed and clears its summary. Errors are
// logged and swallowed so the caller's original error is what propagates.
func (c *Coordinator) MarkFailed(ctx context.Context, meetingID uuid.UUID) {
	err := c.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.Model(&Meeting{}).
			Where("id = ?", meetingID).
			Updates(map[string]interface{}{"status": StatusFailed, "summary": nil}).Error
	})
	if err != nil {
		c.log.WithError(err).Warn("failed to mark meeting as failed", map[string]interface{}{
			logger.FieldMeetingID: meetingID.String(),
		})
	}
}

// fragmentTimestamp derives an absolute wall-clock time for a fragment from
// the meeting creation time and the segment's start offset in seconds.
func fragmentTimestamp(createdAt time.Time, start *float64) *time.Time {
	if start == nil || createdAt.IsZero() {
		return nil
	}
	ts := createdAt.Add(time.Duration(*start * float64(time.Second)))
	return &ts
}

func summaryValue(summary string) interface{} {
	trimmed := strings.TrimSpace(summary)
	if trimmed == "" {
		return nil
	}
	return trimmed
}
