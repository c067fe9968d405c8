package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/meetstream/internal/apperrors"
	"github.com/skillsenselab/meetstream/internal/logger"
	"github.com/skillsenselab/meetstream/internal/processing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{Driver: "sqlite", DSN: "file::memory:"}, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func fp(v float64) *float64 { return &v }

func createMeeting(t *testing.T, db *DB) *Meeting {
	t.Helper()
	meeting := &Meeting{Title: "standup"}
	if err := NewMeetingRepository(db).Create(context.Background(), meeting); err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	return meeting
}

func testResult() *processing.Result {
	return &processing.Result{
		Events: []processing.MeetingEvent{
			{Speaker: "S1", Text: "Hello", Start: fp(0), End: fp(1)},
			{Speaker: "S2", Text: "World", Start: fp(1), End: fp(2)},
		},
		Summary: "A greeting.",
	}
}

func TestCoordinator_Persist_Success(t *testing.T) {
	db := openTestDB(t)
	meeting := createMeeting(t, db)
	c := NewCoordinator(db, logger.NewDefault("test"))

	if err := c.Persist(context.Background(), meeting.ID, testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := NewMeetingRepository(db).GetByID(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if stored.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", stored.Status)
	}
	if stored.Summary == nil || *stored.Summary != "A greeting." {
		t.Errorf("expected summary, got %v", stored.Summary)
	}

	fragments, err := NewFragmentRepository(db).ListByMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("list fragments: %v", err)
	}
	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
	if fragments[0].Speaker != "S1" || fragments[0].Position != 0 {
		t.Errorf("unexpected first fragment: %+v", fragments[0])
	}
	if fragments[1].Text != "World" || fragments[1].Position != 1 {
		t.Errorf("unexpected second fragment: %+v", fragments[1])
	}
}

func TestCoordinator_Persist_TimestampFromCreatedAt(t *testing.T) {
	db := openTestDB(t)
	meeting := createMeeting(t, db)
	c := NewCoordinator(db, logger.NewDefault("test"))

	result := &processing.Result{
		Events: []processing.MeetingEvent{
			{Speaker: "S1", Text: "a", Start: fp(90)},
			{Speaker: "S1", Text: "b"}, // no start
		},
	}
	if err := c.Persist(context.Background(), meeting.ID, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fragments, err := NewFragmentRepository(db).ListByMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("list fragments: %v", err)
	}
	if fragments[0].Timestamp == nil {
		t.Fatal("expected timestamp on fragment with start offset")
	}
	want := meeting.CreatedAt.Add(90 * time.Second)
	if got := *fragments[0].Timestamp; !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if fragments[1].Timestamp != nil {
		t.Error("expected nil timestamp without start offset")
	}
}

func TestCoordinator_Persist_ReplacesPriorFragments(t *testing.T) {
	db := openTestDB(t)
	meeting := createMeeting(t, db)
	c := NewCoordinator(db, logger.NewDefault("test"))

	if err := c.Persist(context.Background(), meeting.ID, testResult()); err != nil {
		t.Fatalf("first persist: %v", err)
	}

	rerun := &processing.Result{
		Events:  []processing.MeetingEvent{{Speaker: "S3", Text: "Replaced"}},
		Summary: "New summary.",
	}
	if err := c.Persist(context.Background(), meeting.ID, rerun); err != nil {
		t.Fatalf("second persist: %v", err)
	}

	fragments, err := NewFragmentRepository(db).ListByMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("list fragments: %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("expected prior fragments replaced, got %d", len(fragments))
	}
	if fragments[0].Speaker != "S3" {
		t.Errorf("expected S3, got %q", fragments[0].Speaker)
	}
}

func TestCoordinator_Persist_EmptySummaryStoredAsNull(t *testing.T) {
	db := openTestDB(t)
	meeting := createMeeting(t, db)
	c := NewCoordinator(db, logger.NewDefault("test"))

	result := &processing.Result{Summary: "   "}
	if err := c.Persist(context.Background(), meeting.ID, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := NewMeetingRepository(db).GetByID(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if stored.Summary != nil {
		t.Errorf("expected NULL summary, got %q", *stored.Summary)
	}
	if stored.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", stored.Status)
	}
}

func TestCoordinator_Persist_UnknownMeeting(t *testing.T) {
	db := openTestDB(t)
	c := NewCoordinator(db, logger.NewDefault("test"))

	err := c.Persist(context.Background(), uuid.New(), testResult())
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestCoordinator_MarkFailed(t *testing.T) {
	db := openTestDB(t)
	meeting := createMeeting(t, db)
	c := NewCoordinator(db, logger.NewDefault("test"))

	if err := c.Persist(context.Background(), meeting.ID, testResult()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	c.MarkFailed(context.Background(), meeting.ID)

	stored, err := NewMeetingRepository(db).GetByID(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if stored.Status != StatusFailed {
		t.Errorf("expected failed, got %s", stored.Status)
	}
	if stored.Summary != nil {
		t.Errorf("expected summary cleared, got %v", stored.Summary)
	}
}

func TestMeetingRepository_MarkProcessing_OnlyFromPending(t *testing.T) {
	db := openTestDB(t)
	meeting := createMeeting(t, db)
	repo := NewMeetingRepository(db)

	if err := repo.MarkProcessing(context.Background(), meeting.ID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), meeting.ID)
	if stored.Status != StatusProcessing {
		t.Fatalf("expected processing, got %s", stored.Status)
	}

	// A completed meeting must not slip back to processing.
	c := NewCoordinator(db, logger.NewDefault("test"))
	if err := c.Persist(context.Background(), meeting.ID, testResult()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := repo.MarkProcessing(context.Background(), meeting.ID); err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	stored, _ = repo.GetByID(context.Background(), meeting.ID)
	if stored.Status != StatusCompleted {
		t.Errorf("completed meeting regressed to %s", stored.Status)
	}
}

func TestMeetingRepository_GetByID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewMeetingRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
