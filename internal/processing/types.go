// Package processing merges transcription, diarization and summarization
// outputs into one ordered sequence of speaker-attributed meeting events.
package processing

// TranscriptSegment is a time-aligned portion of a transcript. Start and End
// are offsets in seconds; nil means the bound is unknown. Text is always
// non-empty after normalization.
type TranscriptSegment struct {
	Start      *float64
	End        *float64
	Text       string
	Confidence *float64
}

// DiarizationSegment is a speaker-attributed time range. A segment with both
// bounds nil acts as a global fallback matching any transcript segment.
type DiarizationSegment struct {
	Start   *float64
	End     *float64
	Speaker string
}

// MeetingEvent is the final per-segment output unit. One event is produced per
// transcript segment, in segment order, and never mutated afterwards.
type MeetingEvent struct {
	Speaker         string   `json:"speaker"`
	Text            string   `json:"text"`
	Confidence      *float64 `json:"confidence"`
	SummaryFragment string   `json:"summary_fragment"`
	Start           *float64 `json:"start"`
	End             *float64 `json:"end"`
}

// Result is the aggregate output of one processing run.
type Result struct {
	Events  []MeetingEvent
	Summary string
}
