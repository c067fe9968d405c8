// Package stream delivers meeting events to clients over Server-Sent Events
// with heartbeat comments and an idle cutoff.
package stream

// Event type constants for the transcript stream.
const (
	// EventTypeTranscript carries one transcript event.
	EventTypeTranscript = "transcript"

	// EventTypeSummary carries the meeting summary, sent once after all
	// transcript events.
	EventTypeSummary = "summary"

	// EventTypeStage carries a partial result from a pipeline stage.
	EventTypeStage = "stage"
)

// Item is a single event to deliver to the client. Data is marshaled to JSON
// on the wire.
type Item struct {
	Event string
	Data  interface{}
}
