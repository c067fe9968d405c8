package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Writer formats items as SSE frames on an HTTP response. The response writer
// must support flushing; NewWriter reports whether it does.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares an SSE writer over the response. It sets the SSE headers
// and disables the server write deadline so long-lived streams are not cut off
// by the server's WriteTimeout.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported by response writer")
	}

	rc := http.NewResponseController(w)
	// Ignore the error: the connection may still work with heartbeats.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one item as an SSE event frame and flushes it.
func (w *Writer) Send(item Item) error {
	data, err := json.Marshal(item.Data)
	if err != nil {
		return fmt.Errorf("marshal stream item: %w", err)
	}
	if _, err := fmt.Fprintf(w.w, "event: %s\ndata: %s\n\n", item.Event, data); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}

// Heartbeat writes an SSE comment frame. Lines starting with a colon are
// comments; clients ignore them but proxies and load balancers see traffic.
func (w *Writer) Heartbeat() error {
	if _, err := fmt.Fprintf(w.w, ": heartbeat\n\n"); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}
