package stream

import (
	"context"
	"errors"
	"time"

	"github.com/skillsenselab/meetstream/internal/logger"
)

const (
	// DefaultHeartbeatInterval keeps the connection alive through proxies.
	// It should stay well below typical proxy timeouts (usually 60s).
	DefaultHeartbeatInterval = 15 * time.Second

	// DefaultIdleTimeout cuts off a stream whose producer has gone quiet.
	DefaultIdleTimeout = 60 * time.Second
)

// Producer generates items for a stream. It must return once ctx is canceled
// and may close over whatever state it needs. Items sent after ctx
// cancellation are drained and discarded.
type Producer func(ctx context.Context, items chan<- Item) error

// Sink receives formatted output. *Writer satisfies it; tests substitute
// their own.
type Sink interface {
	Send(Item) error
	Heartbeat() error
}

// Controller runs a producer and relays its items to a sink, interleaving
// heartbeat comments and enforcing an idle cutoff.
type Controller struct {
	HeartbeatInterval time.Duration
	IdleTimeout       time.Duration
	Log               *logger.Logger
}

// NewController creates a controller with the given intervals. Zero values
// fall back to the defaults.
func NewController(heartbeat, idle time.Duration, log *logger.Logger) *Controller {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Controller{
		HeartbeatInterval: heartbeat,
		IdleTimeout:       idle,
		Log:               log.WithComponent("stream.controller"),
	}
}

// Run drives the stream until the producer finishes, the client disconnects,
// the sink fails, or no item arrives within the idle timeout. An idle cutoff
// is not an error: the stream simply ends. The producer is always canceled
// and awaited before Run returns, so no goroutine outlives the call.
func (c *Controller) Run(ctx context.Context, sink Sink, produce Producer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := make(chan Item)
	done := make(chan error, 1)
	go func() {
		err := produce(ctx, items)
		close(items)
		done <- err
	}()

	heartbeat := time.NewTicker(c.HeartbeatInterval)
	defer heartbeat.Stop()

	idle := time.NewTimer(c.IdleTimeout)
	defer idle.Stop()

	finish := func(err error) error {
		cancel()
		c.drain(items)
		// A producer unwound by our own cancel reports a cancellation-derived
		// error; that is the stream ending, not a failure.
		if perr := <-done; err == nil && perr != nil && !errors.Is(perr, context.Canceled) {
			err = perr
		}
		return err
	}

	for {
		select {
		case <-ctx.Done():
			c.Log.Debug("client disconnected")
			return finish(nil)

		case item, ok := <-items:
			if !ok {
				// Producer finished; its error, if any, is the result.
				return finish(nil)
			}
			if err := sink.Send(item); err != nil {
				return finish(err)
			}
			resetTimer(idle, c.IdleTimeout)

		case <-heartbeat.C:
			if err := sink.Heartbeat(); err != nil {
				return finish(err)
			}

		case <-idle.C:
			c.Log.Warn("stream idle timeout reached, closing")
			return finish(nil)
		}
	}
}

// drain consumes leftover items so the producer can finish sending and exit.
func (c *Controller) drain(items <-chan Item) {
	for range items {
	}
}

// resetTimer safely rearms a timer that may have fired.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
