package inference

import "context"

// StreamOnce adapts a single-shot call to the streaming contract: the full
// payload is delivered as one chunk, then the channel closes. Backends without
// a native streaming variant use this to satisfy StreamRun.
func StreamOnce(ctx context.Context, run func(ctx context.Context) (Payload, error)) (<-chan Payload, <-chan error) {
	out := make(chan Payload, 1)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		payload, err := run(ctx)
		if err != nil {
			errc <- err
			return
		}
		select {
		case out <- payload:
		case <-ctx.Done():
			errc <- ctx.Err()
		}
	}()
	return out, errc
}
