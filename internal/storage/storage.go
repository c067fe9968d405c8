// Package storage provides object storage for meeting audio. Backends: local
// filesystem and Amazon S3 (or S3-compatible services).
package storage

import (
	"context"
	"io"
)

// Storage defines the operations the service needs from an audio store.
type Storage interface {
	// Upload writes data from reader to the given key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download returns a reader for the object at the given key.
	// The caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks whether an object exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object at the given key. Returns nil if the
	// object does not exist.
	Delete(ctx context.Context, key string) error

	// URL returns a URL for accessing the object at the given key.
	URL(ctx context.Context, key string) (string, error)
}
