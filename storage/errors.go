package storage

import (
	"errors"

	"github.com/nats-io/nats.go/jetstream"
)

// Common storage errors.
var (
	// ErrNotFound is returned when a run is not stored.
	ErrNotFound = errors.New("run not found")

	// ErrInvalidRun is returned when a run cannot be stored.
	ErrInvalidRun = errors.New("invalid run")
)

func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound)
}
