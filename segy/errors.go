package segy

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for reel header format codes outside
	// the set {1, 2, 3, 4, 5, 8}.
	ErrUnsupportedFormat = errors.New("segy: unsupported data sample format")

	// ErrUnknownField is returned when a header field name is not part of the
	// fixed trace header schema.
	ErrUnknownField = errors.New("segy: unknown trace header field")

	// ErrTraceOutOfRange is returned for a single trace index beyond the
	// dataset's trace count.
	ErrTraceOutOfRange = errors.New("segy: trace index out of range")

	// ErrShortRead is returned when a header region is truncated or garbled
	// during open. A dataset that produced it must not be used.
	ErrShortRead = errors.New("segy: truncated header region")

	// ErrNotOpen is returned when a trace or header read follows Close.
	ErrNotOpen = errors.New("segy: dataset is closed")
)

func errUnknownField(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}
