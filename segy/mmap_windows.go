//go:build windows
// +build windows

package segy

import (
	"errors"
	"os"
)

// Memory mapping is not wired up on windows; Open falls back to plain
// pread-style file access.
func newMmapReader(f *os.File, size int64) (blockReader, error) {
	return nil, errors.New("mmap not supported on windows")
}
