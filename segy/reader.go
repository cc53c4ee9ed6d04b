package segy

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// blockReader is the file accessor: offset-addressed reads plus the total
// size. Both implementations are position-independent, so nothing in the
// package ever relies on a shared file cursor.
type blockReader interface {
	io.ReaderAt
	Size() int64
	Close() error
}

// fileReader is the buffered fallback when memory mapping is unavailable.
// os.File.ReadAt is pread-based and does not touch the handle's cursor.
type fileReader struct {
	f    *os.File
	size int64
}

func (r *fileReader) ReadAt(p []byte, off int64) (int, error) { return r.f.ReadAt(p, off) }

func (r *fileReader) Size() int64 { return r.size }

func (r *fileReader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// openBlockReader opens path, preferring a read-only memory map. Mapping
// failures are not fatal: they degrade to plain file reads and are only
// visible at debug level.
func openBlockReader(path string, disableMmap bool) (blockReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if !disableMmap {
		m, err := newMmapReader(f, fi.Size())
		if err == nil {
			return m, nil
		}
		logrus.Debugf("mmap of %s unavailable, using plain reads: %v", path, err)
	}

	return &fileReader{f: f, size: fi.Size()}, nil
}

// readFull is ReadAt with the short-read case folded into ErrShortRead so
// truncated regions surface uniformly.
func readFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = ErrShortRead
	}
	return fmt.Errorf("read of %d bytes at offset %d: %w", len(p), off, err)
}
