//go:build !windows
// +build !windows

package segy

import (
	"os"
	"syscall"
)

// mmapReader is the preferred file accessor: a read-only mapping of the whole
// file. Reads are plain offset-addressed copies with no shared cursor, so
// concurrent readers need no locking.
type mmapReader struct {
	data []byte
	f    *os.File
}

func newMmapReader(f *os.File, size int64) (*mmapReader, error) {
	if size == 0 {
		return &mmapReader{f: f}, nil
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &mmapReader{data: data, f: f}, nil
}

func (m *mmapReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.data)) {
		return 0, syscall.EINVAL
	}
	n := copy(p, m.data[off:])
	return n, nil
}

func (m *mmapReader) Size() int64 { return int64(len(m.data)) }

// Close releases the mapping and the file handle exactly once.
func (m *mmapReader) Close() error {
	if m.data != nil {
		if err := syscall.Munmap(m.data); err != nil {
			return err
		}
		m.data = nil
	}
	if m.f != nil {
		err := m.f.Close()
		m.f = nil
		return err
	}
	return nil
}
