// Package mmfile maps snapshot files into memory read-only.
package mmfile

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Close on a mapping that was already released.
var ErrClosed = errors.New("mmfile: mapping already closed")

// Mapping is a read-only view of a whole file. Data must not be written and
// must not be used after Close.
type Mapping struct {
	Data []byte

	// Mapped reports whether Data is backed by an mmap rather than a heap copy.
	Mapped bool

	once    sync.Once
	release func() error
}

// Close releases the mapping. A second Close returns ErrClosed.
func (m *Mapping) Close() error {
	err := ErrClosed
	m.once.Do(func() {
		err = nil
		if m.release != nil {
			err = m.release()
		}
		m.Data = nil
	})
	return err
}

func heapMapping(data []byte) *Mapping {
	return &Mapping{Data: data}
}
