//go:build unix

package mmfile

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps the file at path read-only. Empty files yield an empty,
// unmapped Mapping since mmap rejects zero lengths.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // the mapping outlives the descriptor

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return heapMapping([]byte{}), nil
	}
	if size > math.MaxInt {
		return nil, fmt.Errorf("mmfile: %s: file too large to map (%d bytes)", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmfile: mmap %s: %w", path, err)
	}
	// Views jump between spans; readahead of the whole file rarely pays off.
	_ = unix.Madvise(data, unix.MADV_RANDOM)

	return &Mapping{
		Data:    data,
		Mapped:  true,
		release: func() error { return unix.Munmap(data) },
	}, nil
}
