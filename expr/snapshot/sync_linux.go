//go:build linux || freebsd

package snapshot

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile flushes file data to disk. fdatasync is enough on Linux/FreeBSD;
// fullSync is ignored.
func syncFile(f *os.File, _ bool) error {
	return unix.Fdatasync(int(f.Fd()))
}
