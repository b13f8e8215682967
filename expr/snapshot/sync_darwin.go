//go:build darwin

package snapshot

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile flushes file data to disk. With fullSync, F_FULLFSYNC also drains
// the drive cache.
func syncFile(f *os.File, fullSync bool) error {
	if fullSync {
		_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(int(f.Fd()))
}
