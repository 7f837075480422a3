//go:build linux || darwin || freebsd

package persist

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lock takes an advisory exclusive flock on the backend's lockfile,
// mirroring hive/dirty's platform-split durability primitives (there,
// msync/fdatasync; here, flock around a file replace).
func (f *FileBackend) lock() (unlock func(), err error) {
	file, err := os.OpenFile(f.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("persist: open lockfile: %w", err)
	}
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("persist: flock: %w", err)
	}
	return func() {
		_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
		_ = file.Close()
	}, nil
}
