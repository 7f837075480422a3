//go:build windows

package persist

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// lock takes an advisory exclusive lock on the backend's lockfile via
// LockFileEx, the Windows counterpart to lock_unix.go's flock.
func (f *FileBackend) lock() (unlock func(), err error) {
	file, err := os.OpenFile(f.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("persist: open lockfile: %w", err)
	}
	handle := windows.Handle(file.Fd())
	overlapped := new(windows.Overlapped)
	if err := windows.LockFileEx(
		handle,
		windows.LOCKFILE_EXCLUSIVE_LOCK,
		0, 1, 0,
		overlapped,
	); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("persist: LockFileEx: %w", err)
	}
	return func() {
		_ = windows.UnlockFileEx(handle, 0, 1, 0, overlapped)
		_ = file.Close()
	}, nil
}
