//go:build linux

package fileutil

import (
	"os"

	"golang.org/x/sys/unix"
)

// DropPages advises the kernel that the first length bytes of f will not be
// needed again. A length of zero covers the whole file.
func DropPages(f *os.File, length int64) error {
	if f == nil {
		return nil
	}
	return unix.Fadvise(int(f.Fd()), 0, length, unix.FADV_DONTNEED)
}
