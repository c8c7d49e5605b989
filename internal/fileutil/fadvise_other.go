//go:build !linux

package fileutil

import "os"

// DropPages is a no-op on platforms without posix_fadvise.
func DropPages(f *os.File, length int64) error {
	return nil
}
