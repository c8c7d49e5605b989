// Package fileutil holds small helpers for files owned by codecs.
package fileutil

import (
	"errors"
	"os"
	"syscall"
)

// IsStdout reports whether f refers to the process's standard output.
func IsStdout(f *os.File) bool {
	return f != nil && f.Fd() == 1
}

// Sync flushes f to stable storage. Files that do not support syncing
// (pipes, terminals) are not an error.
func Sync(f *os.File) error {
	if f == nil {
		return nil
	}
	err := f.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTSUP) {
		return nil
	}
	return err
}

// Close closes f unless it is standard output, which stays open for the
// rest of the process.
func Close(f *os.File) error {
	if f == nil || IsStdout(f) {
		return nil
	}
	return f.Close()
}
