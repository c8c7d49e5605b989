package codec

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"syscall"
)

// Code classifies a codec failure.
type Code int

const (
	// CodeData indicates corrupt or malformed compressed data.
	CodeData Code = iota + 1
	// CodeUnexpectedEOF indicates compressed data that ends mid-stream.
	CodeUnexpectedEOF
	// CodeIO indicates a failure reading or writing the underlying file.
	CodeIO
	// CodeSequence indicates a call that is invalid in the current state.
	CodeSequence
	// CodeConfig indicates invalid codec parameters.
	CodeConfig
)

func (c Code) String() string {
	switch c {
	case CodeData:
		return "data error"
	case CodeUnexpectedEOF:
		return "unexpected end of data"
	case CodeIO:
		return "i/o error"
	case CodeSequence:
		return "sequence error"
	case CodeConfig:
		return "config error"
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error is returned when a compression library or the file underneath it
// reports a failure.
type Error struct {
	Kind Kind
	Op   string
	Code Code
	// Errno is the OS error number for CodeIO failures, zero otherwise.
	Errno syscall.Errno
	Err   error
}

// NewError wraps err for the given kind and operation and classifies it.
func NewError(kind Kind, op string, err error) *Error {
	e := &Error{Kind: kind, Op: op, Err: err}

	var errno syscall.Errno
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, ErrClosed):
		e.Code = CodeSequence
	case errors.As(err, &errno):
		e.Code = CodeIO
		e.Errno = errno
	case errors.As(err, &pathErr):
		e.Code = CodeIO
	case errors.Is(err, io.ErrUnexpectedEOF):
		e.Code = CodeUnexpectedEOF
	default:
		e.Code = CodeData
	}
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s failed: %s", e.Kind, e.Op, e.Code)
	if e.Errno != 0 {
		msg += fmt.Sprintf(" (errno %d)", int(e.Errno))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
