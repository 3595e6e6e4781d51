package format

import (
	"errors"

	"huff-go/internal/huffman"
)

// Error kinds reported by archive operations. Match them with errors.Is.
var (
	ErrNotFound           = errors.New("input path not found")
	ErrUnrecognizedFormat = errors.New("unrecognized archive format")
	ErrTruncatedStream    = errors.New("truncated stream")
	ErrUnsafePath         = errors.New("unsafe path in archive")
	ErrIO                 = errors.New("i/o failure")

	ErrUnknownSymbol  = huffman.ErrUnknownSymbol
	ErrCorruptTable   = huffman.ErrCorruptTable
	ErrCorruptPayload = huffman.ErrCorruptPayload
)

// IOError wraps a failure of the underlying reader, writer or filesystem.
// It matches both ErrIO and the wrapped error.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// ioErr returns nil for a nil err.
func ioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}

// WrapIO annotates a filesystem error so that it matches ErrIO.
func WrapIO(op string, err error) error {
	return ioErr(op, err)
}
