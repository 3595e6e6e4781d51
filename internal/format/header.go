package format

import (
	"errors"
	"fmt"
)

// Kind distinguishes single-file archives from folder archives.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindFolder
)

const (
	MagicFile   = "HFILE"
	MagicFolder = "HFOLD"
	magicLen    = 5
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func (k Kind) magic() string {
	if k == KindFolder {
		return MagicFolder
	}
	return MagicFile
}

// Header opens every archive: the signature of its kind followed by the
// original file name or root folder name.
type Header struct {
	Kind Kind
	Name string
}

// WriteHeader writes the signature and name.
func WriteHeader(w *Writer, h Header) error {
	if h.Kind != KindFile && h.Kind != KindFolder {
		return fmt.Errorf("invalid archive kind %v", h.Kind)
	}
	if err := w.WriteBytes([]byte(h.Kind.magic())); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := w.WriteString(h.Name); err != nil {
		return fmt.Errorf("write name: %w", err)
	}
	return nil
}

// ReadHeader reads and checks the signature, then the name. A stream that
// does not start with a known signature fails with ErrUnrecognizedFormat
// and nothing past the signature is read.
func ReadHeader(r *Reader) (Header, error) {
	var magic [magicLen]byte
	if err := r.ReadFull(magic[:]); err != nil {
		if errors.Is(err, ErrTruncatedStream) {
			return Header{}, fmt.Errorf("%w: stream shorter than signature", ErrUnrecognizedFormat)
		}
		return Header{}, fmt.Errorf("read magic: %w", err)
	}

	var h Header
	switch string(magic[:]) {
	case MagicFile:
		h.Kind = KindFile
	case MagicFolder:
		h.Kind = KindFolder
	default:
		return Header{}, fmt.Errorf("%w: signature %q", ErrUnrecognizedFormat, magic[:])
	}

	name, err := r.ReadString()
	if err != nil {
		return Header{}, fmt.Errorf("read name: %w", err)
	}
	h.Name = name
	return h, nil
}

// Expect fails with ErrUnrecognizedFormat unless h is of kind want.
func (h Header) Expect(want Kind) error {
	if h.Kind != want {
		return fmt.Errorf("%w: expected %s archive, found %s archive", ErrUnrecognizedFormat, want, h.Kind)
	}
	return nil
}
