package format

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const bufferSize = 32 * 1024

// Writer writes the big-endian primitives the archive format is built from.
type Writer struct {
	w   *bufio.Writer
	buf [4]byte
}

// NewWriter returns a Writer buffering into w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, bufferSize)}
}

func (w *Writer) Flush() error {
	return ioErr("flush", w.w.Flush())
}

func (w *Writer) WriteUint8(v uint8) error {
	return ioErr("write", w.w.WriteByte(v))
}

func (w *Writer) WriteUint16(v uint16) error {
	binary.BigEndian.PutUint16(w.buf[:2], v)
	return w.WriteBytes(w.buf[:2])
}

func (w *Writer) WriteUint32(v uint32) error {
	binary.BigEndian.PutUint32(w.buf[:4], v)
	return w.WriteBytes(w.buf[:4])
}

func (w *Writer) WriteBytes(p []byte) error {
	_, err := w.w.Write(p)
	return ioErr("write", err)
}

// WriteString writes s as a uint16 byte length followed by its bytes.
func (w *Writer) WriteString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string of %d bytes exceeds %d", len(s), math.MaxUint16)
	}
	if err := w.WriteUint16(uint16(len(s))); err != nil {
		return err
	}
	_, err := w.w.WriteString(s)
	return ioErr("write", err)
}

// Reader reads the primitives written by Writer. When the total stream size
// is known, declared lengths that exceed the remaining bytes are rejected
// with ErrTruncatedStream before anything is allocated.
type Reader struct {
	r         *bufio.Reader
	remaining int64 // -1 when unknown
	offset    int64
	buf       [4]byte
}

// NewReader returns a Reader over r. size is the number of bytes r will
// yield, or -1 if unknown.
func NewReader(r io.Reader, size int64) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, bufferSize), remaining: size}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.offset }

// More reports whether at least one more byte can be read.
func (r *Reader) More() (bool, error) {
	if r.remaining == 0 {
		return false, nil
	}
	_, err := r.r.Peek(1)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, ioErr("read", err)
	}
	return true, nil
}

// need checks n against the known remaining size.
func (r *Reader) need(n int64) error {
	if n < 0 || (r.remaining >= 0 && n > r.remaining) {
		return fmt.Errorf("%w: need %d bytes at offset %d, %d remain", ErrTruncatedStream, n, r.offset, r.remaining)
	}
	return nil
}

func (r *Reader) consumed(n int) {
	r.offset += int64(n)
	if r.remaining >= 0 {
		r.remaining -= int64(n)
	}
}

func (r *Reader) readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: unexpected end of stream at offset %d", ErrTruncatedStream, r.offset)
	}
	return ioErr("read", err)
}

// ReadFull fills p.
func (r *Reader) ReadFull(p []byte) error {
	if err := r.need(int64(len(p))); err != nil {
		return err
	}
	n, err := io.ReadFull(r.r, p)
	r.consumed(n)
	if err != nil {
		return r.readErr(err)
	}
	return nil
}

// ReadBytes reads n bytes into a new slice.
func (r *Reader) ReadBytes(n int64) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	p := make([]byte, n)
	if err := r.ReadFull(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Skip discards n bytes.
func (r *Reader) Skip(n int64) error {
	if err := r.need(n); err != nil {
		return err
	}
	skipped, err := io.CopyN(io.Discard, r.r, n)
	r.consumed(int(skipped))
	if err != nil {
		return r.readErr(err)
	}
	return nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.ReadFull(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.ReadFull(r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.buf[:2]), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.ReadFull(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.buf[:4]), nil
}

// ReadString reads a string written by Writer.WriteString.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	p, err := r.ReadBytes(int64(n))
	if err != nil {
		return "", err
	}
	return string(p), nil
}
