package format

import (
	"fmt"
	"math"

	"huff-go/internal/huffman"
)

// WritePayload writes the framing shared by single-file archives and file
// entries: packed length, meaningful bits of the last byte, code table and
// packed bytes.
func WritePayload(w *Writer, p *huffman.Payload) error {
	if uint64(len(p.Packed)) > math.MaxUint32 {
		return fmt.Errorf("payload of %d bytes exceeds format limit", len(p.Packed))
	}
	if err := w.WriteUint32(uint32(len(p.Packed))); err != nil {
		return fmt.Errorf("write payload length: %w", err)
	}
	if err := w.WriteUint8(p.LastBits); err != nil {
		return fmt.Errorf("write last byte bits: %w", err)
	}
	if err := WriteCodeTable(w, p.Table); err != nil {
		return err
	}
	if err := w.WriteBytes(p.Packed); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// ReadPayload reads a payload written by WritePayload without decoding it.
func ReadPayload(r *Reader) (*huffman.Payload, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("read payload length: %w", err)
	}
	lastBits, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("read last byte bits: %w", err)
	}
	if lastBits < 1 || lastBits > 8 {
		return nil, fmt.Errorf("%w: %d meaningful bits in last byte", ErrCorruptPayload, lastBits)
	}
	table, err := ReadCodeTable(r)
	if err != nil {
		return nil, err
	}
	packed, err := r.ReadBytes(int64(n))
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return &huffman.Payload{Table: table, LastBits: lastBits, Packed: packed}, nil
}

// SkipPayload steps over a payload using its length and table-size fields.
// The packed bits are never inspected.
func SkipPayload(r *Reader) error {
	n, err := r.ReadUint32()
	if err != nil {
		return fmt.Errorf("read payload length: %w", err)
	}
	if err := r.Skip(1); err != nil {
		return fmt.Errorf("skip last byte bits: %w", err)
	}
	if err := SkipCodeTable(r); err != nil {
		return err
	}
	if err := r.Skip(int64(n)); err != nil {
		return fmt.Errorf("skip payload: %w", err)
	}
	return nil
}
