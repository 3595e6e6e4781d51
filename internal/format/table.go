package format

import (
	"fmt"

	"huff-go/internal/huffman"
)

// Each code bit is stored as one 16-bit unit holding the character '0' or
// '1'.
const (
	bitUnitSize = 2
	bitZero     = uint16('0')
	bitOne      = uint16('1')

	// byte value + code length + at least one bit unit
	minTableEntrySize = 1 + 4 + bitUnitSize
)

// WriteCodeTable writes the entry count and then, in ascending byte order,
// each byte value, its code length and its code bits.
func WriteCodeTable(w *Writer, t *huffman.CodeTable) error {
	if err := w.WriteUint32(uint32(t.Len())); err != nil {
		return fmt.Errorf("write table size: %w", err)
	}
	for _, sym := range t.Symbols() {
		code, _ := t.Lookup(sym)
		if err := w.WriteUint8(sym); err != nil {
			return fmt.Errorf("write table symbol: %w", err)
		}
		if err := w.WriteUint32(uint32(code.Len())); err != nil {
			return fmt.Errorf("write code length: %w", err)
		}
		for i := 0; i < code.Len(); i++ {
			unit := bitZero
			if code.Bit(i) == 1 {
				unit = bitOne
			}
			if err := w.WriteUint16(unit); err != nil {
				return fmt.Errorf("write code bit: %w", err)
			}
		}
	}
	return nil
}

// readTableSize reads the entry count and rejects counts that cannot be
// satisfied by the remaining stream.
func readTableSize(r *Reader) (int, error) {
	count, err := r.ReadUint32()
	if err != nil {
		return 0, fmt.Errorf("read table size: %w", err)
	}
	if count > 256 {
		return 0, fmt.Errorf("%w: %d entries", ErrCorruptTable, count)
	}
	if err := r.need(int64(count) * minTableEntrySize); err != nil {
		return 0, fmt.Errorf("table of %d entries: %w", count, err)
	}
	return int(count), nil
}

func readCodeLen(r *Reader) (int, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return 0, fmt.Errorf("read code length: %w", err)
	}
	if n == 0 || n > huffman.MaxCodeLen {
		return 0, fmt.Errorf("%w: code length %d", ErrCorruptTable, n)
	}
	if err := r.need(int64(n) * bitUnitSize); err != nil {
		return 0, fmt.Errorf("code of %d bits: %w", n, err)
	}
	return int(n), nil
}

// ReadCodeTable reads a table written by WriteCodeTable.
func ReadCodeTable(r *Reader) (*huffman.CodeTable, error) {
	count, err := readTableSize(r)
	if err != nil {
		return nil, err
	}

	t := &huffman.CodeTable{}
	for i := 0; i < count; i++ {
		sym, err := r.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("read table symbol: %w", err)
		}
		if _, dup := t.Lookup(sym); dup {
			return nil, fmt.Errorf("%w: duplicate entry for %#02x", ErrCorruptTable, sym)
		}
		n, err := readCodeLen(r)
		if err != nil {
			return nil, err
		}

		var code huffman.Code
		for j := 0; j < n; j++ {
			unit, err := r.ReadUint16()
			if err != nil {
				return nil, fmt.Errorf("read code bit: %w", err)
			}
			switch unit {
			case bitZero:
				code = code.Append(0)
			case bitOne:
				code = code.Append(1)
			default:
				return nil, fmt.Errorf("%w: bit unit %#04x", ErrCorruptTable, unit)
			}
		}
		t.Set(sym, code)
	}
	return t, nil
}

// SkipCodeTable steps over a code table using only its size fields.
func SkipCodeTable(r *Reader) error {
	count, err := readTableSize(r)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := r.Skip(1); err != nil {
			return fmt.Errorf("skip table symbol: %w", err)
		}
		n, err := readCodeLen(r)
		if err != nil {
			return err
		}
		if err := r.Skip(int64(n) * bitUnitSize); err != nil {
			return fmt.Errorf("skip code bits: %w", err)
		}
	}
	return nil
}
