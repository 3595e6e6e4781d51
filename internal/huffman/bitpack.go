package huffman

import "fmt"

// bitWriter accumulates bits most-significant-bit first and emits a byte
// every time eight bits are collected.
type bitWriter struct {
	out   []byte
	acc   byte
	nbits uint8
}

func (w *bitWriter) writeCode(c Code) {
	for i := 0; i < c.Len(); i++ {
		w.acc = w.acc<<1 | c.Bit(i)
		w.nbits++
		if w.nbits == 8 {
			w.out = append(w.out, w.acc)
			w.acc = 0
			w.nbits = 0
		}
	}
}

// flush emits any partial byte with zero padding in its low bits and
// returns the number of meaningful bits in the final byte.
func (w *bitWriter) flush() uint8 {
	if w.nbits == 0 {
		return 8
	}
	n := w.nbits
	w.out = append(w.out, w.acc<<(8-n))
	w.acc = 0
	w.nbits = 0
	return n
}

// Pack encodes data with table. It returns the packed bytes and the number
// of meaningful bits in the last byte, which is always in [1, 8]; empty
// input yields no bytes and 8.
func Pack(data []byte, table *CodeTable) ([]byte, uint8, error) {
	w := bitWriter{out: make([]byte, 0, len(data)/2+1)}
	for i, b := range data {
		code, ok := table.Lookup(b)
		if !ok {
			return nil, 0, fmt.Errorf("%w: byte %#02x at offset %d", ErrUnknownSymbol, b, i)
		}
		w.writeCode(code)
	}
	lastBits := w.flush()
	return w.out, lastBits, nil
}

// Unpack decodes packed against the tree rooted at root, reading every bit
// of every byte except the padding after the first lastBits bits of the
// final byte. The padding must be zero and the meaningful bits must end on
// a symbol boundary.
func Unpack(packed []byte, lastBits uint8, root *Node) ([]byte, error) {
	if len(packed) == 0 {
		return []byte{}, nil
	}
	if lastBits < 1 || lastBits > 8 {
		return nil, fmt.Errorf("%w: %d meaningful bits in last byte", ErrCorruptPayload, lastBits)
	}
	if root == nil || root.IsLeaf() {
		return nil, fmt.Errorf("%w: payload without code table", ErrCorruptPayload)
	}
	if pad := packed[len(packed)-1] & (1<<(8-lastBits) - 1); pad != 0 {
		return nil, fmt.Errorf("%w: non-zero padding bits", ErrCorruptPayload)
	}

	out := make([]byte, 0, len(packed)*2)
	cur := root
	last := len(packed) - 1
	for i, b := range packed {
		bits := uint8(8)
		if i == last {
			bits = lastBits
		}
		for j := uint8(0); j < bits; j++ {
			cur = cur.child(b >> (7 - j) & 1)
			if cur == nil {
				return nil, fmt.Errorf("%w: bit sequence at byte %d matches no code", ErrCorruptPayload, i)
			}
			if cur.IsLeaf() {
				out = append(out, cur.Symbol)
				cur = root
			}
		}
	}
	if cur != root {
		return nil, fmt.Errorf("%w: stream ends inside a code", ErrCorruptPayload)
	}
	return out, nil
}
