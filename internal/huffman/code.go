package huffman

import (
	"errors"
	"fmt"
	"strings"
)

// MaxCodeLen is the longest code a tree over 256 symbols can produce.
const MaxCodeLen = 255

var (
	// ErrUnknownSymbol is returned when a byte has no entry in the code table
	// used to pack it.
	ErrUnknownSymbol = errors.New("huffman: symbol missing from code table")

	// ErrCorruptTable is returned for code tables that do not describe a
	// prefix-free code.
	ErrCorruptTable = errors.New("huffman: corrupt code table")

	// ErrCorruptPayload is returned when packed bits do not decode cleanly
	// against their code table.
	ErrCorruptPayload = errors.New("huffman: corrupt payload")
)

// Code is a bit sequence of up to MaxCodeLen bits. Bit 0 is the first bit
// emitted when the code is written.
type Code struct {
	words [4]uint64
	n     uint8
}

// Len returns the number of bits in c.
func (c Code) Len() int { return int(c.n) }

// Bit returns bit i of c as 0 or 1.
func (c Code) Bit(i int) uint8 {
	return uint8(c.words[i>>6]>>(63-uint(i&63))) & 1
}

// Append returns c with bit appended. It panics if c is already MaxCodeLen
// bits long.
func (c Code) Append(bit uint8) Code {
	if c.n == MaxCodeLen {
		panic("huffman: code too long")
	}
	i := int(c.n)
	if bit&1 == 1 {
		c.words[i>>6] |= 1 << (63 - uint(i&63))
	}
	c.n++
	return c
}

// String renders c as '0' and '1' characters.
func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(int(c.n))
	for i := 0; i < int(c.n); i++ {
		sb.WriteByte('0' + c.Bit(i))
	}
	return sb.String()
}

// CodeTable maps byte values to codes. A zero-length code marks an absent
// symbol; every present symbol has at least one bit.
type CodeTable struct {
	codes [256]Code
	count int
}

// Set assigns code to sym. An empty code removes sym.
func (t *CodeTable) Set(sym byte, code Code) {
	had := t.codes[sym].n > 0
	t.codes[sym] = code
	switch {
	case had && code.n == 0:
		t.count--
	case !had && code.n > 0:
		t.count++
	}
}

// Lookup returns the code for sym.
func (t *CodeTable) Lookup(sym byte) (Code, bool) {
	c := t.codes[sym]
	return c, c.n > 0
}

// Len returns the number of symbols in the table.
func (t *CodeTable) Len() int { return t.count }

// Symbols returns the symbols present in the table in ascending order.
func (t *CodeTable) Symbols() []byte {
	syms := make([]byte, 0, t.count)
	for i := range t.codes {
		if t.codes[i].n > 0 {
			syms = append(syms, byte(i))
		}
	}
	return syms
}

// Strings returns the table as symbol to bit-string pairs.
func (t *CodeTable) Strings() map[byte]string {
	m := make(map[byte]string, t.count)
	for _, sym := range t.Symbols() {
		m[sym] = t.codes[sym].String()
	}
	return m
}

// FromTree derives the code table of the tree rooted at root. Descending to
// the left appends a 0, descending to the right appends a 1; only leaves get
// entries. A nil root yields an empty table.
func FromTree(root *Node) *CodeTable {
	t := &CodeTable{}
	if root == nil {
		return t
	}

	type frame struct {
		n    *Node
		code Code
	}
	stack := []frame{{n: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n.IsLeaf() {
			t.Set(f.n.Symbol, f.code)
			continue
		}
		// Right is pushed first so the left subtree is visited first.
		if f.n.Right != nil {
			stack = append(stack, frame{f.n.Right, f.code.Append(1)})
		}
		if f.n.Left != nil {
			stack = append(stack, frame{f.n.Left, f.code.Append(0)})
		}
	}
	return t
}

// ToTree rebuilds a decoding trie from t by walking each code from an empty
// root. It fails with ErrCorruptTable if the codes are not prefix-free. An
// empty table yields a nil root.
func ToTree(t *CodeTable) (*Node, error) {
	if t.Len() == 0 {
		return nil, nil
	}

	root := &Node{}
	for _, sym := range t.Symbols() {
		code := t.codes[sym]
		cur := root
		for i := 0; i < code.Len(); i++ {
			if cur != root && cur.IsLeaf() && cur.Freq > 0 {
				return nil, fmt.Errorf("%w: code for %#02x extends code for %#02x", ErrCorruptTable, sym, cur.Symbol)
			}
			next := cur.child(code.Bit(i))
			if next == nil {
				next = &Node{}
				if code.Bit(i) == 0 {
					cur.Left = next
				} else {
					cur.Right = next
				}
			}
			cur = next
		}
		if !cur.IsLeaf() || cur.Freq > 0 {
			return nil, fmt.Errorf("%w: code for %#02x is a prefix of another code", ErrCorruptTable, sym)
		}
		cur.Symbol = sym
		// Freq marks terminal nodes; rebuilt trees carry no real counts.
		cur.Freq = 1
	}
	return root, nil
}
