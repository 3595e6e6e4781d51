package huffman

import "fmt"

// Payload is the Huffman-coded form of one file: its own code table, the
// packed bit stream and the number of meaningful bits in the last byte.
type Payload struct {
	Table    *CodeTable
	LastBits uint8
	Packed   []byte
}

// Encode builds the tree for data, derives its code table and packs data.
func Encode(data []byte) (*Payload, error) {
	table := FromTree(BuildFromData(data))
	packed, lastBits, err := Pack(data, table)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}
	return &Payload{Table: table, LastBits: lastBits, Packed: packed}, nil
}

// Decode rebuilds the tree from the payload's table and unpacks its bits.
func Decode(p *Payload) ([]byte, error) {
	root, err := ToTree(p.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild tree: %w", err)
	}
	data, err := Unpack(p.Packed, p.LastBits, root)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack data: %w", err)
	}
	return data, nil
}
