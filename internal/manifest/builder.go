package manifest

import (
	"encoding/hex"
	"fmt"

	mt "github.com/txaty/go-merkletree"

	"huff-go/internal/hash"
)

var emptyRoot = []byte("empty-tree")

// leaf is one (path, entry) pair as seen by the Merkle tree.
type leaf struct {
	path  string
	entry Entry
}

func (l leaf) Serialize() ([]byte, error) {
	kind := byte('f')
	if l.entry.Dir {
		kind = 'd'
	}
	buf := make([]byte, 0, len(l.path)+len(l.entry.Hash)+2)
	buf = append(buf, l.path...)
	buf = append(buf, 0, kind)
	buf = append(buf, l.entry.Hash...)
	return buf, nil
}

// Build computes the Merkle root over entries sorted by path and returns
// the manifest holding them. Equal entry sets always yield equal roots.
func Build(entries map[string]Entry) (*Manifest, error) {
	if entries == nil {
		entries = make(map[string]Entry)
	}
	m := &Manifest{Entries: entries, Errors: make(map[string]error)}

	blocks := make([]mt.DataBlock, 0, len(entries))
	for _, p := range m.Paths() {
		blocks = append(blocks, leaf{path: p, entry: entries[p]})
	}

	root, err := merkleRoot(blocks)
	if err != nil {
		return nil, fmt.Errorf("failed to build merkle tree: %w", err)
	}
	m.Root = hex.EncodeToString(root)
	return m, nil
}

// merkleRoot hashes zero or one leaf directly; the tree library needs two
// or more blocks.
func merkleRoot(blocks []mt.DataBlock) ([]byte, error) {
	switch len(blocks) {
	case 0:
		return hash.XXHashFunc(emptyRoot)
	case 1:
		data, err := blocks[0].Serialize()
		if err != nil {
			return nil, err
		}
		return hash.XXHashFunc(data)
	}

	tree, err := mt.New(&mt.Config{
		HashFunc: hash.XXHashFunc,
		Mode:     mt.ModeTreeBuild,
	}, blocks)
	if err != nil {
		return nil, err
	}
	return tree.Root, nil
}
