package huffman

// Node is a vertex of a Huffman tree. A leaf carries a symbol; an internal
// node carries the combined frequency of its subtree and its children.
//
// An internal node normally has two children. The only exception is the root
// synthesized for single-symbol input, which has a left child and no right
// child so that the lone symbol still receives a one-bit code.
type Node struct {
	Symbol byte
	Freq   uint64
	Left   *Node
	Right  *Node

	// seq is the creation order of the node, used as the final tie-break
	// when ordering nodes of equal frequency.
	seq int
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// child returns the left child for bit 0 and the right child for bit 1.
func (n *Node) child(bit uint8) *Node {
	if bit == 0 {
		return n.Left
	}
	return n.Right
}
