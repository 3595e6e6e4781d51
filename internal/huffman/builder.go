package huffman

import "container/heap"

// Frequencies counts occurrences of each byte value.
type Frequencies [256]uint64

// CountFrequencies returns the byte frequencies of data.
func CountFrequencies(data []byte) *Frequencies {
	var f Frequencies
	f.Add(data)
	return &f
}

// Add accumulates the bytes of p.
func (f *Frequencies) Add(p []byte) {
	for _, b := range p {
		f[b]++
	}
}

// nodeHeap orders nodes by (frequency, sequence). Leaves receive their
// sequence numbers in ascending byte order before any internal node is
// created, so among leaves of equal frequency the smaller byte value wins,
// and a leaf always sorts before an internal node of the same frequency.
type nodeHeap []*Node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].Freq != h[j].Freq {
		return h[i].Freq < h[j].Freq
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*Node))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

// Build constructs the Huffman tree for the given frequencies.
//
// The two lowest-ordered nodes are repeatedly merged into a new internal
// node, the first one removed becoming the left child. Build returns nil
// when every frequency is zero. When only one byte value occurs, the
// returned root is an internal node whose left child is that leaf.
func Build(freq *Frequencies) *Node {
	h := make(nodeHeap, 0, 256)
	seq := 0
	for sym, c := range freq {
		if c == 0 {
			continue
		}
		h = append(h, &Node{Symbol: byte(sym), Freq: c, seq: seq})
		seq++
	}

	switch len(h) {
	case 0:
		return nil
	case 1:
		return &Node{Freq: h[0].Freq, Left: h[0], seq: seq}
	}

	heap.Init(&h)
	for h.Len() > 1 {
		left := heap.Pop(&h).(*Node)
		right := heap.Pop(&h).(*Node)
		heap.Push(&h, &Node{
			Freq:  left.Freq + right.Freq,
			Left:  left,
			Right: right,
			seq:   seq,
		})
		seq++
	}
	return heap.Pop(&h).(*Node)
}

// BuildFromData counts the frequencies of data and builds its tree.
func BuildFromData(data []byte) *Node {
	return Build(CountFrequencies(data))
}
