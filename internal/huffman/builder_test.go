package huffman

import (
	"testing"

	"github.com/kr/pretty"
)

func TestBuild_Empty(t *testing.T) {
	if root := BuildFromData(nil); root != nil {
		t.Errorf("Expected nil root for empty input, got %+v", root)
	}
}

func TestBuild_SingleSymbol(t *testing.T) {
	root := BuildFromData([]byte("zzzz"))
	if root == nil {
		t.Fatal("Expected a root for single-symbol input")
	}
	if root.IsLeaf() {
		t.Fatal("Root of single-symbol tree should be internal")
	}
	if root.Left == nil || !root.Left.IsLeaf() || root.Left.Symbol != 'z' {
		t.Errorf("Expected left leaf 'z', got %+v", root.Left)
	}
	if root.Right != nil {
		t.Errorf("Expected no right child, got %+v", root.Right)
	}
	if root.Freq != 4 {
		t.Errorf("Expected root frequency 4, got %d", root.Freq)
	}
}

func TestBuild_RootFrequencyIsInputLength(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	root := BuildFromData(data)
	if root.Freq != uint64(len(data)) {
		t.Errorf("Expected root frequency %d, got %d", len(data), root.Freq)
	}
}

func TestBuild_TieBreakIsDeterministic(t *testing.T) {
	// Every symbol has the same frequency, so ordering relies entirely on
	// the sequence tie-break.
	data := []byte("abcdefghabcdefgh")
	want := FromTree(BuildFromData(data)).Strings()
	for i := 0; i < 20; i++ {
		got := FromTree(BuildFromData(data)).Strings()
		if diff := pretty.Diff(want, got); len(diff) > 0 {
			t.Fatalf("Codes changed between builds: %v", diff)
		}
	}

	// Eight equal leaves form a complete tree; byte order decides placement.
	expected := map[byte]string{
		'a': "000", 'b': "001", 'c': "010", 'd': "011",
		'e': "100", 'f': "101", 'g': "110", 'h': "111",
	}
	if diff := pretty.Diff(expected, want); len(diff) > 0 {
		t.Errorf("Unexpected codes: %v", diff)
	}
}

func TestBuild_LeafBeforeInternalOnTie(t *testing.T) {
	// B and C merge into an internal node of weight 2, tying with A.
	// A was created first, so it is popped first and becomes the left child.
	root := BuildFromData([]byte{0x41, 0x41, 0x42, 0x43})
	if !root.Left.IsLeaf() || root.Left.Symbol != 0x41 {
		t.Errorf("Expected 'A' as left child of root, got %+v", root.Left)
	}
	if root.Right.IsLeaf() {
		t.Error("Expected internal right child of root")
	}
}

func TestFrequencies(t *testing.T) {
	f := CountFrequencies([]byte("hello"))
	if f['l'] != 2 || f['h'] != 1 || f['o'] != 1 {
		t.Errorf("Unexpected counts: h=%d l=%d o=%d", f['h'], f['l'], f['o'])
	}
	if distinct(f) != 4 {
		t.Errorf("Expected 4 distinct bytes, got %d", distinct(f))
	}
	f.Add([]byte("!"))
	if distinct(f) != 5 {
		t.Errorf("Expected 5 distinct bytes after Add, got %d", distinct(f))
	}
}
