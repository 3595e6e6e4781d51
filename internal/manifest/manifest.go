// Package manifest fingerprints the contents of an archive or a directory
// tree so that the two can be compared entry by entry, and summarises each
// side with a Merkle root.
package manifest

import (
	"sort"

	"huff-go/internal/hash"
)

// Entry describes one path of a manifest. Directories carry no hash.
type Entry struct {
	Dir  bool
	Hash hash.Sum
	Size int64
}

// Manifest maps slash-separated relative paths to their entries.
type Manifest struct {
	Root    string
	Entries map[string]Entry
	// Errors holds files that could not be read, keyed like Entries. They
	// are absent from Entries and from the root.
	Errors map[string]error
	// Skipped lists symbolic links and special files found on disk, which
	// archives never hold.
	Skipped []string
}

// Paths returns the entry paths in lexical order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Entries))
	for p := range m.Entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Files counts the non-directory entries.
func (m *Manifest) Files() int {
	n := 0
	for _, e := range m.Entries {
		if !e.Dir {
			n++
		}
	}
	return n
}

// TotalSize sums the sizes of all file entries.
func (m *Manifest) TotalSize() int64 {
	var total int64
	for _, e := range m.Entries {
		total += e.Size
	}
	return total
}
