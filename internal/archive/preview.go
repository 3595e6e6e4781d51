package archive

import (
	"fmt"
	"iter"
	"strings"

	"huff-go/internal/format"
)

// Item is one line of a structural listing.
type Item struct {
	Depth int
	Name  string
	Path  string
	Type  format.EntryType
}

// PreviewStructure lists the entries of an archive with their nesting
// depth, without decoding any payload. Depth is recovered from path
// prefixes alone: a stack of enclosing directories is popped until the
// current path lies inside the top one.
//
// The archive is opened when iteration starts and closed when it stops.
// After an error is yielded the sequence ends.
func PreviewStructure(archivePath string) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		f, size, err := openArchive(archivePath)
		if err != nil {
			yield(Item{}, err)
			return
		}
		defer f.Close()

		r := format.NewReader(f, size)
		h, err := format.ReadHeader(r)
		if err != nil {
			yield(Item{}, fmt.Errorf("%s: %w", archivePath, err))
			return
		}
		// A single-file archive lists just its stored name
		if h.Kind == format.KindFile {
			yield(Item{Name: h.Name, Path: h.Name, Type: format.EntryFile}, nil)
			return
		}

		var stack []string
		for {
			more, err := r.More()
			if err != nil {
				yield(Item{}, err)
				return
			}
			if !more {
				return
			}

			e, err := format.ReadEntry(r)
			if err != nil {
				yield(Item{}, err)
				return
			}
			// Pop directories that do not contain this entry
			for len(stack) > 0 && !strings.HasPrefix(e.Path, stack[len(stack)-1]+format.Separator) {
				stack = stack[:len(stack)-1]
			}
			item := Item{Depth: len(stack), Name: e.Name(), Path: e.Path, Type: e.Type}

			switch e.Type {
			case format.EntryDir:
				stack = append(stack, e.Path)
			case format.EntryFile:
				// Step over the payload without decoding it
				if err := format.SkipPayload(r); err != nil {
					yield(Item{}, fmt.Errorf("%s: %w", e.Path, err))
					return
				}
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}
