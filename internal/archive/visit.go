package archive

import (
	"fmt"

	"huff-go/internal/format"
	"huff-go/internal/huffman"
)

// Visitor receives the decoded contents of an archive in stream order.
// Root is called once, before any entry; its error stops the visit before
// anything else is read. A single-file archive produces one File call whose
// path is the stored file name.
type Visitor interface {
	Root(h format.Header) error
	Dir(path string) error
	File(path string, data []byte) error
}

// Visit decodes archivePath front to back and hands every entry to v. Each
// file payload is decoded completely before v sees it, so a corrupt payload
// aborts the visit without exposing partial contents.
func Visit(archivePath string, v Visitor) error {
	f, size, err := openArchive(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	r := format.NewReader(f, size)
	h, err := format.ReadHeader(r)
	if err != nil {
		return fmt.Errorf("%s: %w", archivePath, err)
	}
	if err := format.ValidateName(h.Name); err != nil {
		return err
	}
	if err := v.Root(h); err != nil {
		return err
	}

	if h.Kind == format.KindFile {
		return visitFile(r, h, v)
	}
	return visitFolder(r, v)
}

func visitFile(r *format.Reader, h format.Header, v Visitor) error {
	data, err := readFileData(r)
	if err != nil {
		return fmt.Errorf("%s: %w", h.Name, err)
	}
	more, err := r.More()
	if err != nil {
		return err
	}
	if more {
		return fmt.Errorf("%w: trailing data at offset %d", format.ErrUnrecognizedFormat, r.Offset())
	}
	return v.File(h.Name, data)
}

func visitFolder(r *format.Reader, v Visitor) error {
	for {
		// A clean end of stream between entries finishes the archive
		more, err := r.More()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		e, err := format.ReadEntry(r)
		if err != nil {
			return err
		}
		switch e.Type {
		case format.EntryDir:
			if err := v.Dir(e.Path); err != nil {
				return err
			}
		case format.EntryFile:
			// Decode fully before handing the contents over
			data, err := readFileData(r)
			if err != nil {
				return fmt.Errorf("%s: %w", e.Path, err)
			}
			if err := v.File(e.Path, data); err != nil {
				return err
			}
		}
	}
}

func readFileData(r *format.Reader) ([]byte, error) {
	p, err := format.ReadPayload(r)
	if err != nil {
		return nil, err
	}
	return huffman.Decode(p)
}
