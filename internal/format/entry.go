package format

import (
	"fmt"
	"path"
	"strings"
)

// Separator joins path segments inside archives on every platform.
const Separator = "/"

const (
	tagDir  = "F"
	tagFile = "FI"
)

// EntryType tags a folder archive entry.
type EntryType uint8

const (
	EntryDir EntryType = iota + 1
	EntryFile
)

func (t EntryType) String() string {
	switch t {
	case EntryDir:
		return "dir"
	case EntryFile:
		return "file"
	default:
		return fmt.Sprintf("EntryType(%d)", uint8(t))
	}
}

// Entry is the marker preceding each directory or file in a folder archive.
// Path is relative to the archive root and uses Separator. A file entry is
// followed by its payload.
type Entry struct {
	Type EntryType
	Path string
}

// Name returns the last segment of the entry path.
func (e Entry) Name() string {
	return path.Base(e.Path)
}

// WriteEntry writes the type tag and relative path of e.
func WriteEntry(w *Writer, e Entry) error {
	if err := ValidatePath(e.Path); err != nil {
		return err
	}
	var tag string
	switch e.Type {
	case EntryDir:
		tag = tagDir
	case EntryFile:
		tag = tagFile
	default:
		return fmt.Errorf("invalid entry type %v", e.Type)
	}
	if err := w.WriteString(tag); err != nil {
		return fmt.Errorf("write entry tag: %w", err)
	}
	if err := w.WriteString(e.Path); err != nil {
		return fmt.Errorf("write entry path: %w", err)
	}
	return nil
}

// ReadEntry reads an entry marker. It does not consume a file payload.
func ReadEntry(r *Reader) (Entry, error) {
	tag, err := r.ReadString()
	if err != nil {
		return Entry{}, fmt.Errorf("read entry tag: %w", err)
	}
	var e Entry
	switch tag {
	case tagDir:
		e.Type = EntryDir
	case tagFile:
		e.Type = EntryFile
	default:
		return Entry{}, fmt.Errorf("%w: entry tag %q at offset %d", ErrUnrecognizedFormat, tag, r.Offset())
	}
	if e.Path, err = r.ReadString(); err != nil {
		return Entry{}, fmt.Errorf("read entry path: %w", err)
	}
	if err := ValidatePath(e.Path); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// ValidatePath rejects entry paths that are empty, absolute, not in clean
// form or that climb out of the archive root.
func ValidatePath(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("%w: empty path", ErrUnsafePath)
	case strings.HasPrefix(p, Separator):
		return fmt.Errorf("%w: absolute path %q", ErrUnsafePath, p)
	case strings.Contains(p, "\\"):
		return fmt.Errorf("%w: backslash in %q", ErrUnsafePath, p)
	case path.Clean(p) != p:
		return fmt.Errorf("%w: path %q is not clean", ErrUnsafePath, p)
	case p == ".." || strings.HasPrefix(p, "../") || p == ".":
		return fmt.Errorf("%w: path %q leaves archive root", ErrUnsafePath, p)
	}
	return nil
}

// ValidateName rejects root names that are not a single path element.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: archive name %q", ErrUnsafePath, name)
	}
	return nil
}
