package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"huff-go/internal/format"
	"huff-go/internal/huffman"
	"huff-go/internal/walker"
)

// CompressDirectory writes a folder archive of the tree rooted at
// inputPath. Entries are emitted in pre-order, depth-first, lexical order:
// a directory marker precedes its contents and every file marker is
// immediately followed by that file's payload.
func CompressDirectory(inputPath, outputPath string, opts *Options) error {
	info, err := statInput(inputPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", inputPath)
	}

	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	result, err := walker.Walk(absInput, opts.exclude())
	if err != nil {
		return err
	}

	f, err := createArchive(outputPath)
	if err != nil {
		return err
	}
	// The archive may be written inside the tree it archives. Walk paths
	// have links resolved, so the output path is resolved the same way.
	self, err := resolvePath(outputPath)
	if err != nil {
		f.Close()
		return err
	}

	w := format.NewWriter(f)
	err = format.WriteHeader(w, format.Header{Kind: format.KindFolder, Name: filepath.Base(absInput)})
	for _, e := range result.Entries {
		if err != nil {
			break
		}
		if e.Path == self {
			continue
		}
		err = writeEntry(w, e, opts)
	}
	if err := finish(w, f, err); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	// Entries that are neither files nor directories are not stored.
	for _, rel := range result.Skipped {
		opts.notifySkip(rel)
	}
	return nil
}

func writeEntry(w *format.Writer, e walker.FileInfo, opts *Options) error {
	if e.IsDir {
		if err := format.WriteEntry(w, format.Entry{Type: format.EntryDir, Path: e.RelPath}); err != nil {
			return err
		}
		opts.notify(Event{Type: format.EntryDir, Path: e.RelPath})
		return nil
	}

	data, err := os.ReadFile(e.Path)
	if err != nil {
		return format.WrapIO("read input", err)
	}
	payload, err := huffman.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", e.RelPath, err)
	}
	if err := format.WriteEntry(w, format.Entry{Type: format.EntryFile, Path: e.RelPath}); err != nil {
		return err
	}
	if err := format.WritePayload(w, payload); err != nil {
		return fmt.Errorf("%s: %w", e.RelPath, err)
	}
	opts.notify(Event{Type: format.EntryFile, Path: e.RelPath, Size: int64(len(data))})
	return nil
}

// DecompressDirectory recreates the folder held by a folder archive inside
// the output directory and returns the path of the restored root.
func DecompressDirectory(archivePath string, opts *Options) (string, error) {
	x := &extractor{dir: opts.outputDir(archivePath), want: format.KindFolder, opts: opts}
	if err := Visit(archivePath, x); err != nil {
		return "", err
	}
	return x.root, nil
}

// extractor is the Visitor that writes an archive back to disk.
type extractor struct {
	dir  string
	want format.Kind
	opts *Options
	root string
}

func (x *extractor) Root(h format.Header) error {
	if err := h.Expect(x.want); err != nil {
		return err
	}
	x.root = filepath.Join(x.dir, h.Name)
	dir := x.dir
	if h.Kind == format.KindFolder {
		dir = x.root
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return format.WrapIO("create output directory", err)
	}
	return nil
}

func (x *extractor) Dir(path string) error {
	if err := os.MkdirAll(x.target(path), 0755); err != nil {
		return format.WrapIO("create directory", err)
	}
	x.opts.notify(Event{Type: format.EntryDir, Path: path})
	return nil
}

func (x *extractor) File(path string, data []byte) error {
	target := x.root
	if x.want == format.KindFolder {
		target = x.target(path)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return format.WrapIO("create parent directory", err)
		}
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return format.WrapIO("write file", err)
	}
	x.opts.notify(Event{Type: format.EntryFile, Path: path, Size: int64(len(data))})
	return nil
}

func (x *extractor) target(path string) string {
	return filepath.Join(x.root, filepath.FromSlash(path))
}
