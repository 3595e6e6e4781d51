// Package archive implements compression and decompression of single files
// and directory trees into the HFILE and HFOLD container formats.
//
// Every file is coded independently with its own static Huffman table. All
// operations are sequential and hold at most one input and one output file
// open at a time.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"huff-go/internal/format"
)

// Extension is appended to the input path when no output path is given.
const Extension = ".huff"

// Options tunes an archive operation. The zero value is ready to use.
type Options struct {
	// OutputDir is where decompression recreates the stored file or root
	// folder. Empty means the directory containing the archive.
	OutputDir string

	// Exclude holds patterns of paths left out of directory compression.
	Exclude []string

	// OnEntry, if set, is called after each entry is written or restored.
	OnEntry func(Event)

	// OnSkip, if set, receives the relative path of every symbolic link or
	// special file found during directory compression. Such entries are
	// not stored in the archive.
	OnSkip func(path string)
}

// Event describes one processed entry.
type Event struct {
	Type format.EntryType
	Path string // slash-separated, relative to the archive root
	Size int64  // uncompressed size of a file entry
}

func (o *Options) notify(e Event) {
	if o != nil && o.OnEntry != nil {
		o.OnEntry(e)
	}
}

func (o *Options) notifySkip(path string) {
	if o != nil && o.OnSkip != nil {
		o.OnSkip(path)
	}
}

func (o *Options) outputDir(archivePath string) string {
	if o != nil && o.OutputDir != "" {
		return o.OutputDir
	}
	return filepath.Dir(archivePath)
}

func (o *Options) exclude() []string {
	if o == nil {
		return nil
	}
	return o.Exclude
}

// DefaultOutputPath returns inputPath with ext appended, or Extension when
// ext is empty.
func DefaultOutputPath(inputPath, ext string) string {
	if ext == "" {
		ext = Extension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Clean(inputPath) + ext
}

// Compress writes a folder archive when inputPath is a directory and a
// single-file archive otherwise. An empty outputPath selects
// DefaultOutputPath. The path of the written archive is returned.
func Compress(inputPath, outputPath string, opts *Options) (string, error) {
	info, err := statInput(inputPath)
	if err != nil {
		return "", err
	}
	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath, "")
	}
	if info.IsDir() {
		return outputPath, CompressDirectory(inputPath, outputPath, opts)
	}
	return outputPath, CompressFile(inputPath, outputPath, opts)
}

// Decompress inspects the archive signature and restores either the single
// file or the folder it holds. It returns the path of the restored file or
// root folder.
func Decompress(archivePath string, opts *Options) (string, error) {
	h, err := ReadHeader(archivePath)
	if err != nil {
		return "", err
	}
	switch h.Kind {
	case format.KindFolder:
		return DecompressDirectory(archivePath, opts)
	default:
		return DecompressFile(archivePath, opts)
	}
}

// ReadHeader returns the kind and stored name of an archive without
// reading past its header.
func ReadHeader(archivePath string) (format.Header, error) {
	f, size, err := openArchive(archivePath)
	if err != nil {
		return format.Header{}, err
	}
	defer f.Close()

	h, err := format.ReadHeader(format.NewReader(f, size))
	if err != nil {
		return format.Header{}, fmt.Errorf("%s: %w", archivePath, err)
	}
	return h, nil
}

// RestorePath returns where decompressing archivePath with opts would
// place its file or root folder.
func RestorePath(archivePath string, opts *Options) (string, error) {
	h, err := ReadHeader(archivePath)
	if err != nil {
		return "", err
	}
	if err := format.ValidateName(h.Name); err != nil {
		return "", err
	}
	return filepath.Join(opts.outputDir(archivePath), h.Name), nil
}

func statInput(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", format.ErrNotFound, err)
		}
		return nil, format.WrapIO("stat input", err)
	}
	return info, nil
}

func openArchive(path string) (*os.File, int64, error) {
	if _, err := statInput(path); err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, format.WrapIO("open archive", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, format.WrapIO("stat archive", err)
	}
	return f, info.Size(), nil
}

// resolvePath returns the absolute form of an existing path with symbolic
// links resolved.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", format.WrapIO("resolve path", err)
	}
	return resolved, nil
}

// createArchive creates outputPath and its parent directory.
func createArchive(outputPath string) (*os.File, error) {
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, format.WrapIO("create output directory", err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, format.WrapIO("create output", err)
	}
	return f, nil
}

// finish flushes w and closes f, keeping the first error.
func finish(w *format.Writer, f *os.File, err error) error {
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = format.WrapIO("close output", cerr)
	}
	return err
}
