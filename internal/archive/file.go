package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"huff-go/internal/format"
	"huff-go/internal/huffman"
)

// CompressFile writes a single-file archive of inputPath to outputPath.
func CompressFile(inputPath, outputPath string, opts *Options) error {
	info, err := statInput(inputPath)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", inputPath)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", inputPath)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return format.WrapIO("read input", err)
	}
	payload, err := huffman.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", inputPath, err)
	}

	name := filepath.Base(inputPath)
	f, err := createArchive(outputPath)
	if err != nil {
		return err
	}
	w := format.NewWriter(f)
	err = format.WriteHeader(w, format.Header{Kind: format.KindFile, Name: name})
	if err == nil {
		err = format.WritePayload(w, payload)
	}
	if err := finish(w, f, err); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	opts.notify(Event{Type: format.EntryFile, Path: name, Size: int64(len(data))})
	return nil
}

// DecompressFile restores the file held by a single-file archive into the
// output directory under its stored name, and returns its path.
func DecompressFile(archivePath string, opts *Options) (string, error) {
	x := &extractor{dir: opts.outputDir(archivePath), want: format.KindFile, opts: opts}
	if err := Visit(archivePath, x); err != nil {
		return "", err
	}
	return x.root, nil
}
