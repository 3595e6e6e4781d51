package archive

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"huff-go/internal/format"
	"huff-go/internal/huffman"
)

func writeFiles(t *testing.T, root string, files map[string][]byte, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// snapshot maps every relative path under root to its contents, with
// directories mapped to "<dir>".
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	snap := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			snap[rel] = "<dir>"
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("Snapshot of %s failed: %v", root, err)
	}
	return snap
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("Failed to generate random content: %v", err)
	}
	return b
}

func TestCompressDecompressFile(t *testing.T) {
	cases := map[string][]byte{
		"empty.txt":  {},
		"single.bin": bytes.Repeat([]byte{0x42}, 999),
		"text.txt":   bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 100),
		"random.bin": randomBytes(t, 32*1024),
		"abc.txt":    {0x41, 0x41, 0x42, 0x43},
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			srcDir := t.TempDir()
			input := filepath.Join(srcDir, name)
			if err := os.WriteFile(input, content, 0644); err != nil {
				t.Fatalf("Failed to write input: %v", err)
			}

			archivePath := filepath.Join(t.TempDir(), name+Extension)
			if err := CompressFile(input, archivePath, nil); err != nil {
				t.Fatalf("CompressFile failed: %v", err)
			}

			outDir := t.TempDir()
			restored, err := DecompressFile(archivePath, &Options{OutputDir: outDir})
			if err != nil {
				t.Fatalf("DecompressFile failed: %v", err)
			}
			if restored != filepath.Join(outDir, name) {
				t.Errorf("Expected restored path %s, got %s", filepath.Join(outDir, name), restored)
			}

			got, err := os.ReadFile(restored)
			if err != nil {
				t.Fatalf("Failed to read restored file: %v", err)
			}
			if !bytes.Equal(content, got) {
				t.Errorf("Restored content differs: %d bytes in, %d bytes out", len(content), len(got))
			}
		})
	}
}

func TestDecompressFile_DefaultsToArchiveDirectory(t *testing.T) {
	srcDir := t.TempDir()
	input := filepath.Join(srcDir, "note.txt")
	writeFiles(t, srcDir, map[string][]byte{"note.txt": []byte("hello")})

	archiveDir := t.TempDir()
	archivePath := filepath.Join(archiveDir, "note.huff")
	if err := CompressFile(input, archivePath, nil); err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}

	restored, err := DecompressFile(archivePath, nil)
	if err != nil {
		t.Fatalf("DecompressFile failed: %v", err)
	}
	if restored != filepath.Join(archiveDir, "note.txt") {
		t.Errorf("Expected file next to archive, got %s", restored)
	}
}

func TestSingleFileLayout(t *testing.T) {
	srcDir := t.TempDir()
	writeFiles(t, srcDir, map[string][]byte{"x": {0x41, 0x41, 0x42, 0x43}})
	archivePath := filepath.Join(t.TempDir(), "x.huff")
	if err := CompressFile(filepath.Join(srcDir, "x"), archivePath, nil); err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	data, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatalf("Failed to read archive: %v", err)
	}

	expected := []byte{
		'H', 'F', 'I', 'L', 'E',
		0, 1, 'x',
		0, 0, 0, 1, // payload length
		6,          // meaningful bits in last byte
		0, 0, 0, 3,
		'A', 0, 0, 0, 1, 0, '0',
		'B', 0, 0, 0, 2, 0, '1', 0, '0',
		'C', 0, 0, 0, 2, 0, '1', 0, '1',
		0x2C,
	}
	if !bytes.Equal(data, expected) {
		t.Errorf("Unexpected archive bytes:\n got  %v\n want %v", data, expected)
	}
}

func TestCompressDecompressDirectory(t *testing.T) {
	src := filepath.Join(t.TempDir(), "project")
	deep := "d1/d2/d3/d4/d5/d6/d7/d8/d9/d10/deep.txt"
	writeFiles(t, src, map[string][]byte{
		"root.txt":           bytes.Repeat([]byte("root "), 50),
		"subdir1/file1.txt":  []byte("file one"),
		"subdir2/file2.bin":  randomBytes(t, 4096),
		"subdir1/sub/x.txt":  bytes.Repeat([]byte{0}, 300),
		"subdir1/sub/e.txt":  {},
		"names with space/é": []byte("unicode names survive"),
		deep:                 []byte("deep"),
	}, "empty", "subdir2/empty-nested/inner")

	archivePath := filepath.Join(t.TempDir(), "project.huff")
	if err := CompressDirectory(src, archivePath, nil); err != nil {
		t.Fatalf("CompressDirectory failed: %v", err)
	}

	outDir := t.TempDir()
	restored, err := DecompressDirectory(archivePath, &Options{OutputDir: outDir})
	if err != nil {
		t.Fatalf("DecompressDirectory failed: %v", err)
	}
	if restored != filepath.Join(outDir, "project") {
		t.Errorf("Expected root %s, got %s", filepath.Join(outDir, "project"), restored)
	}

	if diff := pretty.Diff(snapshot(t, src), snapshot(t, restored)); len(diff) > 0 {
		t.Errorf("Restored tree differs: %v", diff)
	}
}

func TestCompressDirectory_EmptyRoot(t *testing.T) {
	src := filepath.Join(t.TempDir(), "nothing")
	writeFiles(t, src, nil, ".")

	archivePath := filepath.Join(t.TempDir(), "nothing.huff")
	if err := CompressDirectory(src, archivePath, nil); err != nil {
		t.Fatalf("CompressDirectory failed: %v", err)
	}

	restored, err := DecompressDirectory(archivePath, &Options{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("DecompressDirectory failed: %v", err)
	}
	info, err := os.Stat(restored)
	if err != nil || !info.IsDir() {
		t.Fatalf("Expected empty root directory to be created: %v", err)
	}
	if len(snapshot(t, restored)) != 0 {
		t.Error("Expected restored root to be empty")
	}
}

func TestConcreteDirectoryScenario(t *testing.T) {
	src := filepath.Join(t.TempDir(), "root")
	writeFiles(t, src, map[string][]byte{
		"a.txt":     []byte("alpha"),
		"sub/b.txt": []byte("bravo"),
	})

	archivePath := filepath.Join(t.TempDir(), "root.huff")
	var events []Event
	opts := &Options{OnEntry: func(e Event) { events = append(events, e) }}
	if err := CompressDirectory(src, archivePath, opts); err != nil {
		t.Fatalf("CompressDirectory failed: %v", err)
	}

	expected := []Event{
		{Type: format.EntryFile, Path: "a.txt", Size: 5},
		{Type: format.EntryDir, Path: "sub"},
		{Type: format.EntryFile, Path: "sub/b.txt", Size: 5},
	}
	if diff := pretty.Diff(expected, events); len(diff) > 0 {
		t.Errorf("Unexpected entry order: %v", diff)
	}

	var items []Item
	for item, err := range PreviewStructure(archivePath) {
		if err != nil {
			t.Fatalf("PreviewStructure failed: %v", err)
		}
		items = append(items, item)
	}
	expectedItems := []Item{
		{Depth: 0, Name: "a.txt", Path: "a.txt", Type: format.EntryFile},
		{Depth: 0, Name: "sub", Path: "sub", Type: format.EntryDir},
		{Depth: 1, Name: "b.txt", Path: "sub/b.txt", Type: format.EntryFile},
	}
	if diff := pretty.Diff(expectedItems, items); len(diff) > 0 {
		t.Errorf("Unexpected preview: %v", diff)
	}

	outDir := t.TempDir()
	restored, err := DecompressDirectory(archivePath, &Options{OutputDir: outDir})
	if err != nil {
		t.Fatalf("DecompressDirectory failed: %v", err)
	}
	if filepath.Base(restored) != "root" {
		t.Errorf("Expected restored root named root, got %s", restored)
	}
	for name, want := range map[string]string{"a.txt": "alpha", "sub/b.txt": "bravo"} {
		got, err := os.ReadFile(filepath.Join(restored, filepath.FromSlash(name)))
		if err != nil || string(got) != want {
			t.Errorf("%s: expected %q, got %q (%v)", name, want, got, err)
		}
	}
}

func TestPreviewStructure_Depths(t *testing.T) {
	src := filepath.Join(t.TempDir(), "tree")
	writeFiles(t, src, map[string][]byte{
		"a/b/c/deep.txt": []byte("1"),
		"a/b/side.txt":   []byte("2"),
		"a/top.txt":      []byte("3"),
		"ab/x.txt":       []byte("4"),
		"z.txt":          []byte("5"),
	})
	archivePath := filepath.Join(t.TempDir(), "tree.huff")
	if err := CompressDirectory(src, archivePath, nil); err != nil {
		t.Fatalf("CompressDirectory failed: %v", err)
	}

	var lines []string
	for item, err := range PreviewStructure(archivePath) {
		if err != nil {
			t.Fatalf("PreviewStructure failed: %v", err)
		}
		lines = append(lines, strings.Repeat("  ", item.Depth)+item.Name)
	}
	expected := []string{
		"a",
		"  b",
		"    c",
		"      deep.txt",
		"    side.txt",
		"  top.txt",
		"ab",
		"  x.txt",
		"z.txt",
	}
	if diff := pretty.Diff(expected, lines); len(diff) > 0 {
		t.Errorf("Unexpected preview: %v", diff)
	}
}

// writeRawFolder builds a folder archive by hand, with payloads supplied
// by the caller.
func writeRawFolder(t *testing.T, path string, entries []format.Entry, payloads []*huffman.Payload) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	defer f.Close()
	w := format.NewWriter(f)
	if err := format.WriteHeader(w, format.Header{Kind: format.KindFolder, Name: "raw"}); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	pi := 0
	for _, e := range entries {
		if err := format.WriteEntry(w, e); err != nil {
			t.Fatalf("WriteEntry failed: %v", err)
		}
		if e.Type == format.EntryFile {
			if err := format.WritePayload(w, payloads[pi]); err != nil {
				t.Fatalf("WritePayload failed: %v", err)
			}
			pi++
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
}

func TestPreviewStructure_CorruptPayload(t *testing.T) {
	good, _ := huffman.Encode([]byte("fine"))
	bad, _ := huffman.Encode([]byte("AABC"))
	bad.Packed = []byte{0xFF, 0xFF, 0xFF} // nonzero padding, ends mid-code

	archivePath := filepath.Join(t.TempDir(), "raw.huff")
	writeRawFolder(t, archivePath, []format.Entry{
		{Type: format.EntryFile, Path: "bad.txt"},
		{Type: format.EntryDir, Path: "d"},
		{Type: format.EntryFile, Path: "d/good.txt"},
	}, []*huffman.Payload{bad, good})

	var names []string
	for item, err := range PreviewStructure(archivePath) {
		if err != nil {
			t.Fatalf("PreviewStructure failed: %v", err)
		}
		names = append(names, item.Path)
	}
	if diff := pretty.Diff([]string{"bad.txt", "d", "d/good.txt"}, names); len(diff) > 0 {
		t.Errorf("Unexpected preview: %v", diff)
	}

	_, err := DecompressDirectory(archivePath, &Options{OutputDir: t.TempDir()})
	if !errors.Is(err, format.ErrCorruptPayload) {
		t.Errorf("Expected ErrCorruptPayload, got %v", err)
	}
}

func TestDecompress_CorruptPayloadWritesNoPartialFile(t *testing.T) {
	bad, _ := huffman.Encode([]byte("AABC"))
	bad.Packed = []byte{0x2C, 0xFF}

	archivePath := filepath.Join(t.TempDir(), "raw.huff")
	writeRawFolder(t, archivePath, []format.Entry{{Type: format.EntryFile, Path: "f.txt"}}, []*huffman.Payload{bad})

	outDir := t.TempDir()
	if _, err := DecompressDirectory(archivePath, &Options{OutputDir: outDir}); err == nil {
		t.Fatal("Expected decode failure")
	}
	if _, err := os.Stat(filepath.Join(outDir, "raw", "f.txt")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Corrupt file should not be written, stat gave %v", err)
	}
}

func TestDecompress_RejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	foreign := filepath.Join(dir, "notes.huff")
	if err := os.WriteFile(foreign, []byte("PK\x03\x04 definitely a zip"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	if _, err := Decompress(foreign, &Options{OutputDir: outDir}); !errors.Is(err, format.ErrUnrecognizedFormat) {
		t.Errorf("Expected ErrUnrecognizedFormat, got %v", err)
	}
	if _, err := DecompressDirectory(foreign, &Options{OutputDir: outDir}); !errors.Is(err, format.ErrUnrecognizedFormat) {
		t.Errorf("Expected ErrUnrecognizedFormat, got %v", err)
	}
	if _, err := DecompressFile(foreign, &Options{OutputDir: outDir}); !errors.Is(err, format.ErrUnrecognizedFormat) {
		t.Errorf("Expected ErrUnrecognizedFormat, got %v", err)
	}
	for _, err := range PreviewStructure(foreign) {
		if !errors.Is(err, format.ErrUnrecognizedFormat) {
			t.Errorf("Expected ErrUnrecognizedFormat from preview, got %v", err)
		}
	}

	if _, err := os.Stat(outDir); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("No output should be created for a foreign file, stat gave %v", err)
	}
}

func TestDecompress_KindMismatch(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{"f.txt": []byte("x")})
	archivePath := filepath.Join(t.TempDir(), "f.huff")
	if err := CompressFile(filepath.Join(src, "f.txt"), archivePath, nil); err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	outDir := filepath.Join(t.TempDir(), "out")
	if _, err := DecompressDirectory(archivePath, &Options{OutputDir: outDir}); !errors.Is(err, format.ErrUnrecognizedFormat) {
		t.Errorf("Expected ErrUnrecognizedFormat, got %v", err)
	}
	if _, err := os.Stat(outDir); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("No output should be created on kind mismatch, stat gave %v", err)
	}
}

func TestDecompress_Truncated(t *testing.T) {
	src := filepath.Join(t.TempDir(), "tr")
	writeFiles(t, src, map[string][]byte{"a.txt": bytes.Repeat([]byte("abcdefg"), 100)})
	archivePath := filepath.Join(t.TempDir(), "tr.huff")
	if err := CompressDirectory(src, archivePath, nil); err != nil {
		t.Fatalf("CompressDirectory failed: %v", err)
	}
	data, _ := os.ReadFile(archivePath)
	if err := os.WriteFile(archivePath, data[:len(data)-10], 0644); err != nil {
		t.Fatalf("Failed to truncate archive: %v", err)
	}

	if _, err := DecompressDirectory(archivePath, &Options{OutputDir: t.TempDir()}); !errors.Is(err, format.ErrTruncatedStream) {
		t.Errorf("Expected ErrTruncatedStream, got %v", err)
	}
}

func TestDecompress_RejectsEscapingPaths(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "evil.huff")
	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	w := format.NewWriter(f)
	_ = format.WriteHeader(w, format.Header{Kind: format.KindFolder, Name: "evil"})
	_ = w.WriteString("F")
	_ = w.WriteString("../escape")
	_ = w.Flush()
	f.Close()

	outDir := t.TempDir()
	if _, err := DecompressDirectory(archivePath, &Options{OutputDir: outDir}); !errors.Is(err, format.ErrUnsafePath) {
		t.Errorf("Expected ErrUnsafePath, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "escape")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("Escaping directory should not be created")
	}
}

func TestNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	out := filepath.Join(t.TempDir(), "out.huff")

	if err := CompressFile(missing, out, nil); !errors.Is(err, format.ErrNotFound) {
		t.Errorf("CompressFile: expected ErrNotFound, got %v", err)
	}
	if err := CompressDirectory(missing, out, nil); !errors.Is(err, format.ErrNotFound) {
		t.Errorf("CompressDirectory: expected ErrNotFound, got %v", err)
	}
	if _, err := Decompress(missing, nil); !errors.Is(err, format.ErrNotFound) {
		t.Errorf("Decompress: expected ErrNotFound, got %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Error("No archive should be created for a missing input")
	}
}

func TestCompress_AutoDispatch(t *testing.T) {
	base := t.TempDir()
	writeFiles(t, base, map[string][]byte{
		"single.txt":    []byte("just one file"),
		"folder/in.txt": []byte("inside"),
	})

	fileArchive, err := Compress(filepath.Join(base, "single.txt"), "", nil)
	if err != nil {
		t.Fatalf("Compress file failed: %v", err)
	}
	if fileArchive != filepath.Join(base, "single.txt.huff") {
		t.Errorf("Unexpected default output %s", fileArchive)
	}
	folderArchive, err := Compress(filepath.Join(base, "folder")+string(filepath.Separator), "", nil)
	if err != nil {
		t.Fatalf("Compress folder failed: %v", err)
	}
	if folderArchive != filepath.Join(base, "folder.huff") {
		t.Errorf("Unexpected default output %s", folderArchive)
	}

	if h, err := ReadHeader(fileArchive); err != nil || h.Kind != format.KindFile || h.Name != "single.txt" {
		t.Errorf("Unexpected file header %+v (%v)", h, err)
	}
	if h, err := ReadHeader(folderArchive); err != nil || h.Kind != format.KindFolder || h.Name != "folder" {
		t.Errorf("Unexpected folder header %+v (%v)", h, err)
	}

	outDir := t.TempDir()
	restoredFile, err := Decompress(fileArchive, &Options{OutputDir: outDir})
	if err != nil {
		t.Fatalf("Decompress file failed: %v", err)
	}
	if got, _ := os.ReadFile(restoredFile); string(got) != "just one file" {
		t.Errorf("Unexpected restored content %q", got)
	}
	restoredDir, err := Decompress(folderArchive, &Options{OutputDir: outDir})
	if err != nil {
		t.Fatalf("Decompress folder failed: %v", err)
	}
	if got, _ := os.ReadFile(filepath.Join(restoredDir, "in.txt")); string(got) != "inside" {
		t.Errorf("Unexpected restored content %q", got)
	}
	if p, err := RestorePath(folderArchive, &Options{OutputDir: outDir}); err != nil || p != restoredDir {
		t.Errorf("RestorePath gave %s (%v), expected %s", p, err, restoredDir)
	}
}

func TestCompressDirectory_Exclude(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	writeFiles(t, src, map[string][]byte{
		"keep.go":         []byte("package keep"),
		"skip.log":        []byte("noise"),
		"build/out.bin":   []byte("artifact"),
		"pkg/keep_too.go": []byte("package pkg"),
	})
	archivePath := filepath.Join(t.TempDir(), "src.huff")
	if err := CompressDirectory(src, archivePath, &Options{Exclude: []string{"*.log", "build/"}}); err != nil {
		t.Fatalf("CompressDirectory failed: %v", err)
	}

	var paths []string
	for item, err := range PreviewStructure(archivePath) {
		if err != nil {
			t.Fatalf("PreviewStructure failed: %v", err)
		}
		paths = append(paths, item.Path)
	}
	if diff := pretty.Diff([]string{"keep.go", "pkg", "pkg/keep_too.go"}, paths); len(diff) > 0 {
		t.Errorf("Unexpected entries: %v", diff)
	}
}

func TestCompressDirectory_OutputInsideInput(t *testing.T) {
	src := filepath.Join(t.TempDir(), "self")
	writeFiles(t, src, map[string][]byte{"a.txt": []byte("a")})
	archivePath := filepath.Join(src, "self.huff")
	// Pre-existing archive at the output location must not archive itself.
	writeFiles(t, src, map[string][]byte{"self.huff": []byte("stale")})

	if err := CompressDirectory(src, archivePath, nil); err != nil {
		t.Fatalf("CompressDirectory failed: %v", err)
	}
	var paths []string
	for item, err := range PreviewStructure(archivePath) {
		if err != nil {
			t.Fatalf("PreviewStructure failed: %v", err)
		}
		paths = append(paths, item.Path)
	}
	if diff := pretty.Diff([]string{"a.txt"}, paths); len(diff) > 0 {
		t.Errorf("Unexpected entries: %v", diff)
	}
}

func TestPreviewStructure_SingleFileArchive(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string][]byte{"solo.txt": []byte("solo")})
	archivePath := filepath.Join(t.TempDir(), "solo.huff")
	if err := CompressFile(filepath.Join(src, "solo.txt"), archivePath, nil); err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	var items []Item
	for item, err := range PreviewStructure(archivePath) {
		if err != nil {
			t.Fatalf("PreviewStructure failed: %v", err)
		}
		items = append(items, item)
	}
	if len(items) != 1 || items[0].Name != "solo.txt" || items[0].Depth != 0 {
		t.Errorf("Unexpected preview %+v", items)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	cases := []struct {
		input, ext, want string
	}{
		{"data", "", "data.huff"},
		{"dir/", "", "dir.huff"},
		{"a/b.txt", ".hz", filepath.FromSlash("a/b.txt.hz")},
		{"a", "pack", "a.pack"},
	}
	for _, tc := range cases {
		if got := DefaultOutputPath(tc.input, tc.ext); got != tc.want {
			t.Errorf("DefaultOutputPath(%q, %q) = %q, want %q", tc.input, tc.ext, got, tc.want)
		}
	}
}

func TestCompressDirectory_SymlinkedRoot(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	writeFiles(t, target, map[string][]byte{
		"a.txt":     []byte("alpha"),
		"sub/b.txt": []byte("bravo"),
	})
	link := filepath.Join(base, "linked")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("Symlinks not supported: %v", err)
	}

	// The archive is written inside the tree, addressed through the link.
	archivePath := filepath.Join(link, "linked.huff")
	if err := CompressDirectory(link, archivePath, nil); err != nil {
		t.Fatalf("CompressDirectory through symlink failed: %v", err)
	}

	h, err := ReadHeader(archivePath)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if h.Name != "linked" {
		t.Errorf("Expected root named after the given path, got %q", h.Name)
	}

	var paths []string
	for item, err := range PreviewStructure(archivePath) {
		if err != nil {
			t.Fatalf("PreviewStructure failed: %v", err)
		}
		paths = append(paths, item.Path)
	}
	if diff := pretty.Diff([]string{"a.txt", "sub", "sub/b.txt"}, paths); len(diff) > 0 {
		t.Errorf("Unexpected entries: %v", diff)
	}
}

func TestCompressDirectory_ReportsSkippedEntries(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	writeFiles(t, src, map[string][]byte{"a.txt": []byte("alpha")})
	if err := os.Symlink(filepath.Join(src, "a.txt"), filepath.Join(src, "b.txt")); err != nil {
		t.Skipf("Symlinks not supported: %v", err)
	}

	var skipped []string
	archivePath := filepath.Join(t.TempDir(), "src.huff")
	opts := &Options{OnSkip: func(p string) { skipped = append(skipped, p) }}
	if err := CompressDirectory(src, archivePath, opts); err != nil {
		t.Fatalf("CompressDirectory failed: %v", err)
	}
	if diff := pretty.Diff([]string{"b.txt"}, skipped); len(diff) > 0 {
		t.Errorf("Unexpected skipped entries: %v", diff)
	}

	var paths []string
	for item, err := range PreviewStructure(archivePath) {
		if err != nil {
			t.Fatalf("PreviewStructure failed: %v", err)
		}
		paths = append(paths, item.Path)
	}
	if diff := pretty.Diff([]string{"a.txt"}, paths); len(diff) > 0 {
		t.Errorf("Unexpected entries: %v", diff)
	}
}

func TestCompressFile_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := CompressFile(dir, filepath.Join(t.TempDir(), "x.huff"), nil); err == nil {
		t.Error("CompressFile should reject a directory")
	}
}
