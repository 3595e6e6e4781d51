package hash

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func expectedSum(data []byte) Sum {
	h := xxhash.New()
	h.Write(data)
	return Sum(hex.EncodeToString(h.Sum(nil)))
}

func TestHashFile_SmallFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.txt")
	content := []byte("Hello, World!")
	if err := os.WriteFile(testFile, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	sum, err := HashFile(testFile)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if want := expectedSum(content); sum != want {
		t.Errorf("Hash mismatch: expected %s, got %s", want, sum)
	}
}

func TestHashFile_LargeFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "large.bin")

	// Spans many read buffers.
	data := make([]byte, 1024*1024+7)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := os.WriteFile(testFile, data, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	sum, err := HashFile(testFile)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if want := expectedSum(data); sum != want {
		t.Errorf("Hash mismatch: expected %s, got %s", want, sum)
	}
	if HashBytes(data) != sum {
		t.Error("HashBytes should agree with HashFile")
	}
}

func TestHashFile_NonExistent(t *testing.T) {
	if _, err := HashFile("/nonexistent/file.txt"); err == nil {
		t.Error("HashFile should return error for nonexistent file")
	}
}

func TestHashBytes_Empty(t *testing.T) {
	sum := HashBytes(nil)
	if len(sum) != 16 {
		t.Errorf("Expected 16 hex digits, got %q", sum)
	}
	fromReader, err := HashReader(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("HashReader failed: %v", err)
	}
	if fromReader != sum {
		t.Errorf("HashReader and HashBytes disagree on empty input: %s vs %s", fromReader, sum)
	}
}

func TestXXHashFunc(t *testing.T) {
	data := []byte("test data")

	first, err := XXHashFunc(data)
	if err != nil {
		t.Fatalf("XXHashFunc failed: %v", err)
	}
	if len(first) != 8 {
		t.Errorf("Expected 8 bytes, got %d", len(first))
	}
	second, _ := XXHashFunc(data)
	if !bytes.Equal(first, second) {
		t.Error("XXHashFunc should be deterministic")
	}
	if Sum(hex.EncodeToString(first)) != HashBytes(data) {
		t.Error("XXHashFunc and HashBytes should encode the same digest")
	}
}
