// Package hash fingerprints file contents with xxHash64 for verification
// of archives against directories on disk.
package hash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

const bufferSize = 32 * 1024

// Sum is the hex form of a 64-bit xxHash digest.
type Sum string

// HashReader streams r through xxHash and returns the digest.
func HashReader(r io.Reader) (Sum, error) {
	d := xxhash.New()
	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(d, r, buf); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return encode(d.Sum64()), nil
}

// HashFile computes the digest of the file at path without loading it
// into memory.
func HashFile(path string) (Sum, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	sum, err := HashReader(file)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return sum, nil
}

// HashBytes returns the digest of data, matching HashFile for a file
// holding the same bytes.
func HashBytes(data []byte) Sum {
	return encode(xxhash.Sum64(data))
}

// XXHashFunc adapts xxHash to the hash function signature of go-merkletree.
func XXHashFunc(data []byte) ([]byte, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, xxhash.Sum64(data))
	return buf, nil
}

func encode(sum uint64) Sum {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], sum)
	return Sum(hex.EncodeToString(buf[:]))
}
