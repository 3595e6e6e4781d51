package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"huff-go/internal/archive"
	"huff-go/internal/format"
	"huff-go/internal/hash"
	"huff-go/internal/progress"
	"huff-go/internal/walker"
)

// Options controls how a directory is scanned.
type Options struct {
	Exclude []string
	// Workers bounds concurrent file hashing. Zero means 2*NumCPU.
	Workers int
	// Ignore is a path left out of the scan, typically the archive being
	// verified when it lives inside the directory.
	Ignore string
	Bar    *progress.Bar
}

// collector is the archive.Visitor that hashes decoded contents.
type collector struct {
	entries map[string]Entry
}

func (c *collector) Root(format.Header) error { return nil }

func (c *collector) Dir(path string) error {
	c.entries[path] = Entry{Dir: true}
	return nil
}

func (c *collector) File(path string, data []byte) error {
	c.entries[path] = Entry{Hash: hash.HashBytes(data), Size: int64(len(data))}
	return nil
}

// FromArchive decodes every payload of an archive in memory and returns the
// manifest of its contents. A single-file archive yields one entry named
// after the stored file.
func FromArchive(archivePath string) (*Manifest, error) {
	c := &collector{entries: make(map[string]Entry)}
	if err := archive.Visit(archivePath, c); err != nil {
		return nil, err
	}
	return Build(c.entries)
}

// FromPath returns the manifest of a directory tree, or of a single file
// keyed by its base name.
func FromPath(ctx context.Context, path string, opts Options) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return FromDirectory(ctx, path, opts)
	}

	sum, err := hash.HashFile(path)
	if err != nil {
		return nil, err
	}
	return Build(map[string]Entry{
		filepath.Base(path): {Hash: sum, Size: info.Size()},
	})
}

// FromDirectory walks dir and hashes its files with a bounded pool of
// goroutines. Files that cannot be read are reported in Errors rather than
// failing the scan; only cancellation of ctx aborts it.
func FromDirectory(ctx context.Context, dir string, opts Options) (*Manifest, error) {
	result, err := walker.Walk(dir, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	ignore, err := ignorePath(opts.Ignore)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}

	opts.Bar.SetTotal(int64(len(result.Files())))

	var (
		mu      sync.Mutex
		entries = make(map[string]Entry, len(result.Entries))
		errs    = make(map[string]error)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	// Directories are recorded inline; files are hashed by the pool.
	for _, fi := range result.Entries {
		if fi.Path == ignore {
			continue
		}
		if fi.IsDir {
			entries[fi.RelPath] = Entry{Dir: true}
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			opts.Bar.SetDirectory(fi.RelPath)
			sum, err := hash.HashFile(fi.Path)

			mu.Lock()
			if err != nil {
				errs[fi.RelPath] = err
			} else {
				entries[fi.RelPath] = Entry{Hash: sum, Size: fi.Size}
			}
			mu.Unlock()

			opts.Bar.Increment(fi.Size)
			return nil
		})
	}
	// A cancelled parent context means the manifest is incomplete.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := Build(entries)
	if err != nil {
		return nil, err
	}
	m.Errors = errs
	m.Skipped = result.Skipped
	return m, nil
}

// ignorePath resolves links in path so it compares equal to walk paths. A
// path that does not exist is only made absolute.
func ignorePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
