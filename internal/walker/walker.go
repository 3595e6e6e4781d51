package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

type FileInfo struct {
	Path    string // absolute path on disk
	RelPath string // slash-separated path relative to the walk root
	IsDir   bool
	Size    int64
	ModTime time.Time
}

type WalkResult struct {
	// Root is the absolute walk root with symbolic links resolved. Every
	// FileInfo.Path lies below it.
	Root string
	// Entries holds directories and regular files in pre-order,
	// depth-first, lexical order. The root itself is not included.
	Entries []FileInfo
	// Skipped lists relative paths of entries that are neither
	// directories nor regular files (symlinks, devices, sockets).
	Skipped []string
}

// Files returns only the regular file entries.
func (r *WalkResult) Files() []FileInfo {
	files := make([]FileInfo, 0, len(r.Entries))
	for _, e := range r.Entries {
		if !e.IsDir {
			files = append(files, e)
		}
	}
	return files
}

// TotalSize returns the combined size of all regular files.
func (r *WalkResult) TotalSize() int64 {
	var total int64
	for _, e := range r.Entries {
		if !e.IsDir {
			total += e.Size
		}
	}
	return total
}

// Walk lists rootPath recursively. A root given through a symbolic link is
// followed; links below the root are not. Any error reading the tree aborts
// the walk.
func Walk(rootPath string, exclusions []string) (*WalkResult, error) {
	for _, pattern := range exclusions {
		if !doublestar.ValidatePattern(strings.TrimSuffix(pattern, "/")) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	// WalkDir does not descend into a root that is itself a link.
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	result := &WalkResult{
		Root:    absRoot,
		Entries: make([]FileInfo, 0),
		Skipped: make([]string, 0),
	}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == absRoot {
			if !d.IsDir() {
				return fmt.Errorf("%s is not a directory", path)
			}
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if shouldExclude(relPath, d.IsDir(), exclusions) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && !d.Type().IsRegular() {
			result.Skipped = append(result.Skipped, relPath)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		entry := FileInfo{
			Path:    path,
			RelPath: relPath,
			IsDir:   d.IsDir(),
			ModTime: info.ModTime(),
		}
		if !entry.IsDir {
			entry.Size = info.Size()
		}
		result.Entries = append(result.Entries, entry)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return result, nil
}

// shouldExclude matches relPath against doublestar patterns. A pattern
// ending in "/" names directories and matches any directory segment of the
// path; a pattern without "/" matches the base name; any other pattern
// matches the whole relative path.
func shouldExclude(relPath string, isDir bool, exclusions []string) bool {
	parts := strings.Split(relPath, "/")
	for _, pattern := range exclusions {
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			dirParts := parts
			if !isDir {
				dirParts = parts[:len(parts)-1]
			}
			if strings.Contains(dirPattern, "/") {
				if isDir && matches(dirPattern, relPath) {
					return true
				}
				continue
			}
			for _, part := range dirParts {
				if matches(dirPattern, part) {
					return true
				}
			}
			continue
		}

		if !strings.Contains(pattern, "/") {
			if matches(pattern, parts[len(parts)-1]) {
				return true
			}
			continue
		}

		if matches(pattern, relPath) {
			return true
		}
	}
	return false
}

func matches(pattern, name string) bool {
	matched, err := doublestar.Match(pattern, name)
	return err == nil && matched
}
