// Package progress draws a single-line progress bar for long running
// archive and verification commands.
package progress

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"
	"time"
)

const refreshInterval = 100 * time.Millisecond

// Bar counts processed entries against a known total. A nil *Bar is valid
// and draws nothing, so callers can pass one around unconditionally.
type Bar struct {
	total      int64
	current    int64
	bytes      int64
	width      int
	writer     io.Writer
	dir        string
	mu         sync.Mutex
	enabled    bool
	lastUpdate time.Time
}

// New returns a bar drawn on stderr. It stays silent when stderr is not a
// terminal.
func New(total int64) *Bar {
	b := NewWriter(os.Stderr, total)
	b.enabled = isTerminal(os.Stderr)
	return b
}

// NewWriter returns a bar that always draws on w.
func NewWriter(w io.Writer, total int64) *Bar {
	return &Bar{
		total:   total,
		width:   40,
		writer:  w,
		enabled: true,
	}
}

func isTerminal(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// SetTotal replaces the expected number of entries.
func (b *Bar) SetTotal(total int64) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.total = total
	b.mu.Unlock()
}

// SetDirectory records the directory of the entry being processed. rel is
// slash-separated.
func (b *Bar) SetDirectory(rel string) {
	if b == nil || !b.enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if d := path.Dir(rel); d != "." {
		b.dir = d
	} else {
		b.dir = ""
	}
}

// Increment advances the bar by one entry of n bytes.
func (b *Bar) Increment(n int64) {
	if b == nil || !b.enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++
	b.bytes += n

	now := time.Now()
	if now.Sub(b.lastUpdate) > refreshInterval || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

// render must be called with mu held.
func (b *Bar) render() {
	if b.total <= 0 {
		return
	}

	current := min(b.current, b.total)
	percent := float64(current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(current) / float64(b.total))
	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	var dirDisplay string
	if b.dir != "" {
		dirDisplay = " | " + b.dir
	}

	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d, %s)%s",
		bar, int(percent), current, b.total, FormatSize(b.bytes), dirDisplay)
}

// Finish draws the completed bar and ends the line.
func (b *Bar) Finish() {
	if b == nil || !b.enabled {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.total
	b.dir = ""
	b.render()
	fmt.Fprintln(b.writer)
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
