package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"huff-go/internal/archive"
	"huff-go/internal/format"
	"huff-go/internal/progress"
	"huff-go/internal/walker"
)

func newCompressCmd(a *app) *cobra.Command {
	var (
		output  string
		force   bool
		exclude []string
	)
	cmd := &cobra.Command{
		Use:     "compress <input> [output]",
		Aliases: []string{"huff"},
		Short:   "Compress a file or a directory into an archive",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if len(args) == 2 {
				if output != "" {
					return errors.New("output given both as argument and --output")
				}
				output = args[1]
			}
			if output == "" {
				output = archive.DefaultOutputPath(input, a.cfg.Extension)
			}
			return a.compress(input, output, force, a.excludes(cmd.Flags(), exclude))
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Archive path (default: input path plus extension)")
	flags.BoolVarP(&force, "force", "f", false, "Overwrite an existing archive without asking")
	addExcludeFlag(flags, &exclude)
	return cmd
}

func (a *app) compress(input, output string, force bool, exclude []string) error {
	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", format.ErrNotFound, input)
		}
		return err
	}
	if ok, err := a.confirmOverwrite(output, force); err != nil || !ok {
		return err
	}

	inputSize, total := info.Size(), int64(1)
	if info.IsDir() {
		inputSize, total, err = measureTree(input, output, exclude)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(a.stdout, "Compressing %s -> %s\n", input, output)
	bar := progress.New(total)
	var skipped []string
	opts := &archive.Options{
		Exclude: exclude,
		OnEntry: trackEntry(bar),
		OnSkip:  func(p string) { skipped = append(skipped, p) },
	}

	start := time.Now()
	if _, err := archive.Compress(input, output, opts); err != nil {
		return err
	}
	bar.Finish()
	a.printSkipped(skipped)

	outInfo, err := os.Stat(output)
	if err != nil {
		return err
	}
	a.printDone(time.Since(start))
	ratio := 0.0
	if inputSize > 0 {
		ratio = float64(outInfo.Size()) / float64(inputSize) * 100
	}
	fmt.Fprintf(a.stdout, "  Original size: %s\n", progress.FormatSize(inputSize))
	fmt.Fprintf(a.stdout, "  Archive size:  %s\n", progress.FormatSize(outInfo.Size()))
	fmt.Fprintf(a.stdout, "  Ratio:         %.2f%%\n", ratio)
	return nil
}

// measureTree returns the byte total and entry count a directory archive of
// input will hold.
func measureTree(input, output string, exclude []string) (int64, int64, error) {
	result, err := walker.Walk(input, exclude)
	if err != nil {
		return 0, 0, err
	}
	size, count := result.TotalSize(), int64(len(result.Entries))

	// An existing archive inside the tree is not archived again.
	if self, err := filepath.EvalSymlinks(output); err == nil {
		if self, err = filepath.Abs(self); err == nil {
			for _, e := range result.Entries {
				if e.Path == self {
					size -= e.Size
					count--
				}
			}
		}
	}
	return size, count, nil
}

func newDecompressCmd(a *app) *cobra.Command {
	var (
		outputDir string
		force     bool
	)
	cmd := &cobra.Command{
		Use:     "decompress <archive>",
		Aliases: []string{"unhuff"},
		Short:   "Restore the file or folder held by an archive",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.decompress(args[0], outputDir, force)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&outputDir, "output", "o", "", "Directory to restore into (default: next to the archive)")
	flags.BoolVarP(&force, "force", "f", false, "Overwrite existing files without asking")
	return cmd
}

func (a *app) decompress(archivePath, outputDir string, force bool) error {
	target, err := archive.RestorePath(archivePath, &archive.Options{OutputDir: outputDir})
	if err != nil {
		return err
	}
	if ok, err := a.confirmOverwrite(target, force); err != nil || !ok {
		return err
	}

	var total int64
	for _, err := range archive.PreviewStructure(archivePath) {
		if err != nil {
			return err
		}
		total++
	}

	fmt.Fprintf(a.stdout, "Decompressing %s -> %s\n", archivePath, target)
	bar := progress.New(total)
	opts := &archive.Options{OutputDir: outputDir, OnEntry: trackEntry(bar)}

	start := time.Now()
	if _, err := archive.Decompress(archivePath, opts); err != nil {
		return err
	}
	bar.Finish()
	a.printDone(time.Since(start))
	return nil
}

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <archive>",
		Short: "List the structure of an archive without decoding it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.preview(args[0])
		},
	}
}

func (a *app) preview(archivePath string) error {
	h, err := archive.ReadHeader(archivePath)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, h.Name)
	if h.Kind == format.KindFile {
		return nil
	}
	for item, err := range archive.PreviewStructure(archivePath) {
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s├── %s\n", strings.Repeat("│   ", item.Depth), item.Name)
	}
	return nil
}

func trackEntry(bar *progress.Bar) func(archive.Event) {
	return func(e archive.Event) {
		bar.SetDirectory(e.Path)
		bar.Increment(e.Size)
	}
}

// printSkipped lists entries that were left out of an archive.
func (a *app) printSkipped(skipped []string) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(a.stdout, "⚠ Skipped %d entries that are not regular files or directories:\n", len(skipped))
	for _, p := range skipped {
		fmt.Fprintf(a.stdout, "  ! %s\n", p)
	}
}

func (a *app) printDone(elapsed time.Duration) {
	fmt.Fprintf(a.stdout, "✓ Done in %.3fs\n", elapsed.Seconds())
}

// confirmOverwrite asks before replacing an existing path. It reports
// false when the user declines.
func (a *app) confirmOverwrite(path string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, err
	}

	fmt.Fprintf(a.stdout, "%s already exists. Overwrite? [y/N] ", path)
	answer, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(a.stdout)
		fmt.Fprintln(a.stdout, "Operation cancelled.")
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	fmt.Fprintln(a.stdout, "Operation cancelled.")
	return false, nil
}
