package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"huff-go/internal/compare"
	"huff-go/internal/manifest"
	"huff-go/internal/progress"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		workers int
		exclude []string
	)
	cmd := &cobra.Command{
		Use:   "verify <archive> <path>",
		Short: "Compare the contents of an archive with files on disk",
		Long: `verify decodes every file of an archive in memory and compares it with
the file or directory at path. Exit status is 0 when both match, 1 when
they differ and 2 when some files could not be read.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}
			if workers < 1 {
				return fmt.Errorf("workers must be at least 1, got %d", workers)
			}
			return a.verify(cmd, args[0], args[1], manifest.Options{
				Exclude: a.excludes(cmd.Flags(), exclude),
				Workers: workers,
				Ignore:  args[0],
			})
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&workers, "workers", "w", 0, "Number of hashing goroutines (default from config)")
	addExcludeFlag(flags, &exclude)
	return cmd
}

func (a *app) verify(cmd *cobra.Command, archivePath, path string, opts manifest.Options) error {
	fmt.Fprintf(a.stdout, "Decoding archive: %s\n", archivePath)
	stored, err := manifest.FromArchive(archivePath)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return &exitError{code: 2}
	}

	fmt.Fprintf(a.stdout, "Hashing: %s\n", path)
	opts.Bar = progress.New(0)
	current, err := manifest.FromPath(cmd.Context(), path, opts)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return &exitError{code: 2}
	}
	opts.Bar.Finish()

	fmt.Fprintf(a.stdout, "  Archive root:   %s (%d files, %s)\n",
		stored.Root, stored.Files(), progress.FormatSize(stored.TotalSize()))
	fmt.Fprintf(a.stdout, "  On-disk root:   %s (%d files, %s)\n",
		current.Root, current.Files(), progress.FormatSize(current.TotalSize()))
	a.printSkipped(current.Skipped)
	fmt.Fprintln(a.stdout)

	result := compare.Compare(stored, current)
	fmt.Fprintln(a.stdout, compare.FormatReport(result))

	if len(current.Errors) > 0 {
		fmt.Fprintf(a.stdout, "Unreadable: %d files\n", len(current.Errors))
		for p, err := range current.Errors {
			fmt.Fprintf(a.stderr, "  %s: %v\n", p, err)
		}
		return &exitError{code: 2}
	}
	if result.HasChanges() {
		return &exitError{code: 1}
	}
	return nil
}
