package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"huff-go/internal/config"
)

// exitError carries a process exit code other than 1 out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type app struct {
	configPath string
	cfg        *config.Config

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "huff-go",
		Short: "Compress files and folders with static Huffman coding",
		Long: `huff-go packs a file or a directory tree into a single archive, coding
every file with its own Huffman table. Archives can be restored, listed
without decoding, or verified against the files on disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Config file path")

	root.AddCommand(
		newCompressCmd(a),
		newDecompressCmd(a),
		newPreviewCmd(a),
		newVerifyCmd(a),
	)
	return root
}

// addExcludeFlag registers the repeatable --exclude flag.
func addExcludeFlag(fs *pflag.FlagSet, dst *[]string) {
	fs.StringArrayVarP(dst, "exclude", "x", nil, "Glob pattern of paths to leave out (repeatable, replaces config)")
}

// excludes returns the flag patterns when given, else the configured ones.
func (a *app) excludes(fs *pflag.FlagSet, fromFlag []string) []string {
	if fs.Changed("exclude") {
		return fromFlag
	}
	return a.cfg.Exclude
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
