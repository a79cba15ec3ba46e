// Command ingest selects files under a root directory and emits their
// concatenated text as a markdown digest, either through an interactive
// fuzzy picker or directly from include/exclude patterns.
package main

import (
	"bufio"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/hayeah/ingest"
	"github.com/hayeah/ingest/filter"
	"github.com/hayeah/ingest/traverse"
	"github.com/hayeah/ingest/tree"
)

// Args defines the command-line arguments. The default (no subcommand) is
// the interactive picker.
type Args struct {
	Direct *DirectCmd `arg:"subcommand:direct" help:"Generate the digest without the interactive picker"`

	Root           string `arg:"-r,--root" default:"." help:"Root directory to ingest"`
	All            bool   `arg:"-a,--all" help:"Start with every file selected"`
	Output         string `arg:"-o,--output" help:"Output destination: '-' for stdout; file path to write; if not set, copy to clipboard"`
	NoGitignore    bool   `arg:"--no-gitignore" help:"Do not honor .gitignore files"`
	Hidden         bool   `arg:"--hidden" help:"Include hidden files and directories"`
	MaxFileSize    int64  `arg:"--max-file-size" help:"Largest file size to include, in bytes"`
	TokenEstimator string `arg:"--token-estimator" default:"simple" help:"Token count estimator: 'simple' (size/4) or 'tiktoken'"`
}

// DirectCmd holds the pattern flags for non-interactive generation.
type DirectCmd struct {
	Include []string `arg:"--include,separate" help:"Glob pattern to include (repeatable)"`
	Exclude []string `arg:"--exclude,separate" help:"Glob pattern to exclude (repeatable)"`
}

// Runner wires configuration, traversal, and output together.
type Runner struct {
	Args   Args
	Config ingest.Config
	Logger *slog.Logger
}

func (r *Runner) Run() error {
	counter, err := ingest.NewCounter(r.Args.TokenEstimator)
	if err != nil {
		return err
	}

	t, err := r.buildTree()
	if err != nil {
		return err
	}

	formatter := ingest.NewFormatter()
	formatter.IncludeMetadata = r.Config.IncludeMetadata
	writer := &ingest.Writer{MaxClipboardSize: r.Config.MaxClipboardSize}

	if r.Args.Direct != nil {
		return r.runDirect(t, formatter, writer, counter)
	}
	return runPicker(pickerOptions{
		Tree:      t,
		Formatter: formatter,
		Writer:    writer,
		Counter:   counter,
		Output:    r.Args.Output,
	})
}

// buildTree traverses the root with config defaults overridden by flags.
func (r *Runner) buildTree() (*tree.Tree, error) {
	opts := traverse.Options{
		RespectGitignore: r.Config.RespectGitignore && !r.Args.NoGitignore,
		ShowHidden:       r.Config.ShowHidden || r.Args.Hidden,
		MaxFileSize:      r.Config.MaxFileSize,
		IncludeAll:       r.Args.All,
	}
	if r.Args.MaxFileSize > 0 {
		opts.MaxFileSize = r.Args.MaxFileSize
	}
	return traverse.New(opts, r.Logger).Traverse(r.Args.Root)
}

func (r *Runner) runDirect(t *tree.Tree, formatter *ingest.Formatter, writer *ingest.Writer, counter ingest.Counter) error {
	d := r.Args.Direct
	if len(d.Include) > 0 || len(d.Exclude) > 0 {
		filter.ApplyPatterns(t, d.Include, d.Exclude)
	}

	content, err := formatter.FormatString(t)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		fmt.Println("⚠ No content included. Please include at least one file.")
		return nil
	}

	dest, err := writer.Deliver(content, r.Args.Output)
	if err != nil {
		return err
	}
	return r.reportDelivery(t, dest, content, counter)
}

func (r *Runner) reportDelivery(t *tree.Tree, dest ingest.Destination, content string, counter ingest.Counter) error {
	switch dest {
	case ingest.DestStdout:
		return nil
	case ingest.DestFile:
		fmt.Printf("✓ Output written to: %s\n", r.Args.Output)
		return nil
	case ingest.DestClipboard:
		fmt.Printf("✓ Output copied to clipboard (%s, ~%d tokens)\n",
			ingest.FormatSize(int64(len(content))), counter.Count(content))
		return nil
	}

	// Clipboard unavailable or content too large: fall back to a file.
	fmt.Printf("⚠ Clipboard unavailable for %s of output.\n", ingest.FormatSize(int64(len(content))))
	fmt.Print("Enter file path to save output (or press Enter for default): ")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	path := ingest.NormalizeFilename(strings.TrimSpace(scanner.Text()), t)
	if err := ingest.WriteFile(path, content); err != nil {
		return err
	}
	fmt.Printf("✓ Output saved to: %s\n", path)
	return nil
}

func main() {
	var args Args
	arg.MustParse(&args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	runner := &Runner{
		Args:   args,
		Config: ingest.LoadConfig(logger),
		Logger: logger,
	}
	if err := runner.Run(); err != nil {
		log.Fatal(err)
	}
}
