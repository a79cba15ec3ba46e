package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"

	"github.com/hayeah/ingest/tree"
)

// Destination says where a digest ended up, so the caller can decide what
// to do next (in particular, whether to open a save prompt).
type Destination int

const (
	DestNone Destination = iota // nothing written; content needs a file path
	DestStdout
	DestFile
	DestClipboard
)

// Writer delivers a formatted digest. Preference order when no explicit
// output path is given: clipboard if the content fits, otherwise DestNone
// to signal the caller to ask for a file path.
type Writer struct {
	MaxClipboardSize int
}

// Deliver writes content according to output: "-" for stdout, a path to
// write a file, or empty to try the clipboard.
func (w *Writer) Deliver(content, output string) (Destination, error) {
	switch {
	case output == "-":
		_, err := os.Stdout.WriteString(content)
		return DestStdout, err
	case output != "":
		return DestFile, WriteFile(output, content)
	}

	if w.MaxClipboardSize > 0 && len(content) > w.MaxClipboardSize {
		return DestNone, nil
	}
	if err := clipboard.WriteAll(content); err != nil {
		return DestNone, nil
	}
	return DestClipboard, nil
}

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// DefaultFilename derives an output filename from the tree's root and the
// current time, e.g. myproject_ingest_20240131_120000.md.
func DefaultFilename(t *tree.Tree) string {
	name := t.Node(t.Root()).Name
	if name == "" || name == string(filepath.Separator) {
		name = "directory"
	}
	return fmt.Sprintf("%s_ingest_%s.md", name, time.Now().Format("20060102_150405"))
}

// NormalizeFilename appends .md to a user-entered filename that has no
// extension; empty input falls back to the derived default.
func NormalizeFilename(input string, t *tree.Tree) string {
	if input == "" {
		return DefaultFilename(t)
	}
	if filepath.Ext(input) == "" {
		return input + ".md"
	}
	return input
}
