// Package ingest turns a selection tree into a markdown digest: a tree
// diagram of the included files followed by each file's content in a fenced
// code block.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hayeah/ingest/tree"
)

// Formatter renders the digest for a selection tree.
type Formatter struct {
	IncludeMetadata    bool
	IncludeLineNumbers bool

	// now is overridable for tests.
	now func() time.Time
}

func NewFormatter() *Formatter {
	return &Formatter{now: time.Now}
}

// Format writes the digest for every included file of t to w. Files that
// cannot be read produce an inline note instead of failing the digest.
func (f *Formatter) Format(w io.Writer, t *tree.Tree) error {
	files := t.IncludedFiles()
	rootPath := t.Node(t.Root()).Path

	if diagram := renderDiagram(rootPath, files); diagram != "" {
		if _, err := fmt.Fprintf(w, "```\n%s```\n\n", diagram); err != nil {
			return err
		}
	}

	if f.IncludeMetadata {
		if err := f.writeHeader(w, rootPath, files); err != nil {
			return err
		}
	}

	for i, file := range files {
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		if err := f.writeFile(w, rootPath, file); err != nil {
			return err
		}
	}
	return nil
}

// FormatString is Format into a string.
func (f *Formatter) FormatString(t *tree.Tree) (string, error) {
	var sb strings.Builder
	if err := f.Format(&sb, t); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (f *Formatter) writeHeader(w io.Writer, rootPath string, files []*tree.Node) error {
	var totalSize int64
	for _, file := range files {
		if file.Size > 0 {
			totalSize += file.Size
		}
	}

	fmt.Fprintf(w, "# Text Ingest Report\n")
	fmt.Fprintf(w, "**Root Directory:** %s\n", rootPath)
	fmt.Fprintf(w, "**Files Included:** %d\n", len(files))
	fmt.Fprintf(w, "**Total Size:** %s\n", FormatSize(totalSize))
	fmt.Fprintf(w, "**Generated:** %s\n", f.now().UTC().Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(w, "\n## Included Files\n")
	for _, file := range files {
		size := "unknown"
		if file.Size >= 0 {
			size = FormatSize(file.Size)
		}
		fmt.Fprintf(w, "- %s (%s)\n", relTo(rootPath, file.Path), size)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (f *Formatter) writeFile(w io.Writer, rootPath string, file *tree.Node) error {
	rel := relTo(rootPath, file.Path)
	fmt.Fprintf(w, "# %s\n\n", rel)

	content, err := os.ReadFile(file.Path)
	if err != nil {
		_, werr := fmt.Fprintf(w, "*Error reading file: %v*", err)
		return werr
	}

	fmt.Fprintf(w, "```%s\n", languageHint(file.Path))
	if f.IncludeLineNumbers {
		for num, line := range strings.Split(strings.TrimSuffix(string(content), "\n"), "\n") {
			fmt.Fprintf(w, "%4d | %s\n", num+1, line)
		}
	} else {
		if _, err := w.Write(content); err != nil {
			return err
		}
		if len(content) > 0 && content[len(content)-1] != '\n' {
			io.WriteString(w, "\n")
		}
	}
	_, err = io.WriteString(w, "```")
	return err
}

// renderDiagram draws the included files as a box-drawing tree rooted at ".".
func renderDiagram(rootPath string, files []*tree.Node) string {
	if len(files) == 0 {
		return ""
	}

	type dirNode struct {
		children map[string]*dirNode
	}
	newDir := func() *dirNode { return &dirNode{children: map[string]*dirNode{}} }

	root := newDir()
	for _, file := range files {
		cur := root
		for _, part := range strings.Split(filepath.ToSlash(relTo(rootPath, file.Path)), "/") {
			next, ok := cur.children[part]
			if !ok {
				next = newDir()
				cur.children[part] = next
			}
			cur = next
		}
	}

	var sb strings.Builder
	sb.WriteString(".\n")
	var walk func(n *dirNode, prefix string)
	walk = func(n *dirNode, prefix string) {
		names := make([]string, 0, len(n.children))
		for name := range n.children {
			names = append(names, name)
		}
		sort.Strings(names)
		for i, name := range names {
			connector, childPrefix := "├── ", "│   "
			if i == len(names)-1 {
				connector, childPrefix = "└── ", "    "
			}
			sb.WriteString(prefix + connector + name + "\n")
			walk(n.children[name], prefix+childPrefix)
		}
	}
	walk(root, "")
	return sb.String()
}

func relTo(rootPath, path string) string {
	rel, err := filepath.Rel(rootPath, path)
	if err != nil {
		return path
	}
	return rel
}

// FormatSize renders a byte count in human units.
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

var languages = map[string]string{
	".go": "go",
	".rs": "rust",
	".py": "python",
	".js": "javascript",
	".ts": "typescript",
	".jsx": "jsx",
	".tsx": "tsx",
	".rb": "ruby",
	".php": "php",
	".java": "java",
	".kt": "kotlin",
	".swift": "swift",
	".c": "c",
	".h": "c",
	".cpp": "cpp",
	".cc": "cpp",
	".hpp": "cpp",
	".cs": "csharp",
	".html": "html",
	".css": "css",
	".scss": "scss",
	".md": "markdown",
	".json": "json",
	".yaml": "yaml",
	".yml": "yaml",
	".toml": "toml",
	".xml": "xml",
	".sql": "sql",
	".sh": "bash",
	".bash": "bash",
	".zsh": "bash",
}

func languageHint(path string) string {
	return languages[strings.ToLower(filepath.Ext(path))]
}
