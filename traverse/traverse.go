// Package traverse populates a selection tree from the filesystem. The walk
// runs to completion before any selection or filtering happens; parents are
// always inserted before their children, which is the tree's only
// structural precondition.
package traverse

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hayeah/ingest/ignore"
	"github.com/hayeah/ingest/textfile"
	"github.com/hayeah/ingest/tree"
)

// Options configures a traversal.
type Options struct {
	RespectGitignore bool
	ShowHidden       bool
	MaxFileSize      int64 // files larger than this are skipped; 0 means no limit
	IncludeAll       bool  // start with every file selected
}

// hiddenAllowed are dotfiles shown even when hidden entries are not.
var hiddenAllowed = map[string]bool{
	".gitignore": true,
	".gitattributes": true,
	".editorconfig": true,
	".env": true,
	".env.example": true,
}

// Traverser walks a root directory and builds the node arena.
type Traverser struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Traverser. A nil logger discards walk diagnostics.
func New(opts Options, logger *slog.Logger) *Traverser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Traverser{opts: opts, logger: logger}
}

// Traverse builds the tree for rootPath. Unreadable entries are skipped and
// stat failures leave sizes unknown; neither aborts the walk.
func (tv *Traverser) Traverse(rootPath string) (*tree.Tree, error) {
	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", rootPath, err)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("access root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", rootPath)
	}

	var rules *ignore.Rules
	if tv.opts.RespectGitignore {
		rules, err = ignore.Load(rootPath)
		if err != nil {
			return nil, err
		}
	}

	t := tree.New(rootPath)
	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			tv.logger.Debug("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == rootPath {
			return nil
		}

		isDir := d.IsDir()
		if tv.skipHidden(d.Name()) || rules.Ignored(path, isDir) {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		if isDir {
			t.Insert(path, true, filepath.Dir(path))
			return nil
		}
		tv.insertFile(t, path, d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", rootPath, err)
	}

	if tv.opts.IncludeAll {
		t.SetState(t.Root(), tree.Included)
	}
	return t, nil
}

func (tv *Traverser) insertFile(t *tree.Tree, path string, d fs.DirEntry) {
	size := int64(-1)
	if info, err := d.Info(); err == nil {
		size = info.Size()
	} else {
		tv.logger.Debug("size unknown", "path", path, "error", err)
	}
	if tv.opts.MaxFileSize > 0 && size > tv.opts.MaxFileSize {
		return
	}

	i, ok := t.Insert(path, false, filepath.Dir(path))
	if !ok {
		// Parent was dropped earlier (unreadable or ignored); drop the
		// child with it.
		return
	}
	n := t.Node(i)
	n.Size = size
	n.IsText = textfile.IsText(path)
}

func (tv *Traverser) skipHidden(name string) bool {
	if tv.opts.ShowHidden {
		return false
	}
	if len(name) == 0 || name[0] != '.' {
		return false
	}
	return !hiddenAllowed[name]
}
