// Package ignore answers whether a filesystem entry is excluded by the
// repository's gitignore rules.
package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Rules holds the compiled gitignore patterns for a root directory. A nil
// *Rules ignores nothing, which is how "respect gitignore" is switched off.
type Rules struct {
	matcher  gitignore.Matcher
	rootPath string
}

// Load reads every .gitignore under rootPath (plus the usual git exclude
// locations) and compiles them into a matcher.
func Load(rootPath string) (*Rules, error) {
	fs := osfs.New(rootPath)
	patterns, err := gitignore.ReadPatterns(fs, nil)
	if err != nil {
		return nil, fmt.Errorf("read gitignore patterns: %w", err)
	}
	return &Rules{
		matcher:  gitignore.NewMatcher(patterns),
		rootPath: rootPath,
	}, nil
}

// Ignored reports whether path should be skipped. The .git directory is
// always skipped; the root itself never is.
func (r *Rules) Ignored(path string, isDir bool) bool {
	if isDir && filepath.Base(path) == ".git" {
		return true
	}
	if r == nil {
		return false
	}

	relPath, err := filepath.Rel(r.rootPath, path)
	if err != nil || relPath == "." {
		return false
	}
	parts := strings.Split(relPath, string(filepath.Separator))
	return r.matcher.Match(parts, isDir)
}
