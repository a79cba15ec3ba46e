package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hayeah/ingest/tree"
)

// MatchPattern reports whether a root-relative path matches a glob-style
// pattern. "**/*" matches everything; a trailing "*" is a prefix match; a
// leading "*" is a suffix match; anything else is an anchored wildcard
// match where "**" crosses path separators, "*" does not, and "?" matches
// one character. A malformed pattern degrades to exact string equality.
func MatchPattern(path, pattern string) bool {
	if pattern == "**/*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	}
	if strings.HasPrefix(pattern, "*") {
		return strings.HasSuffix(path, strings.TrimPrefix(pattern, "*"))
	}
	if !doublestar.ValidatePattern(pattern) {
		return path == pattern
	}
	ok, err := doublestar.Match(pattern, path)
	if err != nil {
		return path == pattern
	}
	return ok
}

// ApplyPatterns applies include/exclude pattern lists as explicit selection
// states. A file is included by default iff the include list is empty,
// included when its relative path or bare name matches any include pattern,
// and excluded whenever any exclude pattern matches, regardless of includes.
//
// States are applied to file nodes only; directory states are derived
// entirely by the tree's upward aggregation.
func ApplyPatterns(t *tree.Tree, include, exclude []string) {
	for i := 0; i < t.Len(); i++ {
		n := t.Node(i)
		if n.IsDir {
			continue
		}
		rel := t.RelPath(i)

		selected := len(include) == 0
		for _, p := range include {
			if MatchPattern(rel, p) || MatchPattern(n.Name, p) {
				selected = true
				break
			}
		}
		for _, p := range exclude {
			if MatchPattern(rel, p) || MatchPattern(n.Name, p) {
				selected = false
				break
			}
		}

		if selected {
			t.SetState(i, tree.Included)
		} else {
			t.SetState(i, tree.Excluded)
		}
	}
}
