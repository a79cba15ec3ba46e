package filter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ingest/tree"
)

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		path, pattern string
		want          bool
	}{
		{"src/main.rs", "**/*", true},
		{"anything/at/all", "**/*", true},

		// Trailing * is a prefix match.
		{"src/main.rs", "src/*", true},
		{"docs/readme.md", "src/*", false},

		// Leading * is a suffix match.
		{"src/main.rs", "*.rs", true},
		{"src/main.rs.bak", "*.rs", false},
		{"main.go", "*.go", true},

		// Anchored wildcard: * does not cross separators, ** does.
		{"src/main.go", "src/?ain.go", true},
		{"src/main.go", "src/x?in.go", false},
		{"a/b/c/d.txt", "a/**/d.txt", true},
		{"mainXgo", "main.go", false}, // literal dot

		// Exact, no wildcards.
		{"README", "README", true},
		{"README", "LICENSE", false},

		// Malformed pattern falls back to exact equality.
		{"[", "[", true},
		{"x", "[", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MatchPattern(c.path, c.pattern), "%q vs %q", c.path, c.pattern)
	}
}

func patternFixture(t *testing.T) *tree.Tree {
	t.Helper()
	root := filepath.Join("/", "proj")
	tr := tree.New(root)

	add := func(rel string, isDir, isText bool) int {
		path := filepath.Join(root, rel)
		i, ok := tr.Insert(path, isDir, filepath.Dir(path))
		require.True(t, ok)
		if !isDir {
			tr.Node(i).IsText = isText
		}
		return i
	}
	add("a.txt", false, true)
	add("b.bin", false, false)
	add("sub", true, false)
	add(filepath.Join("sub", "c.txt"), false, true)
	add(filepath.Join("sub", "d.bin"), false, false)
	return tr
}

func stateOf(t *testing.T, tr *tree.Tree, rel string) tree.State {
	t.Helper()
	i, ok := tr.Index(filepath.Join("/", "proj", rel))
	require.True(t, ok, rel)
	return tr.Node(i).State
}

func TestApplyPatternsExcludeOnly(t *testing.T) {
	tr := patternFixture(t)

	// With no include patterns everything is included by default; the
	// exclude then carves out the .bin files.
	ApplyPatterns(tr, nil, []string{"*.bin"})

	assert.Equal(t, tree.Included, stateOf(t, tr, "a.txt"))
	assert.Equal(t, tree.Excluded, stateOf(t, tr, "b.bin"))
	assert.Equal(t, tree.Included, stateOf(t, tr, filepath.Join("sub", "c.txt")))
	assert.Equal(t, tree.Excluded, stateOf(t, tr, filepath.Join("sub", "d.bin")))

	// Directory states are derived, never force-set.
	assert.Equal(t, tree.Partial, stateOf(t, tr, "sub"))
	assert.Equal(t, tree.Partial, tr.Node(tr.Root()).State)
}

func TestApplyPatternsIncludeList(t *testing.T) {
	tr := patternFixture(t)

	ApplyPatterns(tr, []string{"*.txt"}, nil)

	assert.Equal(t, tree.Included, stateOf(t, tr, "a.txt"))
	assert.Equal(t, tree.Excluded, stateOf(t, tr, "b.bin"))
	assert.Equal(t, tree.Included, stateOf(t, tr, filepath.Join("sub", "c.txt")))
}

func TestApplyPatternsExcludeWins(t *testing.T) {
	tr := patternFixture(t)

	ApplyPatterns(tr, []string{"**/*"}, []string{"c.txt"})

	assert.Equal(t, tree.Included, stateOf(t, tr, "a.txt"))
	// Matched by bare name even though the relative path is sub/c.txt.
	assert.Equal(t, tree.Excluded, stateOf(t, tr, filepath.Join("sub", "c.txt")))
}

func TestApplyPatternsMatchesBareName(t *testing.T) {
	tr := patternFixture(t)

	ApplyPatterns(tr, []string{"c.txt"}, nil)

	assert.Equal(t, tree.Included, stateOf(t, tr, filepath.Join("sub", "c.txt")))
	assert.Equal(t, tree.Excluded, stateOf(t, tr, "a.txt"))
}

func TestApplyPatternsPreservesInvariant(t *testing.T) {
	tr := patternFixture(t)

	ApplyPatterns(tr, nil, []string{"*.bin"})
	ApplyPatterns(tr, []string{"nothing-matches-this"}, nil)

	// Everything deselected again; all directories converge to Excluded.
	assert.Equal(t, tree.Excluded, stateOf(t, tr, "sub"))
	assert.Equal(t, tree.Excluded, tr.Node(tr.Root()).State)
}
