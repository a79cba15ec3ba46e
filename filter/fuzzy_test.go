package filter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ingest/tree"
)

func fuzzyFixture(t *testing.T) *tree.Tree {
	t.Helper()
	root := filepath.Join("/", "proj")
	tr := tree.New(root)

	add := func(rel string, isDir, isText bool) {
		path := filepath.Join(root, rel)
		i, ok := tr.Insert(path, isDir, filepath.Dir(path))
		require.True(t, ok)
		if !isDir {
			tr.Node(i).IsText = isText
		}
	}
	add("main.go", false, true)
	add("image.png", false, false) // binary: outside the searchable universe
	add("src", true, false)
	add(filepath.Join("src", "lib.go"), false, true)
	add(filepath.Join("src", "notes.md"), false, true)
	return tr
}

func TestFuzzyEmptyQueryIsIdentity(t *testing.T) {
	tr := fuzzyFixture(t)

	view := Fuzzy(tr, "")

	// Every searchable node in arena order, score zero, no positions;
	// image.png never appears.
	var rels []string
	for _, m := range view {
		rels = append(rels, tr.RelPath(m.Index))
		assert.Zero(t, m.Score)
		assert.Empty(t, m.Positions)
	}
	assert.Equal(t, []string{
		".",
		"main.go",
		"src",
		filepath.Join("src", "lib.go"),
		filepath.Join("src", "notes.md"),
	}, rels)
}

func TestFuzzyExcludesBinaryFromUniverse(t *testing.T) {
	tr := fuzzyFixture(t)

	// Even a query that would match the name perfectly finds nothing,
	// because binary files are not merely hidden but unsearchable.
	for _, m := range Fuzzy(tr, "image.png") {
		assert.NotEqual(t, "image.png", tr.RelPath(m.Index))
	}
}

func TestFuzzyDropsNonMatches(t *testing.T) {
	tr := fuzzyFixture(t)

	view := Fuzzy(tr, "zzzz-no-such")
	assert.Empty(t, view)
}

func TestFuzzyScoresAndPositions(t *testing.T) {
	tr := fuzzyFixture(t)

	view := Fuzzy(tr, "lib")
	require.NotEmpty(t, view)

	best := view[0]
	assert.Equal(t, filepath.Join("src", "lib.go"), tr.RelPath(best.Index))
	assert.NotEmpty(t, best.Positions, "match positions drive UI highlighting")

	for i := 1; i < len(view); i++ {
		assert.GreaterOrEqual(t, view[i-1].Score, view[i].Score, "descending score order")
	}
}

func TestSearchable(t *testing.T) {
	tr := fuzzyFixture(t)

	dir, _ := tr.Index(filepath.Join("/", "proj", "src"))
	text, _ := tr.Index(filepath.Join("/", "proj", "main.go"))
	binary, _ := tr.Index(filepath.Join("/", "proj", "image.png"))

	assert.True(t, Searchable(tr.Node(dir)))
	assert.True(t, Searchable(tr.Node(text)))
	assert.False(t, Searchable(tr.Node(binary)))
	assert.False(t, Searchable(nil))
}
