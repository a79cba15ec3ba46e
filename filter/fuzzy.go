// Package filter narrows the visible node set of a selection tree: fuzzy
// text search produces an ordered, scored view of arena indices, and
// glob-style include/exclude patterns apply bulk selection states.
package filter

import (
	"github.com/sahilm/fuzzy"

	"github.com/hayeah/ingest/tree"
)

// Match is one entry of a filtered view: the arena index of a node, its
// fuzzy score, and the matched character offsets in the display path for
// highlighting.
type Match struct {
	Index     int
	Score     int
	Positions []int
}

// Searchable reports whether a node belongs to the fuzzy-searchable
// universe: directories and text files. Binary files are excluded from the
// universe entirely, not merely hidden.
func Searchable(n *tree.Node) bool {
	return n != nil && (n.IsDir || n.IsText)
}

// Fuzzy returns the scored view of t for query. An empty query is the
// identity view: every searchable node in arena order with score zero.
// Otherwise candidates are scored by subsequence matching over their
// root-relative paths, non-matches are dropped, and the result is ordered
// by descending score with ties kept in arena order.
func Fuzzy(t *tree.Tree, query string) []Match {
	var indices []int
	var texts []string
	for i := 0; i < t.Len(); i++ {
		if Searchable(t.Node(i)) {
			indices = append(indices, i)
			texts = append(texts, t.RelPath(i))
		}
	}

	if query == "" {
		out := make([]Match, len(indices))
		for k, i := range indices {
			out[k] = Match{Index: i}
		}
		return out
	}

	// fuzzy.Find stable-sorts by descending score, so equal-score
	// candidates stay in arena order.
	found := fuzzy.Find(query, texts)
	out := make([]Match, len(found))
	for k, m := range found {
		out[k] = Match{
			Index:     indices[m.Index],
			Score:     m.Score,
			Positions: m.MatchedIndexes,
		}
	}
	return out
}
