// Package tree implements the selection-state directory tree: an arena of
// filesystem-entry nodes addressed by stable integer indices, with tri-state
// selection that stays consistent across the whole tree after every mutation.
//
// Toggling a node cascades its state to every descendant and re-derives the
// state of every ancestor. Both walks are iterative (an explicit work stack
// going down, parent back-links going up) so arbitrarily deep directory
// structures cannot exhaust the goroutine stack.
package tree

import "path/filepath"

// Node is a single filesystem entry in the arena. Identity is the node's
// index in the arena, which is stable for the tree's lifetime.
type Node struct {
	Path   string // absolute path
	Name   string // display name (base of Path)
	IsDir  bool
	Size   int64 // file size in bytes; -1 until measured; always -1 for directories
	IsText bool  // files only; false for directories

	// State must be mutated through Tree.SetState or Tree.Toggle so the
	// consistency invariant is restored after the write.
	State State

	Parent   int   // arena index of the parent; -1 for the root
	Children []int // arena indices in insertion order
}

// Tree owns the node arena. Nodes are appended exactly once, in traversal
// order, and never removed or re-parented; after construction the only
// mutable node field is State.
type Tree struct {
	nodes  []Node
	byPath map[string]int
}

// New creates a tree holding a single directory root node in the default
// Excluded state.
func New(rootPath string) *Tree {
	t := &Tree{
		byPath: make(map[string]int),
	}
	t.nodes = append(t.nodes, Node{
		Path:   rootPath,
		Name:   filepath.Base(rootPath),
		IsDir:  true,
		Size:   -1,
		State:  Excluded,
		Parent: -1,
	})
	t.byPath[rootPath] = 0
	return t
}

// Root returns the arena index of the root node.
func (t *Tree) Root() int { return 0 }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns a pointer into the arena, or nil if i is out of range.
func (t *Tree) Node(i int) *Node {
	if i < 0 || i >= len(t.nodes) {
		return nil
	}
	return &t.nodes[i]
}

// Index returns the arena index registered for path.
func (t *Tree) Index(path string) (int, bool) {
	i, ok := t.byPath[path]
	return i, ok
}

// Insert appends a node for path under parentPath and returns its index.
//
// Re-inserting a known path returns the existing index. If parentPath has
// not been inserted yet the node is dropped and ok is false; callers are
// expected to insert parents before children.
func (t *Tree) Insert(path string, isDir bool, parentPath string) (int, bool) {
	if i, ok := t.byPath[path]; ok {
		return i, true
	}
	parent, ok := t.byPath[parentPath]
	if !ok {
		return 0, false
	}

	i := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		Path:   path,
		Name:   filepath.Base(path),
		IsDir:  isDir,
		Size:   -1,
		State:  Excluded,
		Parent: parent,
	})
	t.byPath[path] = i
	t.nodes[parent].Children = append(t.nodes[parent].Children, i)
	return i, true
}

// SetState writes s into node i and restores the tree-wide invariant:
// unless s is Partial, every descendant is overwritten with s; then every
// ancestor up to the root has its state re-derived from its immediate
// children. Cost is O(subtree touched + depth to root).
func (t *Tree) SetState(i int, s State) {
	n := t.Node(i)
	if n == nil {
		return
	}
	n.State = s

	// Partial is only ever recorded on the node itself; it never cascades.
	if s != Partial {
		stack := append([]int(nil), n.Children...)
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			child := &t.nodes[j]
			child.State = s
			stack = append(stack, child.Children...)
		}
	}

	for p := n.Parent; p >= 0; p = t.nodes[p].Parent {
		t.nodes[p].State = t.deriveState(p)
	}
}

// deriveState recomputes a directory's state purely from its immediate
// children: any Partial child, or a mix of Included and Excluded children,
// yields Partial; otherwise at least one Included child yields Included;
// otherwise Excluded.
func (t *Tree) deriveState(i int) State {
	children := t.nodes[i].Children
	if len(children) == 0 {
		return t.nodes[i].State
	}

	var included, excluded, partial int
	for _, c := range children {
		switch t.nodes[c].State {
		case Included:
			included++
		case Excluded:
			excluded++
		case Partial:
			partial++
		}
	}

	switch {
	case partial > 0 || (included > 0 && excluded > 0):
		return Partial
	case included > 0:
		return Included
	default:
		return Excluded
	}
}

// Toggle flips node i: Included becomes Excluded, everything else resolves
// to Included.
func (t *Tree) Toggle(i int) {
	n := t.Node(i)
	if n == nil {
		return
	}
	t.SetState(i, n.State.Toggle())
}

// IncludedFiles returns every included text file in pre-order DFS over
// children in insertion order. Directories are never returned, nor are
// files that failed text classification, whatever their state.
func (t *Tree) IncludedFiles() []*Node {
	var files []*Node
	stack := []int{t.Root()}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[i]
		if !n.IsDir && n.IsText && n.State == Included {
			files = append(files, n)
		}
		// Push in reverse so insertion order pops first.
		for c := len(n.Children) - 1; c >= 0; c-- {
			stack = append(stack, n.Children[c])
		}
	}
	return files
}

// RelPath returns node i's path relative to the root, or its name if the
// path cannot be made relative. The root itself is ".".
func (t *Tree) RelPath(i int) string {
	n := t.Node(i)
	if n == nil {
		return ""
	}
	rel, err := filepath.Rel(t.nodes[0].Path, n.Path)
	if err != nil {
		return n.Name
	}
	return rel
}
