package tree

// State is the tri-state selection value held by every node.
//
// Partial is a derived value: it only ever appears on directories whose
// descendant files are a mix of included and excluded. Files hold Included
// or Excluded exclusively.
type State int

const (
	Excluded State = iota
	Included
	Partial
)

func (s State) String() string {
	switch s {
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	case Partial:
		return "partial"
	default:
		return "unknown"
	}
}

// IsIncluded reports whether the node contributes content to the output,
// either fully or through some of its descendants.
func (s State) IsIncluded() bool {
	return s == Included || s == Partial
}

// Toggle returns the state a user toggle resolves to. A Partial directory
// always resolves to Included, never back to Partial.
func (s State) Toggle() State {
	if s == Included {
		return Excluded
	}
	return Included
}
