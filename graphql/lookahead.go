package graphql

// maxLookaheadDepth bounds the worst-case cost of snapshotting a selection
// set: a query nested deeper than this stops being copied rather than
// recursing without limit.
const maxLookaheadDepth = 32

// Lookahead is an owned, eagerly-copied snapshot of the selection set
// beneath a field, handed to resolvers that declare a *Lookahead parameter
// so they can decide whether to prefetch a joined relation without
// borrowing the query's live SelectionSet across a suspension point.
//
// The zero value is not useful; construct one with NewLookahead.
type Lookahead struct {
	present  bool
	children map[string]*Lookahead
}

var emptyLookahead = &Lookahead{children: map[string]*Lookahead{}}

// NewLookahead builds an owned snapshot of ss, flattening fragment spreads
// and inline fragments into their target field names.
func NewLookahead(ss *SelectionSet) *Lookahead {
	l := snapshotSelectionSet(ss, maxLookaheadDepth)
	l.present = true
	return l
}

func snapshotSelectionSet(ss *SelectionSet, depth int) *Lookahead {
	l := &Lookahead{present: true, children: map[string]*Lookahead{}}
	if ss == nil || depth <= 0 {
		return l
	}

	for _, sel := range ss.Selections {
		child := snapshotSelectionSet(sel.SelectionSet, depth-1)
		if existing, ok := l.children[sel.Name]; ok {
			existing.merge(child)
		} else {
			l.children[sel.Name] = child
		}
	}

	for _, spread := range ss.Fragments {
		if spread.Fragment == nil {
			continue
		}
		frag := snapshotSelectionSet(spread.Fragment.SelectionSet, depth)
		for name, child := range frag.children {
			if existing, ok := l.children[name]; ok {
				existing.merge(child)
			} else {
				l.children[name] = child
			}
		}
	}

	return l
}

// merge folds another snapshot of the same field name into l, the way a
// field selected more than once in a query (directly and again through a
// fragment) accumulates all of its sub-selections.
func (l *Lookahead) merge(other *Lookahead) {
	for name, child := range other.children {
		if existing, ok := l.children[name]; ok {
			existing.merge(child)
		} else {
			l.children[name] = child
		}
	}
}

// Field returns the snapshot of the named subfield's own selection set. It
// never returns nil: a name that was not selected yields an empty,
// non-present Lookahead whose own Field/Exists calls chain safely.
func (l *Lookahead) Field(name string) *Lookahead {
	if l == nil {
		return emptyLookahead
	}
	if child, ok := l.children[name]; ok {
		return child
	}
	return emptyLookahead
}

// Exists reports whether l is the snapshot of a field that was actually
// selected, as opposed to the empty sentinel Field returns for a missing
// name. Called after Field, e.g. sel.Field("comments").Exists().
func (l *Lookahead) Exists() bool {
	return l != nil && l.present
}
