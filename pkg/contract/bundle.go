// Copyright 2025 Certen Protocol
//
// Bundle: a set of transitions sharing one witness (glossary; spec section
// 4.7's graph-walk pseudocode iterates "bundle.known"). Transitions are
// kept in both a lookup map and their insertion order, since the walker
// must iterate them in a fixed, repeatable order — outputs of an
// earlier-processed transition in the same bundle are visible to later
// ones (spec section 5).

package contract

// Bundle groups the transitions a single witness closes.
type Bundle struct {
	byId  map[OpId]*Transition
	order []OpId
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{byId: make(map[OpId]*Transition)}
}

// Add appends a transition to the bundle in insertion order. Adding the same
// OpId twice replaces its transition without changing its position.
func (b *Bundle) Add(t *Transition) {
	id := t.OpId()
	if _, exists := b.byId[id]; !exists {
		b.order = append(b.order, id)
	}
	b.byId[id] = t
}

// Known returns the bundle's transitions in insertion order.
func (b *Bundle) Known() []*Transition {
	out := make([]*Transition, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.byId[id])
	}
	return out
}

// Lookup returns the transition with the given OpId, if present in this bundle.
func (b *Bundle) Lookup(id OpId) (*Transition, bool) {
	t, ok := b.byId[id]
	return t, ok
}

// Len returns the number of transitions in the bundle.
func (b *Bundle) Len() int { return len(b.order) }
