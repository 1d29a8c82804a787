// Package dispatch maps a content capability and a request kind to a
// handler constructor. Call sites resolve handlers explicitly by passing the
// capabilities a content item provides, most specific first.
package dispatch

// Capability tags what a content item can do.
type Capability string

// Kind names the request a handler serves, such as a traversal namespace or
// a content menu slot.
type Kind string

type key struct {
	cap  Capability
	kind Kind
}

// Table holds handlers of type H keyed by capability and kind.
// The zero value is ready to use.
type Table[H any] struct {
	entries map[key]H
}

// Register binds h to (cap, kind), replacing any previous binding.
func (t *Table[H]) Register(cap Capability, kind Kind, h H) {
	if t.entries == nil {
		t.entries = make(map[key]H)
	}
	t.entries[key{cap, kind}] = h
}

// Lookup returns the handler bound to the first capability in caps that has
// one for kind.
func (t *Table[H]) Lookup(caps []Capability, kind Kind) (H, bool) {
	for _, c := range caps {
		if h, ok := t.entries[key{c, kind}]; ok {
			return h, true
		}
	}
	var zero H
	return zero, false
}

// Has reports whether any capability in caps has a handler for kind.
func (t *Table[H]) Has(caps []Capability, kind Kind) bool {
	_, ok := t.Lookup(caps, kind)
	return ok
}
