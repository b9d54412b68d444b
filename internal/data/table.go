package data

import "sort"

// Ref is an integer handle into one of the arena's tables. Ref 0 is "none"
// in every table.
type Ref int32

// Table owns one kind of definition for the life of the process and
// serves lookups by string id or by Ref.
type Table[T any] struct {
	defs []*T
	byID map[string]Ref
}

func newTable[T any]() Table[T] {
	return Table[T]{defs: []*T{nil}, byID: make(map[string]Ref)}
}

func (t *Table[T]) add(id string, def *T) (Ref, bool) {
	if _, dup := t.byID[id]; dup {
		return 0, false
	}
	ref := Ref(len(t.defs))
	t.defs = append(t.defs, def)
	t.byID[id] = ref
	return ref, true
}

// Get returns the definition behind ref, or nil for Ref 0 and unknown refs.
func (t *Table[T]) Get(ref Ref) *T {
	if ref <= 0 || int(ref) >= len(t.defs) {
		return nil
	}
	return t.defs[ref]
}

// Lookup resolves a string id.
func (t *Table[T]) Lookup(id string) (*T, Ref, bool) {
	ref, ok := t.byID[id]
	if !ok {
		return nil, 0, false
	}
	return t.defs[ref], ref, true
}

// Count returns total loaded definitions.
func (t *Table[T]) Count() int { return len(t.defs) - 1 }

// IDs lists the string ids in sorted order.
func (t *Table[T]) IDs() []string {
	out := make([]string, 0, len(t.byID))
	for id := range t.byID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
