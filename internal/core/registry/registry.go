// Package registry is a dense, append-only entity store whose mutations are
// staged per turn with copy-on-first-read semantics.
package registry

import (
	"fmt"
	"sort"

	"github.com/l1jgo/paradox/internal/core/fault"
)

// ID indexes the registry's dense vector. Valid iff 0 <= id < Len().
// Entries are never removed, so ids are never recycled.
type ID int

// Cloner is implemented by every stored value. Clone must deep-copy.
type Cloner[T any] interface {
	Clone() T
}

// Registry owns the live values.
type Registry[T Cloner[T]] struct {
	entries []T
}

func New[T Cloner[T]]() *Registry[T] {
	return &Registry[T]{entries: make([]T, 0, 64)}
}

func (r *Registry[T]) Len() int { return len(r.entries) }

// Get returns the live value. Mutating it bypasses staging; only
// construction code does that.
func (r *Registry[T]) Get(id ID) (T, error) {
	if id < 0 || int(id) >= len(r.entries) {
		var zero T
		return zero, fmt.Errorf("registry: unknown id %d (len %d)", id, len(r.entries))
	}
	return r.entries[id], nil
}

// Insert appends v directly, outside any staged flow.
func (r *Registry[T]) Insert(v T) ID {
	r.entries = append(r.entries, v)
	return ID(len(r.entries) - 1)
}

// Each visits live values in id order.
func (r *Registry[T]) Each(fn func(ID, T)) {
	for i, v := range r.entries {
		fn(ID(i), v)
	}
}

// Update is one turn's staged registry change set.
type Update[T Cloner[T]] struct {
	changes  []ID
	added    []ID
	staged   map[ID]T
	consumed bool
}

// NewUpdate opens an empty staged update.
func (r *Registry[T]) NewUpdate() *Update[T] {
	return &Update[T]{staged: make(map[ID]T)}
}

// Added lists ids staged for insertion, in insertion order.
func (u *Update[T]) Added() []ID { return append([]ID(nil), u.added...) }

// Changed lists ids copied for mutation, in first-touch order.
func (u *Update[T]) Changed() []ID { return append([]ID(nil), u.changes...) }

// Register stages v for insertion and returns its pre-allocated id.
func (r *Registry[T]) Register(u *Update[T], v T) (ID, error) {
	if u.consumed {
		return 0, fault.ErrConsumed
	}
	id := ID(len(r.entries) + len(u.added))
	u.added = append(u.added, id)
	u.staged[id] = v
	return id, nil
}

// Read returns a mutable staged copy of id. The first read copies the live
// value and records id as changed; later reads return the same copy.
func (r *Registry[T]) Read(u *Update[T], id ID) (T, error) {
	var zero T
	if u.consumed {
		return zero, fault.ErrConsumed
	}
	if v, ok := u.staged[id]; ok {
		return v, nil
	}
	live, err := r.Get(id)
	if err != nil {
		return zero, err
	}
	cp := live.Clone()
	u.staged[id] = cp
	u.changes = append(u.changes, id)
	return cp, nil
}

// ReadMany is Read for several disjoint ids. A repeated id is an error.
func (r *Registry[T]) ReadMany(u *Update[T], ids ...ID) ([]T, error) {
	seen := make(map[ID]struct{}, len(ids))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("registry: id %d read twice in one batch", id)
		}
		seen[id] = struct{}{}
		v, err := r.Read(u, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// View returns the value as it will be after u, without staging a copy.
// The result must not be mutated.
func (r *Registry[T]) View(u *Update[T], id ID) (T, error) {
	if u != nil {
		if u.consumed {
			var zero T
			return zero, fault.ErrConsumed
		}
		if v, ok := u.staged[id]; ok {
			return v, nil
		}
	}
	return r.Get(id)
}

// Validate checks every invariant Apply relies on, touching nothing.
func (r *Registry[T]) Validate(u *Update[T]) error {
	if u.consumed {
		return fault.ErrConsumed
	}
	n := len(r.entries)
	seen := make(map[ID]struct{}, len(u.changes)+len(u.added))
	for _, id := range u.changes {
		if id < 0 || int(id) >= n {
			return fault.StateUpdatef("registry", "changed id %d does not exist (len %d)", id, n)
		}
		if _, dup := seen[id]; dup {
			return fault.StateUpdatef("registry", "changed id %d committed twice", id)
		}
		seen[id] = struct{}{}
	}
	for i, id := range u.added {
		if int(id) < n {
			return fault.StateUpdatef("registry", "new id %d collides with existing entries (len %d)", id, n)
		}
		if _, dup := seen[id]; dup {
			return fault.StateUpdatef("registry", "new id %d committed twice", id)
		}
		if int(id) != n+i {
			return fault.StateUpdatef("registry", "new id %d out of sequence, expected %d", id, n+i)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Apply validates u in full, then overwrites changed slots and appends new
// entries in order. On a validation error nothing is committed.
func (r *Registry[T]) Apply(u *Update[T]) error {
	if err := r.Validate(u); err != nil {
		return err
	}
	for _, id := range u.changes {
		r.entries[id] = u.staged[id]
	}
	added := append([]ID(nil), u.added...)
	sort.Slice(added, func(i, j int) bool { return added[i] < added[j] })
	for _, id := range added {
		r.entries = append(r.entries, u.staged[id])
	}
	u.consumed = true
	u.staged = nil
	return nil
}
