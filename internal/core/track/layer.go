// Package track keeps identity-bearing values on a grid together with a
// reverse index from id to the coordinate currently holding it.
//
// Ids are monotonic: NextID returns the high-water mark of every id ever
// placed, and removed ids are never handed out again.
package track

import (
	"sort"

	"github.com/l1jgo/paradox/internal/core/grid"
)

// Layer is a grid of optional ids plus the id -> coordinate index.
type Layer[ID ~int] struct {
	cells *grid.Layer[ID]
	index map[ID]grid.Coord
	next  ID
}

func none[ID ~int]() ID { return ID(-1) }

// New allocates an empty trackable layer.
func New[ID ~int](width, height int) *Layer[ID] {
	return &Layer[ID]{
		cells: grid.NewLayer(width, height, none[ID]()),
		index: make(map[ID]grid.Coord),
	}
}

func (l *Layer[ID]) Width() int                 { return l.cells.Width() }
func (l *Layer[ID]) Height() int                { return l.cells.Height() }
func (l *Layer[ID]) InBounds(c grid.Coord) bool { return l.cells.InBounds(c) }
func (l *Layer[ID]) Len() int                   { return len(l.index) }

// Get returns the id at c and whether the cell is occupied.
func (l *Layer[ID]) Get(c grid.Coord) (ID, bool, error) {
	id, err := l.cells.Get(c)
	if err != nil {
		return id, false, err
	}
	return id, id != none[ID](), nil
}

// Set places id at c and points the index at c. If id stood elsewhere,
// that cell is emptied.
func (l *Layer[ID]) Set(c grid.Coord, id ID) error {
	if err := l.cells.Set(c, id); err != nil {
		return err
	}
	if from, ok := l.index[id]; ok && from != c {
		if err := l.cells.Set(from, none[ID]()); err != nil {
			return err
		}
	}
	l.index[id] = c
	l.bump(id)
	return nil
}

// Clear empties c. The index entry is dropped only if it still points at c.
func (l *Layer[ID]) Clear(c grid.Coord) error {
	id, ok, err := l.Get(c)
	if err != nil || !ok {
		return err
	}
	if at, tracked := l.index[id]; tracked && at == c {
		delete(l.index, id)
	}
	return l.cells.Set(c, none[ID]())
}

// Locate returns the coordinate currently holding id.
func (l *Layer[ID]) Locate(id ID) (grid.Coord, bool) {
	c, ok := l.index[id]
	return c, ok
}

// NextID returns an id never placed on this layer.
func (l *Layer[ID]) NextID() ID { return l.next }

// Remove drops id from the index and clears its cell.
func (l *Layer[ID]) Remove(id ID) error {
	c, ok := l.index[id]
	if !ok {
		return nil
	}
	return l.Clear(c)
}

// IDs lists live ids in ascending order.
func (l *Layer[ID]) IDs() []ID {
	out := make([]ID, 0, len(l.index))
	for id := range l.index {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (l *Layer[ID]) bump(id ID) {
	if id >= l.next {
		l.next = id + 1
	}
}
