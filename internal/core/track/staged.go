package track

import (
	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/l1jgo/paradox/internal/core/grid"
)

// Staged mirrors grid.Staged for both the cells and the index, so a move
// (clear old cell, set new cell, repoint index) lands as one unit.
type Staged[ID ~int] struct {
	source *Layer[ID]
	cells  *grid.Staged[ID]
	index  map[ID]*grid.Coord // nil value: removed
	next   ID
}

// Stage binds a staged update to source.
func Stage[ID ~int](source *Layer[ID]) *Staged[ID] {
	return &Staged[ID]{
		source: source,
		cells:  grid.Stage(source.cells),
		index:  make(map[ID]*grid.Coord),
		next:   source.next,
	}
}

// Get returns the id at c as it will be after this update.
func (s *Staged[ID]) Get(c grid.Coord) (ID, bool, error) {
	id, err := s.cells.Get(c)
	if err != nil {
		return id, false, err
	}
	return id, id != none[ID](), nil
}

// Locate resolves id through the staged index, then the source.
func (s *Staged[ID]) Locate(id ID) (grid.Coord, bool, error) {
	if s.source == nil {
		return grid.Coord{}, false, fault.ErrConsumed
	}
	if p, ok := s.index[id]; ok {
		if p == nil {
			return grid.Coord{}, false, nil
		}
		return *p, true, nil
	}
	c, ok := s.source.Locate(id)
	return c, ok, nil
}

// Set stages id at c. If id stands elsewhere, that cell is cleared in the
// same update.
func (s *Staged[ID]) Set(c grid.Coord, id ID) error {
	from, placed, err := s.Locate(id)
	if err != nil {
		return err
	}
	if err := s.cells.Set(c, id); err != nil {
		return err
	}
	if placed && from != c {
		if err := s.cells.Set(from, none[ID]()); err != nil {
			return err
		}
	}
	at := c
	s.index[id] = &at
	if id >= s.next {
		s.next = id + 1
	}
	return nil
}

// Clear stages an empty cell at c.
func (s *Staged[ID]) Clear(c grid.Coord) error {
	id, ok, err := s.Get(c)
	if err != nil || !ok {
		return err
	}
	if at, tracked, err := s.Locate(id); err == nil && tracked && at == c {
		s.index[id] = nil
	}
	return s.cells.Set(c, none[ID]())
}

// Move stages id leaving its current cell for to.
func (s *Staged[ID]) Move(id ID, to grid.Coord) error {
	return s.Set(to, id)
}

// Remove stages id leaving the grid entirely.
func (s *Staged[ID]) Remove(id ID) error {
	at, ok, err := s.Locate(id)
	if err != nil || !ok {
		return err
	}
	return s.Clear(at)
}

// NextID returns an id unused by the source and by anything staged here.
func (s *Staged[ID]) NextID() ID { return s.next }

// Len is the number of staged cells.
func (s *Staged[ID]) Len() int { return s.cells.Len() }

// Validate checks the update against target without writing.
func (s *Staged[ID]) Validate(target *Layer[ID]) error {
	if s.source == nil {
		return fault.ErrConsumed
	}
	return s.cells.Validate(target.cells)
}

// Apply commits cells and index into target and invalidates the update.
func (s *Staged[ID]) Apply(target *Layer[ID]) error {
	if err := s.Validate(target); err != nil {
		return err
	}
	if err := s.cells.Apply(target.cells); err != nil {
		return err
	}
	for id, p := range s.index {
		if p == nil {
			delete(target.index, id)
			continue
		}
		target.index[id] = *p
		target.bump(id)
	}
	if s.next > target.next {
		target.next = s.next
	}
	s.source = nil
	s.index = nil
	return nil
}
