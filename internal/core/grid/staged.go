package grid

import (
	"sort"

	"github.com/l1jgo/paradox/internal/core/fault"
)

// Container is the staged-container capability shared by every staged
// structure: reads fall through to the source, writes are buffered, and
// Commit pushes the buffer into the target exactly once.
type Container[K comparable, V any, Target any] interface {
	Read(k K) (V, error)
	ReadStaged(k K) (V, bool, error)
	Write(k K, v V) error
	Commit(target Target) error
}

// Staged is a write buffer bound to one Layer snapshot. Reads through it see
// "the layer as it will be after this update" while the layer itself stays
// untouched until Apply. After Apply every read fails with fault.ErrConsumed.
type Staged[T any] struct {
	source  *Layer[T]
	pending map[Coord]T
}

var _ Container[Coord, int, *Layer[int]] = (*Staged[int])(nil)

// Stage binds a new staged update to source.
func Stage[T any](source *Layer[T]) *Staged[T] {
	return &Staged[T]{source: source, pending: make(map[Coord]T)}
}

// Get returns the staged value at c if one was written, otherwise the
// source value.
func (s *Staged[T]) Get(c Coord) (T, error) {
	var zero T
	if s.source == nil {
		return zero, fault.ErrConsumed
	}
	if !s.source.InBounds(c) {
		return zero, &fault.OutOfBounds{X: c.X, Y: c.Y, Width: s.source.width, Height: s.source.height}
	}
	if v, ok := s.pending[c]; ok {
		return v, nil
	}
	return s.source.Get(c)
}

// Cached returns only what this update staged at c.
func (s *Staged[T]) Cached(c Coord) (T, bool, error) {
	var zero T
	if s.source == nil {
		return zero, false, fault.ErrConsumed
	}
	v, ok := s.pending[c]
	return v, ok, nil
}

// Set stages v at c; a later Set on the same coordinate wins.
func (s *Staged[T]) Set(c Coord, v T) error {
	if s.source == nil {
		return fault.ErrConsumed
	}
	if !s.source.InBounds(c) {
		return &fault.OutOfBounds{X: c.X, Y: c.Y, Width: s.source.width, Height: s.source.height}
	}
	s.pending[c] = v
	return nil
}

// Len is the number of staged cells.
func (s *Staged[T]) Len() int { return len(s.pending) }

// Coords lists the staged coordinates in index order.
func (s *Staged[T]) Coords() []Coord {
	out := make([]Coord, 0, len(s.pending))
	for c := range s.pending {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Validate checks that the update is still live and every staged coordinate
// fits target, without writing anything.
func (s *Staged[T]) Validate(target *Layer[T]) error {
	if s.source == nil {
		return fault.ErrConsumed
	}
	for c := range s.pending {
		if !target.InBounds(c) {
			return &fault.OutOfBounds{X: c.X, Y: c.Y, Width: target.width, Height: target.height}
		}
	}
	return nil
}

// Apply writes every staged entry into target and invalidates the update.
func (s *Staged[T]) Apply(target *Layer[T]) error {
	if err := s.Validate(target); err != nil {
		return err
	}
	for c, v := range s.pending {
		_ = target.Set(c, v)
	}
	s.source = nil
	s.pending = nil
	return nil
}

func (s *Staged[T]) Read(c Coord) (T, error) { return s.Get(c) }

func (s *Staged[T]) ReadStaged(c Coord) (T, bool, error) { return s.Cached(c) }

func (s *Staged[T]) Write(c Coord, v T) error { return s.Set(c, v) }

func (s *Staged[T]) Commit(target *Layer[T]) error { return s.Apply(target) }
