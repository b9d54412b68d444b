package grid

import "github.com/l1jgo/paradox/internal/core/fault"

// Layer is a dense array holding one value of a spatial attribute per cell,
// indexed by x + y*width. Every in-range coordinate resolves; absence is the
// zero (or fill) value, never a missing slot.
type Layer[T any] struct {
	width  int
	height int
	cells  []T
}

// NewLayer allocates a width x height layer with every cell set to fill.
func NewLayer[T any](width, height int, fill T) *Layer[T] {
	cells := make([]T, width*height)
	for i := range cells {
		cells[i] = fill
	}
	return &Layer[T]{width: width, height: height, cells: cells}
}

func (l *Layer[T]) Width() int  { return l.width }
func (l *Layer[T]) Height() int { return l.height }

// InBounds reports 0 <= x < width and 0 <= y < height.
func (l *Layer[T]) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < l.width && c.Y >= 0 && c.Y < l.height
}

func (l *Layer[T]) index(c Coord) (int, error) {
	if !l.InBounds(c) {
		return 0, &fault.OutOfBounds{X: c.X, Y: c.Y, Width: l.width, Height: l.height}
	}
	return c.X + c.Y*l.width, nil
}

// Get returns the value at c.
func (l *Layer[T]) Get(c Coord) (T, error) {
	i, err := l.index(c)
	if err != nil {
		var zero T
		return zero, err
	}
	return l.cells[i], nil
}

// Set writes v at c directly. Only for construction and commits; game
// logic goes through Staged.
func (l *Layer[T]) Set(c Coord, v T) error {
	i, err := l.index(c)
	if err != nil {
		return err
	}
	l.cells[i] = v
	return nil
}

// Each visits every cell in index order.
func (l *Layer[T]) Each(fn func(Coord, T)) {
	for i, v := range l.cells {
		fn(Coord{X: i % l.width, Y: i / l.width}, v)
	}
}
