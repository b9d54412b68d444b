package grid

import (
	"errors"
	"testing"

	"github.com/l1jgo/paradox/internal/core/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerSetGetInBounds(t *testing.T) {
	l := NewLayer(3, 2, -1)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			c := Coord{x, y}
			v, err := l.Get(c)
			require.NoError(t, err)
			assert.Equal(t, -1, v, "fill value at %v", c)

			require.NoError(t, l.Set(c, x*10+y))
			v, err = l.Get(c)
			require.NoError(t, err)
			assert.Equal(t, x*10+y, v)
		}
	}
}

func TestLayerOutOfBounds(t *testing.T) {
	l := NewLayer(2, 2, 0)
	for _, c := range []Coord{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {5, 5}} {
		_, err := l.Get(c)
		var oob *fault.OutOfBounds
		require.True(t, errors.As(err, &oob), "get %v", c)
		assert.Equal(t, c.X, oob.X)

		err = l.Set(c, 1)
		require.True(t, errors.As(err, &oob), "set %v", c)
	}
}

func TestDirectionOffsets(t *testing.T) {
	assert.Equal(t, Coord{0, 1}, North.Offset())
	assert.Equal(t, Coord{0, -1}, South.Offset())
	assert.Equal(t, West, North.Turn(-1))
	assert.Equal(t, South, East.Turn(1))
	assert.Equal(t, North, West.Turn(5))

	d, ok := ParseDirection("west")
	require.True(t, ok)
	assert.Equal(t, West, d)
	_, ok = ParseDirection("up")
	assert.False(t, ok)
}
