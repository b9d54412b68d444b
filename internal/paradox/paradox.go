// Package paradox runs the environmental hazard field: diffusion across the
// grid and exposure of the actors standing in it.
package paradox

import (
	"fmt"

	"github.com/l1jgo/paradox/internal/core/grid"
	"github.com/l1jgo/paradox/internal/world"
)

// Diffuse stages one diffusion step: every cell becomes the mean of itself
// and its in-bounds neighbours, read from the field as it was before the
// step, clamped at zero.
func Diffuse(st *world.State) (*world.Update, error) {
	field := st.World.Paradox
	u := st.NewUpdate()
	var err error
	field.Each(func(c grid.Coord, v0 float64) {
		if err != nil {
			return
		}
		// Summing deltas from the centre keeps a uniform field exact.
		sum, n := 0.0, 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nc := c.Add(grid.Coord{X: dx, Y: dy})
				if !field.InBounds(nc) {
					continue
				}
				v, gerr := field.Get(nc)
				if gerr != nil {
					err = gerr
					return
				}
				sum += v - v0
				n++
			}
		}
		err = u.Paradox.Set(c, max(v0+sum/float64(n), 0))
	})
	if err != nil {
		return nil, fmt.Errorf("diffuse paradox: %w", err)
	}
	return u, nil
}

// Expose adds the local field value to the actor's exposure. survived is
// false once exposure meets the threshold of the actor's kind; kinds
// without a threshold always survive. The caller decides what to do with
// the actor.
func Expose(st *world.State, u *world.Update, id world.ActorID) (survived bool, err error) {
	at, ok, err := u.Locate(id)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	local, err := u.Paradox.Get(at)
	if err != nil {
		return false, err
	}
	a, err := u.Actor(id)
	if err != nil {
		return false, err
	}
	a.Exposure += local
	kind, _, known := st.Defs.Actors.Lookup(a.Kind)
	if !known || kind.Threshold == nil {
		return true, nil
	}
	return a.Exposure < *kind.Threshold, nil
}
