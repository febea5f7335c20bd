package game

import (
	"errors"
	"math/rand"
)

var ErrPlacementFailed = errors.New("failed to place ships")

// MaxPlacementTries bounds the random attempts PlaceFleet makes for the
// whole fleet.
const MaxPlacementTries = 10000

// PlaceFleet deploys every undeployed ship of the board at random positions
// drawn from rng, in fleet order. Ships never overlap but may touch (no
// adjacency rule). On failure the ships placed by this call are removed
// again.
func PlaceFleet(b *Board, rng *rand.Rand) error {
	tries := 0
	var placed []*Ship
	for _, s := range b.ships {
		if s.IsDeployed() {
			continue
		}
		for {
			if tries >= MaxPlacementTries {
				for _, p := range placed {
					b.RemoveShip(p)
				}
				return ErrPlacementFailed
			}
			tries++
			horizontal := rng.Intn(2) == 0
			x := rng.Intn(b.size) + 1
			y := rng.Intn(b.size) + 1
			if b.PlaceShip(s, x, y, horizontal) {
				placed = append(placed, s)
				break
			}
		}
	}
	return nil
}
