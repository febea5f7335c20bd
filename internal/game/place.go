package game

const noShip = -1

// Place is one cell of a Board. Its coordinates never change; the hit flag
// and occupant are mutated only by the owning Board.
type Place struct {
	x, y int
	hit  bool
	ship int // fleet index of the occupant, or noShip
}

func newPlace(x, y int) Place {
	return Place{x: x, y: y, ship: noShip}
}

func (p *Place) X() int          { return p.x }
func (p *Place) Y() int          { return p.y }
func (p *Place) Coord() Coord    { return Coord{X: p.x, Y: p.y} }
func (p *Place) IsHit() bool     { return p.hit }
func (p *Place) IsEmpty() bool   { return p.ship == noShip }
func (p *Place) HasShip() bool   { return p.ship != noShip }
func (p *Place) IsHitShip() bool { return p.hit && p.HasShip() }

// ShipIndex returns the fleet index of the occupying ship.
func (p *Place) ShipIndex() (int, bool) {
	if p.ship == noShip {
		return 0, false
	}
	return p.ship, true
}

func (p *Place) reset() {
	p.hit = false
	p.ship = noShip
}
