package game

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrInvalidSize           = errors.New("board too small for fleet")
	ErrInvalidShip           = errors.New("invalid ship")
	ErrNilListener           = errors.New("nil listener")
	ErrListenerNotComparable = errors.New("listener is not comparable")
)

// Board is a size x size grid of places hosting a fleet of ships. Places use
// 1-based (x, y) coordinates, x being the column and y the row. The board
// is the only writer of place and ship state and reports hits, sinkings and
// game over to its listeners.
//
// A Board is not safe for concurrent use.
type Board struct {
	size      int
	shots     int
	places    []Place // column-major: x outer, y inner
	ships     []*Ship
	listeners []Listener
}

// NewBoard creates an empty board for the given fleet. The size must be at
// least the length of the largest ship.
func NewBoard(size int, fleet []ShipClass) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidSize, size)
	}
	b := &Board{
		size:   size,
		places: make([]Place, 0, size*size),
		ships:  make([]*Ship, 0, len(fleet)),
	}
	for i, c := range fleet {
		if c.Length < 1 {
			return nil, fmt.Errorf("%w: %q has length %d", ErrInvalidShip, c.Name, c.Length)
		}
		if c.Length > size {
			return nil, fmt.Errorf("%w: %q needs %d cells, board size is %d", ErrInvalidSize, c.Name, c.Length, size)
		}
		b.ships = append(b.ships, &Ship{name: c.Name, length: c.Length, index: i, cells: make([]Coord, 0, c.Length)})
	}
	for x := 1; x <= size; x++ {
		for y := 1; y <= size; y++ {
			b.places = append(b.places, newPlace(x, y))
		}
	}
	return b, nil
}

func (b *Board) Size() int       { return b.size }
func (b *Board) NumOfShots() int { return b.shots }

// Places returns every place in construction order (column-major).
func (b *Board) Places() []*Place {
	out := make([]*Place, len(b.places))
	for i := range b.places {
		out[i] = &b.places[i]
	}
	return out
}

// Ships returns the fleet in definition order.
func (b *Board) Ships() []*Ship {
	out := make([]*Ship, len(b.ships))
	copy(out, b.ships)
	return out
}

// Ship returns the first fleet ship with the given name.
func (b *Board) Ship(name string) (*Ship, bool) {
	for _, s := range b.ships {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// ShipOf returns the ship occupying p, if any.
func (b *Board) ShipOf(p *Place) (*Ship, bool) {
	if !b.ownsPlace(p) {
		return nil, false
	}
	i, ok := p.ShipIndex()
	if !ok {
		return nil, false
	}
	return b.ships[i], true
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 1 && x <= b.size && y >= 1 && y <= b.size
}

// At returns the place at (x, y); ok is false for out-of-range coordinates.
func (b *Board) At(x, y int) (*Place, bool) {
	if !b.inBounds(x, y) {
		return nil, false
	}
	return &b.places[(x-1)*b.size+(y-1)], true
}

func (b *Board) owns(s *Ship) bool {
	return s != nil && s.index < len(b.ships) && b.ships[s.index] == s
}

// ownsPlace reports whether p is one of this board's places.
func (b *Board) ownsPlace(p *Place) bool {
	if p == nil || !b.inBounds(p.x, p.y) {
		return false
	}
	return p == &b.places[(p.x-1)*b.size+(p.y-1)]
}

// PlaceShip lays ship out from (x, y), horizontally (increasing x) or
// vertically (increasing y). Every cell must be on the board, free of ships
// and not yet shot at; otherwise nothing changes and false is returned. A
// ship that is already deployed or belongs to another board is refused.
func (b *Board) PlaceShip(s *Ship, x, y int, horizontal bool) bool {
	if !b.owns(s) || s.IsDeployed() {
		return false
	}
	dx, dy := 0, 1
	if horizontal {
		dx, dy = 1, 0
	}
	for i := 0; i < s.length; i++ {
		p, ok := b.At(x+i*dx, y+i*dy)
		// a hit cell would let the ship sink without a shot
		if !ok || p.HasShip() || p.hit {
			return false
		}
	}
	for i := 0; i < s.length; i++ {
		p, _ := b.At(x+i*dx, y+i*dy)
		p.ship = s.index
		s.attach(p.Coord())
	}
	return true
}

// PlaceShipAt is PlaceShip starting from one of the board's places.
func (b *Board) PlaceShipAt(s *Ship, p *Place, horizontal bool) bool {
	if !b.ownsPlace(p) {
		return false
	}
	return b.PlaceShip(s, p.x, p.y, horizontal)
}

// RemoveShip takes a deployed ship off the board. Hit flags of its former
// cells are left as they are.
func (b *Board) RemoveShip(s *Ship) {
	if !b.owns(s) {
		return
	}
	for _, c := range s.Cells() {
		if p, ok := b.At(c.X, c.Y); ok && p.ship == s.index {
			p.ship = noShip
		}
	}
	s.detachAll()
}

// Shoot fires at (x, y). Shooting outside the board or at a place already
// hit does nothing and returns false.
func (b *Board) Shoot(x, y int) bool {
	p, ok := b.At(x, y)
	if !ok {
		return false
	}
	return b.ShootPlace(p)
}

// ShootPlace marks p hit, counts the shot and notifies listeners:
// hit, then ship sunk, then game over. It is a no-op for a place already
// hit or one that belongs to another board.
func (b *Board) ShootPlace(p *Place) bool {
	if !b.ownsPlace(p) || p.hit {
		return false
	}
	p.hit = true
	b.shots++
	b.notifyHit(p)

	s, ok := b.ShipOf(p)
	if !ok {
		return true
	}
	s.hits++
	if s.IsSunk() {
		b.notifyShipSunk(s)
		if b.IsGameOver() {
			b.notifyGameOver()
		}
	}
	return true
}

// IsGameOver reports whether every ship of the fleet is sunk.
func (b *Board) IsGameOver() bool {
	for _, s := range b.ships {
		if !s.IsSunk() {
			return false
		}
	}
	return true
}

// Reset clears every shot and removes every ship so the board can be
// reused for another play. Listeners stay registered.
func (b *Board) Reset() {
	b.shots = 0
	for i := range b.places {
		b.places[i].reset()
	}
	for _, s := range b.ships {
		s.detachAll()
	}
}

// Flatten returns the occupancy of every cell in row-major order, 0 for
// water and 1 for ship.
func (b *Board) Flatten() []uint8 {
	out := make([]uint8, b.size*b.size)
	for y := 1; y <= b.size; y++ {
		for x := 1; x <= b.size; x++ {
			p, _ := b.At(x, y)
			if p.HasShip() {
				out[(y-1)*b.size+(x-1)] = 1
			}
		}
	}
	return out
}

// Validate checks that every fleet ship is deployed on a straight run of
// contiguous cells it alone occupies.
func (b *Board) Validate() error {
	seen := make(map[Coord]string)
	for _, s := range b.ships {
		if len(s.cells) != s.length {
			return fmt.Errorf("ship %q not placed", s.name)
		}
		for i, c := range s.cells {
			if other, dup := seen[c]; dup {
				return fmt.Errorf("duplicated coordinate: (%d, %d) used by %q and %q", c.X, c.Y, other, s.name)
			}
			seen[c] = s.name
			if p, ok := b.At(c.X, c.Y); !ok || p.ship != s.index {
				return fmt.Errorf("ship %q: cell (%d, %d) out of sync", s.name, c.X, c.Y)
			}
			if i == 0 {
				continue
			}
			prev := s.cells[i-1]
			step := Coord{X: c.X - prev.X, Y: c.Y - prev.Y}
			if step != (Coord{X: 1}) && step != (Coord{Y: 1}) {
				return fmt.Errorf("ship %q: cells are not contiguous", s.name)
			}
		}
		if s.length > 1 && !s.IsHorizontal() && !s.IsVertical() {
			return fmt.Errorf("ship %q: not in a single row or column", s.name)
		}
	}
	return nil
}

// AddListener registers l; registering the same listener twice has no
// effect. Listeners whose dynamic type is not comparable are refused and
// ErrListenerNotComparable is returned.
func (b *Board) AddListener(l Listener) error {
	if l == nil {
		return ErrNilListener
	}
	if !reflect.TypeOf(l).Comparable() {
		return fmt.Errorf("%w: %T", ErrListenerNotComparable, l)
	}
	for _, x := range b.listeners {
		if x == l {
			return nil
		}
	}
	b.listeners = append(b.listeners, l)
	return nil
}

// RemoveListener unregisters l if present.
func (b *Board) RemoveListener(l Listener) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return
	}
	for i, x := range b.listeners {
		if x == l {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

func (b *Board) notifyHit(p *Place) {
	for _, l := range b.listeners {
		l.OnHit(p, b.shots)
	}
}

func (b *Board) notifyShipSunk(s *Ship) {
	for _, l := range b.listeners {
		l.OnShipSunk(s)
	}
}

func (b *Board) notifyGameOver() {
	for _, l := range b.listeners {
		l.OnGameOver(b.shots)
	}
}
