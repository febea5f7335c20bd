package game

// Coord is a 1-based board position: X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ShipClass describes one entry of a fleet.
type ShipClass struct {
	Name   string `json:"name" yaml:"name"`
	Length int    `json:"length" yaml:"length"`
}

// DefaultFleet is the standard five-ship fleet (17 cells).
func DefaultFleet() []ShipClass {
	return []ShipClass{
		{Name: "Aircraft carrier", Length: 5},
		{Name: "Battleship", Length: 4},
		{Name: "Frigate", Length: 3},
		{Name: "Submarine", Length: 3},
		{Name: "Minesweeper", Length: 2},
	}
}

// Ship is a fleet member of one Board. It records the cells it occupies,
// never the Place values themselves; the Board keeps both sides in sync.
//
// INV: len(cells) == 0 || len(cells) == length
type Ship struct {
	name   string
	length int
	index  int
	cells  []Coord
	hits   int
}

func (s *Ship) Name() string { return s.name }
func (s *Ship) Length() int  { return s.length }

// Cells returns the occupied cells in placement order (left to right or
// top to bottom). Empty when the ship is not deployed.
func (s *Ship) Cells() []Coord {
	out := make([]Coord, len(s.cells))
	copy(out, s.cells)
	return out
}

func (s *Ship) IsDeployed() bool { return len(s.cells) > 0 }

// IsSunk reports whether the ship is deployed and every one of its cells
// has been hit. An undeployed ship is never sunk.
func (s *Ship) IsSunk() bool {
	return len(s.cells) == s.length && s.hits == s.length
}

// Hits is the number of occupied cells already shot.
func (s *Ship) Hits() int { return s.hits }

// Head returns the first cell in placement order; ok is false when the ship
// is not deployed.
func (s *Ship) Head() (c Coord, ok bool) {
	if len(s.cells) == 0 {
		return Coord{}, false
	}
	return s.cells[0], true
}

// Tail returns the last cell in placement order.
func (s *Ship) Tail() (c Coord, ok bool) {
	if len(s.cells) == 0 {
		return Coord{}, false
	}
	return s.cells[len(s.cells)-1], true
}

// IsHorizontal is meaningful only once deployed; false otherwise.
func (s *Ship) IsHorizontal() bool {
	h, ok := s.Head()
	t, _ := s.Tail()
	return ok && h.Y == t.Y
}

// IsVertical is meaningful only once deployed; false otherwise.
func (s *Ship) IsVertical() bool {
	h, ok := s.Head()
	t, _ := s.Tail()
	return ok && h.X == t.X
}

func (s *Ship) attach(c Coord) {
	s.cells = append(s.cells, c)
}

func (s *Ship) detachAll() {
	s.cells = s.cells[:0]
	s.hits = 0
}
