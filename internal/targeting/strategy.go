// Package targeting picks the next cell to shoot with a hunt/target search.
//
// Cells are addressed by a 0-based row-major linear index:
// idx = (y-1)*size + (x-1) for 1-based board coordinates (x, y).
package targeting

import (
	"errors"
	"math/rand"
)

// ErrNoMoves is returned once every cell of the board has been tried.
var ErrNoMoves = errors.New("no cells remain")

// Strategy hunts at random until a hit, then probes the hit's orthogonal
// neighbours from a LIFO candidate stack until the ship sinks.
//
// A Strategy is not safe for concurrent use.
type Strategy struct {
	size       int
	rng        *rand.Rand
	candidates []int
	tried      []bool
	numTried   int
}

// NewStrategy returns a strategy for a size x size board drawing hunt
// shots from rng.
func NewStrategy(size int, rng *rand.Rand) *Strategy {
	return &Strategy{
		size:  size,
		rng:   rng,
		tried: make([]bool, size*size),
	}
}

func (s *Strategy) Size() int { return s.size }

// Index converts 1-based (x, y) to a linear index.
func (s *Strategy) Index(x, y int) int { return (y-1)*s.size + (x - 1) }

// Coord converts a linear index back to 1-based (x, y).
func (s *Strategy) Coord(idx int) (x, y int) { return idx%s.size + 1, idx/s.size + 1 }

func (s *Strategy) inRange(idx int) bool { return idx >= 0 && idx < len(s.tried) }

// IsValid reports whether idx is on the board and not tried yet.
func (s *Strategy) IsValid(idx int) bool {
	return s.inRange(idx) && !s.tried[idx]
}

// Tried returns how many cells have been committed.
func (s *Strategy) Tried() int { return s.numTried }

// Remaining returns how many cells have never been committed.
func (s *Strategy) Remaining() int { return len(s.tried) - s.numTried }

// Candidates returns the pending target-mode cells, top of stack last.
func (s *Strategy) Candidates() []int {
	out := make([]int, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// NextShot returns the cell to shoot next without consuming it. With an
// empty candidate stack it picks an untried cell uniformly at random and
// pushes it.
func (s *Strategy) NextShot() (int, error) {
	// candidates may have been tried since they were pushed
	for len(s.candidates) > 0 && !s.IsValid(s.top()) {
		s.candidates = s.candidates[:len(s.candidates)-1]
	}
	if len(s.candidates) > 0 {
		return s.top(), nil
	}
	idx, err := s.hunt()
	if err != nil {
		return 0, err
	}
	s.candidates = append(s.candidates, idx)
	return idx, nil
}

// CommitShot pops the cell NextShot proposes and records it as tried.
func (s *Strategy) CommitShot() (int, error) {
	idx, err := s.NextShot()
	if err != nil {
		return 0, err
	}
	s.candidates = s.candidates[:len(s.candidates)-1]
	s.tried[idx] = true
	s.numTried++
	return idx, nil
}

// OnHit pushes the untried orthogonal neighbours of idx. Neighbours are
// derived from (x, y) so they never wrap across a row edge.
func (s *Strategy) OnHit(idx int) {
	if !s.inRange(idx) {
		return
	}
	x, y := s.Coord(idx)
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, ny := x+d[0], y+d[1]
		if nx < 1 || nx > s.size || ny < 1 || ny > s.size {
			continue
		}
		if n := s.Index(nx, ny); s.IsValid(n) {
			s.candidates = append(s.candidates, n)
		}
	}
}

// OnSunk drops every pending candidate and returns to hunting.
func (s *Strategy) OnSunk() {
	s.candidates = s.candidates[:0]
}

// Reset forgets all history.
func (s *Strategy) Reset() {
	s.candidates = s.candidates[:0]
	clear(s.tried)
	s.numTried = 0
}

func (s *Strategy) top() int { return s.candidates[len(s.candidates)-1] }

// hunt draws uniformly among untried cells. It samples a few times first
// and falls back to scanning, so a nearly full board still terminates.
func (s *Strategy) hunt() (int, error) {
	remaining := s.Remaining()
	if remaining == 0 {
		return 0, ErrNoMoves
	}
	for i := 0; i < 8; i++ {
		if idx := s.rng.Intn(len(s.tried)); !s.tried[idx] {
			return idx, nil
		}
	}
	k := s.rng.Intn(remaining)
	for idx, done := range s.tried {
		if done {
			continue
		}
		if k == 0 {
			return idx, nil
		}
		k--
	}
	return 0, ErrNoMoves
}
