package app

import (
	"errors"
	"fmt"
	"math/rand"

	"battleship/internal/codec"
	"battleship/internal/game"
	"battleship/internal/targeting"
)

var ErrOutOfRange = errors.New("row/col out of range")

// Game is one play: a board with a hidden fleet, the strategy that can
// shoot at it, and the event log of everything that happened.
type Game struct {
	Board      *game.Board
	Strategy   *targeting.Strategy
	Events     *game.Recorder
	Commitment *Commitment

	rng      *rand.Rand
	feedback *sinkWatch
}

// sinkWatch tells the AI driver whether its last shot sank a ship.
type sinkWatch struct {
	game.NopListener
	sunk *game.Ship
}

func (w *sinkWatch) OnShipSunk(s *game.Ship) { w.sunk = s }

// NewGame builds a board for the fleet and places it at random from rng.
func NewGame(size int, fleet []game.ShipClass, rng *rand.Rand) (*Game, error) {
	b, err := game.NewBoard(size, fleet)
	if err != nil {
		return nil, err
	}
	if err := game.PlaceFleet(b, rng); err != nil {
		return nil, err
	}
	g := &Game{
		Board:    b,
		Strategy: targeting.NewStrategy(size, rng),
		Events:   &game.Recorder{},
		rng:      rng,
		feedback: &sinkWatch{},
	}
	for _, l := range []game.Listener{g.Events, g.feedback} {
		if err := b.AddListener(l); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Shoot fires at (x, y) on behalf of a player.
func (g *Game) Shoot(x, y int) (codec.ShotResult, error) {
	p, ok := g.Board.At(x, y)
	if !ok {
		return codec.ShotResult{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	g.feedback.sunk = nil
	fresh := g.Board.ShootPlace(p)
	res := codec.ShotResult{
		X:        x,
		Y:        y,
		Hit:      p.IsHitShip(),
		GameOver: g.Board.IsGameOver(),
		Shots:    g.Board.NumOfShots(),
		Repeated: !fresh,
	}
	if g.feedback.sunk != nil {
		res.Sunk = g.feedback.sunk.Name()
	}
	return res, nil
}

// AIShot lets the strategy fire one shot and feeds the outcome back to it.
// Cells already shot by someone else are committed and skipped.
func (g *Game) AIShot() (codec.ShotResult, error) {
	for {
		idx, err := g.Strategy.CommitShot()
		if err != nil {
			return codec.ShotResult{}, err
		}
		x, y := g.Strategy.Coord(idx)
		p, _ := g.Board.At(x, y)
		if p.IsHit() {
			continue
		}
		res, err := g.Shoot(x, y)
		if err != nil {
			return res, err
		}
		if res.Hit {
			g.Strategy.OnHit(idx)
		}
		if res.Sunk != "" {
			g.Strategy.OnSunk()
		}
		return res, nil
	}
}

// Autoplay lets the strategy shoot until the fleet is sunk and returns the
// number of shots taken.
func (g *Game) Autoplay() (int, error) {
	for !g.Board.IsGameOver() {
		if _, err := g.AIShot(); err != nil {
			return g.Board.NumOfShots(), err
		}
	}
	return g.Board.NumOfShots(), nil
}

// Reset starts a new play on the same board: fresh layout, fresh strategy
// and, if the game was committed, a fresh commitment.
func (g *Game) Reset() error {
	g.Board.Reset()
	g.Strategy.Reset()
	g.Events.Clear()
	if err := game.PlaceFleet(g.Board, g.rng); err != nil {
		return err
	}
	if g.Commitment != nil {
		return g.Commit()
	}
	return nil
}

// Commit publishes a salted commitment to the current layout.
func (g *Game) Commit() error {
	c, err := Commit(g.Board)
	if err != nil {
		return err
	}
	g.Commitment = c
	return nil
}

// Status snapshots the game for an external presentation layer.
func (g *Game) Status(id string) codec.GameStatus {
	st := codec.GameStatus{
		ID:       id,
		Size:     g.Board.Size(),
		Shots:    g.Board.NumOfShots(),
		GameOver: g.Board.IsGameOver(),
		Ships:    []codec.ShipStatus{},
		Shot:     []codec.CellStatus{},
		Events:   g.Events.Events,
	}
	if g.Commitment != nil {
		st.RootHex = g.Commitment.RootHex()
	}
	for _, s := range g.Board.Ships() {
		st.Ships = append(st.Ships, codec.ShipStatus{Name: s.Name(), Length: s.Length(), Sunk: s.IsSunk()})
	}
	for _, p := range g.Board.Places() {
		if p.IsHit() {
			st.Shot = append(st.Shot, codec.CellStatus{X: p.X(), Y: p.Y(), Hit: p.HasShip()})
		}
	}
	return st
}
