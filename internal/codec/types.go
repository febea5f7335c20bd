package codec

import (
	"battleship/internal/game"
	"battleship/internal/zk"
)

type ShotProofPayload struct {
	Proof  []byte        `json:"proof"`
	Public zk.ShotPublic `json:"public"` // salted root, cell index and hit bit
}

type NewGameRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

type ShotRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ShotResult reports the outcome of one shot. Repeated is set when the cell
// had already been shot and nothing changed.
type ShotResult struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Hit      bool   `json:"hit"`
	Sunk     string `json:"sunk,omitempty"`
	GameOver bool   `json:"gameOver"`
	Shots    int    `json:"shots"`
	Repeated bool   `json:"repeated,omitempty"`
}

type ShipStatus struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
	Sunk   bool   `json:"sunk"`
}

type CellStatus struct {
	X   int  `json:"x"`
	Y   int  `json:"y"`
	Hit bool `json:"hit"` // false for a miss
}

type GameStatus struct {
	ID       string       `json:"id"`
	Size     int          `json:"size"`
	Shots    int          `json:"shots"`
	GameOver bool         `json:"gameOver"`
	RootHex  string       `json:"rootHex,omitempty"`
	Ships    []ShipStatus `json:"ships"`
	Shot     []CellStatus `json:"shot"`
	Events   []game.Event `json:"events,omitempty"`
}
