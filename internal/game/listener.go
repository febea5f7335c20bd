package game

import "fmt"

// Listener observes board changes. Callbacks run synchronously, in
// registration order, and must not call back into the board.
//
// Listeners are compared with ==, so register pointers (or other comparable
// values).
type Listener interface {
	OnHit(p *Place, shots int)
	OnShipSunk(s *Ship)
	OnGameOver(shots int)
}

// NopListener implements every callback as a no-op. Embed it to handle only
// a subset of the events.
type NopListener struct{}

func (NopListener) OnHit(*Place, int) {}
func (NopListener) OnShipSunk(*Ship)  {}
func (NopListener) OnGameOver(int)    {}

type EventKind int

const (
	EventHit EventKind = iota
	EventShipSunk
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventShipSunk:
		return "sunk"
	case EventGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	switch k {
	case EventHit, EventShipSunk, EventGameOver:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown event kind %d", int(k))
}

func (k *EventKind) UnmarshalText(text []byte) error {
	for _, c := range []EventKind{EventHit, EventShipSunk, EventGameOver} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event is one board notification. Cell is set for EventHit, Ship for
// EventShipSunk; Shots is the shot count at the time of the event.
type Event struct {
	Kind  EventKind `json:"kind"`
	Cell  Coord     `json:"cell"`
	Ship  string    `json:"ship,omitempty"`
	Shots int       `json:"shots"`
}

// Recorder is a Listener that keeps every event in order.
type Recorder struct {
	Events []Event
	shots  int
}

func (r *Recorder) OnHit(p *Place, shots int) {
	r.shots = shots
	r.Events = append(r.Events, Event{Kind: EventHit, Cell: p.Coord(), Shots: shots})
}

func (r *Recorder) OnShipSunk(s *Ship) {
	r.Events = append(r.Events, Event{Kind: EventShipSunk, Ship: s.Name(), Shots: r.shots})
}

func (r *Recorder) OnGameOver(shots int) {
	r.Events = append(r.Events, Event{Kind: EventGameOver, Shots: shots})
}

// Count returns how many events of the given kind were recorded.
func (r *Recorder) Count(kind EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Clear drops the recorded events.
func (r *Recorder) Clear() {
	r.Events = nil
	r.shots = 0
}
