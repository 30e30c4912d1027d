package match

import (
	"time"

	"github.com/wricardo/mcp-training/pongserver/game/engine"
)

// Status is the match state machine's current state
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusGameOver Status = "gameover"
)

// SeatID identifies one of the two fixed seats
type SeatID string

const (
	SeatOne SeatID = "player1"
	SeatTwo SeatID = "player2"
)

// Seats lists the seats in assignment order
var Seats = [2]SeatID{SeatOne, SeatTwo}

func (s SeatID) index() (int, bool) {
	switch s {
	case SeatOne:
		return 0, true
	case SeatTwo:
		return 1, true
	}
	return 0, false
}

// Label returns the human-readable seat name used in notices
func (s SeatID) Label() string {
	switch s {
	case SeatOne:
		return "Player 1"
	case SeatTwo:
		return "Player 2"
	}
	return string(s)
}

// Direction is the only paddle input a client may send
type Direction string

const (
	DirectionNone Direction = ""
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a direction received from a client
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), true
	}
	return DirectionNone, false
}

func (d Direction) sign() float64 {
	switch d {
	case DirectionUp:
		return -1
	case DirectionDown:
		return 1
	}
	return 0
}

// PlayerSeat is the occupant of one seat
type PlayerSeat struct {
	ConnID string        `json:"id"`
	Seat   SeatID        `json:"playerNumber"`
	Paddle engine.Paddle `json:"paddle"`
	Score  int           `json:"score"`
	Ready  bool          `json:"ready"`

	// held is the paddle direction currently pressed, never sent to clients
	held Direction
}

// State is the authoritative match record
type State struct {
	Status     Status
	Seats      [2]*PlayerSeat
	Ball       engine.Ball
	LastUpdate time.Time
	Tick       uint64
}

func freshState(a engine.Arena, now time.Time, tick uint64) State {
	return State{
		Status:     StatusWaiting,
		Ball:       engine.RestingBall(a),
		LastUpdate: now,
		Tick:       tick,
	}
}

// Snapshot is an immutable copy of the match state as sent to observers.
// Tick never decreases within a process, so observers can order snapshots by it.
type Snapshot struct {
	Status         Status                `json:"status"`
	Players        map[SeatID]PlayerSeat `json:"players"`
	Ball           engine.Ball           `json:"ball"`
	LastUpdateTime int64                 `json:"lastUpdateTime"`
	Tick           uint64                `json:"tick"`
}

// Player returns the seat's occupant in the snapshot, if any
func (s Snapshot) Player(seat SeatID) (PlayerSeat, bool) {
	p, ok := s.Players[seat]
	return p, ok
}

func (st *State) snapshot() Snapshot {
	players := make(map[SeatID]PlayerSeat, 2)
	for _, p := range st.Seats {
		if p != nil {
			players[p.Seat] = *p
		}
	}
	return Snapshot{
		Status:         st.Status,
		Players:        players,
		Ball:           st.Ball,
		LastUpdateTime: st.LastUpdate.UnixMilli(),
		Tick:           st.Tick,
	}
}
