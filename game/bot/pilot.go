package bot

import (
	"math"

	"github.com/wricardo/mcp-training/pongserver/game/engine"
	"github.com/wricardo/mcp-training/pongserver/game/match"
)

// Tracker steers one paddle toward the ball.
type Tracker struct {
	Arena engine.Arena
	Seat  match.SeatID

	// Deadband is the fraction of half the paddle height the paddle centre
	// may be off target before the tracker moves it.
	Deadband float64

	// Predict aims at where the ball will cross the paddle's edge, walls
	// included, instead of at the ball itself. A predicting tracker returns
	// to the centre while the ball moves away.
	Predict bool
}

// Decide returns the direction the paddle should be held in, or
// match.DirectionNone when it should stay put.
func (t Tracker) Decide(snap match.Snapshot) match.Direction {
	p, ok := snap.Player(t.Seat)
	if !ok || snap.Status != match.StatusPlaying {
		return match.DirectionNone
	}

	diff := t.Target(snap.Ball) - p.Paddle.Center()
	if math.Abs(diff) <= t.Deadband*p.Paddle.Height/2 {
		return match.DirectionNone
	}
	if diff < 0 {
		return match.DirectionUp
	}
	return match.DirectionDown
}

// Target is the y the paddle centre should be at
func (t Tracker) Target(b engine.Ball) float64 {
	if !t.Predict {
		return b.Y
	}

	a := t.Arena
	edge := a.PaddleWidth + b.Radius
	approaching := b.DX < 0
	if t.Seat == match.SeatTwo {
		edge = a.Width - a.PaddleWidth - b.Radius
		approaching = b.DX > 0
	}
	if !approaching {
		return a.Height / 2
	}

	ticks := (edge - b.X) / b.DX
	return reflect(b.Y+b.DY*ticks, b.Radius, a.Height-b.Radius)
}

// reflect folds y into [lo, hi] the way wall bounces do
func reflect(y, lo, hi float64) float64 {
	span := hi - lo
	if span <= 0 {
		return lo
	}

	period := 2 * span
	y = math.Mod(y-lo, period)
	if y < 0 {
		y += period
	}
	if y > span {
		y = period - y
	}
	return y + lo
}

// Intent is one paddle input to send to the server
type Intent struct {
	Direction match.Direction
	Start     bool
}

// Pilot turns a stream of snapshots into paddle start/stop intents for one
// seat, sending only transitions.
type Pilot struct {
	tracker Tracker
	held    match.Direction
}

// NewPilot creates a pilot holding no direction
func NewPilot(t Tracker) *Pilot {
	return &Pilot{tracker: t}
}

// Seat returns the seat the pilot steers
func (p *Pilot) Seat() match.SeatID {
	return p.tracker.Seat
}

// Update returns the intents that move the held direction to the one the
// tracker wants for snap. Outside play the held direction is forgotten,
// since the server drops it on every reset.
func (p *Pilot) Update(snap match.Snapshot) []Intent {
	if snap.Status != match.StatusPlaying {
		p.held = match.DirectionNone
		return nil
	}

	want := p.tracker.Decide(snap)
	if want == p.held {
		return nil
	}

	var intents []Intent
	if p.held != match.DirectionNone {
		intents = append(intents, Intent{Direction: p.held, Start: false})
	}
	if want != match.DirectionNone {
		intents = append(intents, Intent{Direction: want, Start: true})
	}
	p.held = want
	return intents
}
