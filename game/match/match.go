package match

import (
	"log"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/exp/rand"

	"github.com/wricardo/mcp-training/pongserver/game/engine"
)

// Scheduler is the tick source the state machine starts and stops.
// Both calls are idempotent and report whether they changed anything.
type Scheduler interface {
	Start() bool
	Stop() bool
}

type nopScheduler struct{}

func (nopScheduler) Start() bool { return false }
func (nopScheduler) Stop() bool  { return false }

// Match owns the authoritative state of a single two-seat match.
//
// Match is not safe for concurrent use. Every method must be called from the
// one goroutine that owns it (see session.Manager).
type Match struct {
	arena engine.Arena
	state State
	clock clock.Clock
	coin  engine.Coin
	sched Scheduler
	out   Publisher
}

// Option configures a Match
type Option func(*Match)

// WithClock sets the time source used for timestamps and tick scaling
func WithClock(c clock.Clock) Option {
	return func(m *Match) { m.clock = c }
}

// WithCoin sets the randomness used when serving the ball
func WithCoin(c engine.Coin) Option {
	return func(m *Match) { m.coin = c }
}

// WithScheduler sets the tick scheduler driven by the state machine
func WithScheduler(s Scheduler) Option {
	return func(m *Match) { m.sched = s }
}

// WithPublisher sets where outbound events go
func WithPublisher(p Publisher) Option {
	return func(m *Match) { m.out = p }
}

// New creates a match in WaitingForPlayers with both seats empty
func New(arena engine.Arena, opts ...Option) *Match {
	m := &Match{
		arena: arena,
		clock: clock.New(),
		sched: nopScheduler{},
		out:   nopPublisher{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.coin == nil {
		m.coin = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	m.state = freshState(arena, m.clock.Now(), 0)
	return m
}

// Arena returns the arena constants the match runs with
func (m *Match) Arena() engine.Arena {
	return m.arena
}

// Status returns the current state machine status
func (m *Match) Status() Status {
	return m.state.Status
}

// Snapshot returns an immutable copy of the current state
func (m *Match) Snapshot() Snapshot {
	return m.state.snapshot()
}

// Tick advances the simulation by the wall-clock time elapsed since the last
// update. It does nothing unless the match is playing.
func (m *Match) Tick() engine.Outcome {
	if m.state.Status != StatusPlaying {
		return engine.NoScore
	}

	now := m.clock.Now()
	scale := engine.StepScale(now.Sub(m.state.LastUpdate), m.arena.TickRate)

	m.advancePaddles(scale)

	ball, outcome := engine.Step(m.arena, m.state.Ball, m.paddle(SeatOne), m.paddle(SeatTwo), scale, m.coin)
	m.state.Ball = ball

	switch outcome {
	case engine.SeatOneScored:
		m.credit(SeatOne)
	case engine.SeatTwoScored:
		m.credit(SeatTwo)
	}

	m.state.LastUpdate = now
	m.state.Tick++
	m.broadcast()

	return outcome
}

// advancePaddles moves paddles whose direction is held. This is server-side
// intent handling; the kernel only ever sees the resulting positions.
func (m *Match) advancePaddles(scale float64) {
	for _, p := range m.state.Seats {
		if p == nil || p.held == DirectionNone {
			continue
		}
		p.Paddle.Y = m.arena.ClampPaddleY(p.Paddle.Y + p.held.sign()*m.arena.PaddleSpeed*scale)
	}
}

func (m *Match) paddle(seat SeatID) *engine.Paddle {
	p := m.seat(seat)
	if p == nil {
		return nil
	}
	paddle := p.Paddle
	return &paddle
}

// credit awards a point if the seat is occupied. The ball is re-served either way.
func (m *Match) credit(seat SeatID) {
	p := m.seat(seat)
	if p == nil {
		return
	}
	p.Score++
	log.Printf("%s scores! Score: %d - %d", seat.Label(), m.score(SeatOne), m.score(SeatTwo))
}

func (m *Match) score(seat SeatID) int {
	if p := m.seat(seat); p != nil {
		return p.Score
	}
	return 0
}

// tryStart fires Waiting -> Playing when both seats are occupied and ready.
func (m *Match) tryStart() bool {
	if m.state.Status != StatusWaiting {
		return false
	}
	for _, p := range m.state.Seats {
		if p == nil || !p.Ready {
			return false
		}
	}

	log.Printf("Both players ready! Starting match...")
	m.notice("", "Both players ready! Game starting...")

	m.state.Ball = engine.Serve(m.arena, m.coin)
	m.state.Status = StatusPlaying
	m.state.LastUpdate = m.clock.Now()
	m.sched.Start()

	m.broadcast()
	return true
}

// reinitialize returns the match to a fresh WaitingForPlayers state.
// The tick counter carries over so observers keep a monotonic order.
func (m *Match) reinitialize() {
	m.sched.Stop()
	m.state = freshState(m.arena, m.clock.Now(), m.state.Tick)
	log.Printf("Match reset. Status: %s", m.state.Status)
}

func (m *Match) broadcast() {
	snap := m.state.snapshot()
	m.out.Publish(Event{Kind: EventSnapshot, State: &snap})
}

func (m *Match) notice(target, text string) {
	m.out.Publish(Event{Kind: EventNotice, Target: target, Text: text})
}
