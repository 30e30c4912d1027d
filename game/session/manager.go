package session

import (
	"context"
	"errors"
	"log"
	"slices"

	"github.com/benbjohnson/clock"

	"github.com/wricardo/mcp-training/pongserver/game/engine"
	"github.com/wricardo/mcp-training/pongserver/game/match"
)

var (
	ErrManagerStopped = errors.New("session manager stopped")
)

const inboxSize = 256

// Manager is the single owner of the match. Every connection event, player
// intent and tick is handled on the goroutine running Run, so none of them
// ever interleave.
type Manager struct {
	arena engine.Arena
	match *match.Match
	sched *Scheduler
	inbox chan any
	done  chan struct{}

	// live seated connections, in arrival order
	conns []string
}

type options struct {
	clock clock.Clock
	coin  engine.Coin
}

// Option configures a Manager
type Option func(*options)

// WithClock sets the clock driving ticks and timestamps
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithCoin sets the randomness used when serving the ball
func WithCoin(c engine.Coin) Option {
	return func(o *options) { o.coin = c }
}

// NewManager creates a manager for a fresh match on the given arena.
// Events produced by the match are handed to pub from the Run goroutine.
func NewManager(arena engine.Arena, pub match.Publisher, opts ...Option) *Manager {
	o := options{clock: clock.New()}
	for _, opt := range opts {
		opt(&o)
	}

	sched := NewScheduler(o.clock, arena.TickInterval())
	matchOpts := []match.Option{
		match.WithClock(o.clock),
		match.WithScheduler(sched),
	}
	if pub != nil {
		matchOpts = append(matchOpts, match.WithPublisher(pub))
	}
	if o.coin != nil {
		matchOpts = append(matchOpts, match.WithCoin(o.coin))
	}

	return &Manager{
		arena: arena,
		match: match.New(arena, matchOpts...),
		sched: sched,
		inbox: make(chan any, inboxSize),
		done:  make(chan struct{}),
	}
}

// Arena returns the arena the match runs on. It never changes after NewManager.
func (m *Manager) Arena() engine.Arena {
	return m.arena
}

// Done is closed once Run has returned
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Run processes commands and ticks until ctx is cancelled. It must be called once.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)
	defer m.sched.Stop()

	log.Printf("Match manager started (arena %s, %d Hz)", m.arena.Name, m.arena.TickRate)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Match manager stopping: %v", ctx.Err())
			return
		case cmd := <-m.inbox:
			m.handle(cmd)
		case <-m.sched.C():
			m.match.Tick()
		}
	}
}

// Join seats a connection. It returns match.ErrMatchFull (wrapped) when both
// seats are taken; the connection has then already been sent the rejection notice.
func (m *Manager) Join(ctx context.Context, connID string) (match.SeatID, error) {
	reply := make(chan joinResult, 1)
	if err := m.send(ctx, joinCmd{ConnID: connID, Reply: reply}); err != nil {
		return "", err
	}

	select {
	case res := <-reply:
		return res.Seat, res.Err
	case <-m.done:
		return "", ErrManagerStopped
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Ready marks the connection's seat ready
func (m *Manager) Ready(connID string) error {
	return m.send(context.Background(), readyCmd{ConnID: connID})
}

// PaddleIntent forwards a paddle key press (start) or release for the connection's seat
func (m *Manager) PaddleIntent(connID string, dir match.Direction, start bool) error {
	return m.send(context.Background(), paddleCmd{ConnID: connID, Direction: dir, Start: start})
}

// Leave reports that a connection went away
func (m *Manager) Leave(connID string) error {
	return m.send(context.Background(), leaveCmd{ConnID: connID})
}

// Snapshot returns a copy of the current match state
func (m *Manager) Snapshot(ctx context.Context) (match.Snapshot, error) {
	reply := make(chan match.Snapshot, 1)
	if err := m.send(ctx, snapshotCmd{Reply: reply}); err != nil {
		return match.Snapshot{}, err
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-m.done:
		return match.Snapshot{}, ErrManagerStopped
	case <-ctx.Done():
		return match.Snapshot{}, ctx.Err()
	}
}

func (m *Manager) send(ctx context.Context, cmd any) error {
	select {
	case <-m.done:
		return ErrManagerStopped
	default:
	}

	select {
	case m.inbox <- cmd:
		return nil
	case <-m.done:
		return ErrManagerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) handle(cmd any) {
	switch c := cmd.(type) {
	case joinCmd:
		seat, err := m.join(c.ConnID)
		c.Reply <- joinResult{Seat: seat, Err: err}
	case readyCmd:
		if seat, ok := m.match.SeatOf(c.ConnID); ok {
			m.match.MarkReady(seat)
		}
	case paddleCmd:
		if seat, ok := m.match.SeatOf(c.ConnID); ok {
			m.match.ApplyPaddleIntent(seat, c.Direction, c.Start)
		}
	case leaveCmd:
		m.leave(c.ConnID)
	case snapshotCmd:
		c.Reply <- m.match.Snapshot()
	default:
		log.Printf("Match manager: unknown command %T", cmd)
	}
}

func (m *Manager) join(connID string) (match.SeatID, error) {
	seat, err := m.match.AssignSeat(connID)
	if err != nil {
		return "", err
	}
	if !slices.Contains(m.conns, connID) {
		m.conns = append(m.conns, connID)
	}
	return seat, nil
}

func (m *Manager) leave(connID string) {
	idx := slices.Index(m.conns, connID)
	if idx < 0 {
		return
	}
	m.conns = slices.Delete(m.conns, idx, idx+1)

	seat, ok := m.match.SeatOf(connID)
	if !ok {
		return
	}
	m.match.ReleaseSeat(seat)
	m.reseat()
}

// reseat gives the connections that survived a reset their seats back, oldest first
func (m *Manager) reseat() {
	for _, connID := range m.conns {
		if _, ok := m.match.SeatOf(connID); ok {
			continue
		}
		if _, err := m.match.AssignSeat(connID); err != nil {
			log.Printf("Failed to re-seat %s: %v", connID, err)
		}
	}
}
