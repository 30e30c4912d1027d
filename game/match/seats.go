package match

import (
	"errors"
	"fmt"
	"log"

	"github.com/wricardo/mcp-training/pongserver/game/engine"
)

var (
	ErrMatchFull = errors.New("match is full")
)

func (m *Match) seat(id SeatID) *PlayerSeat {
	idx, ok := id.index()
	if !ok {
		return nil
	}
	return m.state.Seats[idx]
}

// SeatOf returns the seat held by a connection
func (m *Match) SeatOf(connID string) (SeatID, bool) {
	for _, p := range m.state.Seats {
		if p != nil && p.ConnID == connID {
			return p.Seat, true
		}
	}
	return "", false
}

// AssignSeat seats a connection in the first vacant seat. It fails with
// ErrMatchFull when both seats are taken; the caller is expected to reject the
// connection.
func (m *Match) AssignSeat(connID string) (SeatID, error) {
	if seat, ok := m.SeatOf(connID); ok {
		return seat, nil
	}

	for idx, id := range Seats {
		if m.state.Seats[idx] != nil {
			continue
		}

		m.state.Seats[idx] = &PlayerSeat{
			ConnID: connID,
			Seat:   id,
			Paddle: engine.DefaultPaddle(m.arena, id == SeatOne),
		}
		log.Printf("Assigned %s as %s", connID, id.Label())

		m.out.Publish(Event{Kind: EventSeatAssigned, Target: connID, Seat: id})
		if id == SeatOne {
			m.notice(connID, "You are Player 1. Waiting for Player 2...")
		} else {
			m.notice(connID, "You are Player 2. Waiting for players to be ready...")
		}
		m.broadcast()
		return id, nil
	}

	log.Printf("Match full, rejecting %s", connID)
	m.notice(connID, "Game is full. Please try again later.")
	return "", fmt.Errorf("assign seat to %s: %w", connID, ErrMatchFull)
}

// MarkReady flags a seat as ready and starts the match when both seats are.
// Unknown seats and repeated calls are ignored.
func (m *Match) MarkReady(id SeatID) {
	p := m.seat(id)
	if p == nil || p.Ready {
		return
	}

	p.Ready = true
	log.Printf("%s is ready!", id.Label())
	m.notice("", fmt.Sprintf("%s is ready!", id.Label()))

	if !m.tryStart() {
		m.broadcast()
	}
}

// ApplyPaddleIntent handles a paddle key press (start) or release. It is a
// no-op outside Playing or for an empty seat. A press nudges the paddle one
// step immediately and keeps it moving on every tick until released.
func (m *Match) ApplyPaddleIntent(id SeatID, dir Direction, start bool) {
	if m.state.Status != StatusPlaying {
		return
	}
	p := m.seat(id)
	if p == nil || dir.sign() == 0 {
		return
	}

	if !start {
		if p.held == dir {
			p.held = DirectionNone
		}
		return
	}

	p.held = dir
	p.Paddle.Y = m.arena.ClampPaddleY(p.Paddle.Y + dir.sign()*m.arena.PaddleSpeed)
}

// ReleaseSeat empties a seat after its connection went away. A disconnect
// while playing ends the match; any disconnect resets it to a fresh
// WaitingForPlayers state with both seats empty.
func (m *Match) ReleaseSeat(id SeatID) {
	idx, ok := id.index()
	if !ok || m.state.Seats[idx] == nil {
		return
	}

	m.state.Seats[idx] = nil
	log.Printf("%s disconnected", id.Label())

	if m.state.Status == StatusPlaying {
		m.sched.Stop()
		m.state.Status = StatusGameOver
		m.notice("", fmt.Sprintf("%s disconnected. Game over.", id.Label()))
		m.broadcast()
	} else {
		m.notice("", fmt.Sprintf("%s left. Waiting for players...", id.Label()))
	}

	m.reinitialize()
	m.broadcast()
}
