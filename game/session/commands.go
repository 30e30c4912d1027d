package session

import "github.com/wricardo/mcp-training/pongserver/game/match"

// Commands processed by the Manager goroutine, one at a time, in arrival order.

type joinCmd struct {
	ConnID string
	Reply  chan joinResult
}

type joinResult struct {
	Seat match.SeatID
	Err  error
}

type readyCmd struct {
	ConnID string
}

type paddleCmd struct {
	ConnID    string
	Direction match.Direction
	Start     bool
}

type leaveCmd struct {
	ConnID string
}

type snapshotCmd struct {
	Reply chan match.Snapshot
}
