// Package engine provides the physics kernel for the pong match server.
//
// The engine package implements:
//   - Ball integration scaled to the nominal tick duration
//   - Top/bottom wall reflection with clamping
//   - Paddle collision with angled returns based on the hit offset
//   - Scoring detection and ball serving
//   - Arena configuration and validation
//
// Everything here is a pure function over values. The kernel never looks at
// player intent or match status; it only reads paddle positions.
//
// Usage:
//
//	arena := engine.DefaultArena()
//	scale := engine.StepScale(elapsed, arena.TickRate)
//	ball, outcome := engine.Step(arena, ball, leftPaddle, rightPaddle, scale, rng)
//	if outcome == engine.SeatOneScored {
//		// credit player one; ball has already been re-served
//	}
//
// Step order:
//
// Integration, wall reflection, left paddle, right paddle, scoring. The order
// matters because each check uses the position produced by the one before it.
// A paddle only reflects a ball that is moving towards it, so a ball that has
// just bounced cannot be caught twice.
package engine
