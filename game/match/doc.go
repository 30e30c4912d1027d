// Package match holds the authoritative state of a two-seat pong match and
// the state machine that governs it.
//
// States:
//
//	waiting  --both seats occupied and ready-->  playing
//	playing  --any occupant disconnects------->  gameover -> waiting (reset)
//	waiting  --any occupant disconnects------->  waiting (reset)
//
// GameOver is only ever observed as a single broadcast snapshot; the match
// reinitializes in the same call. Ready flags and scores are cleared only by a
// reset.
//
// Seat registry:
//
// AssignSeat, MarkReady, ApplyPaddleIntent and ReleaseSeat are the only ways
// players affect the match. Intents for empty seats, or paddle intents outside
// playing, are ignored rather than reported, since they are usually messages
// that were in flight when the state changed.
//
// Concurrency:
//
// Match does no locking. It expects a single owner goroutine to call every
// method, including Tick. The Scheduler it starts and stops only decides when
// that owner calls Tick.
package match
