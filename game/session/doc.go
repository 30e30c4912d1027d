// Package session runs the match on a single goroutine.
//
// Manager owns a match.Match and a Scheduler. Connection events (Join,
// Leave), player intents (Ready, PaddleIntent) and reads (Snapshot) are
// queued as commands on one inbox; scheduler ticks arrive on a second channel
// consumed by the same select loop. Because nothing else touches the match,
// a tick never runs concurrently with an intent, a stop, or another tick.
//
// Connections are identified by opaque strings assigned by the transport. The
// manager resolves a connection to its seat inside each command, so an intent
// queued before a reset cannot act on the wrong seat afterwards.
//
// Usage:
//
//	mgr := session.NewManager(engine.DefaultArena(), hub)
//	go mgr.Run(ctx)
//
//	seat, err := mgr.Join(ctx, connID)
//	if errors.Is(err, match.ErrMatchFull) {
//		// close the connection
//	}
//	mgr.Ready(connID)
//	mgr.PaddleIntent(connID, match.DirectionUp, true)
//	mgr.Leave(connID)
//
// Once Run returns, every method reports ErrManagerStopped.
package session
