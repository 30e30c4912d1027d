// Package websocket is the real-time transport between players and the match.
//
// Architecture:
//
// A central Hub owns every connection. Each connection has a read goroutine
// that forwards intents to the match Authority and a write goroutine that
// drains its send channel. The Hub implements match.Publisher: the match
// owner publishes events, the Hub encodes them and routes them to one client
// or to all.
//
// Message Protocol:
//
// Clients pick a codec with ?codec=json (default, text frames) or
// ?codec=msgpack (binary frames). Both carry the same field names.
//   - Incoming: {"type": "ready"} or {"type": "paddle_start"|"paddle_stop", "direction": "up"|"down"}
//   - Outgoing: {"event": "seat_assigned"|"state_snapshot"|"notice", "seat": ..., "text": ..., "state": ...}
//
// Inbound frames are decoded by frame type, so a client may send JSON text
// while receiving MessagePack.
//
// Connection Lifecycle:
//
// 1. Connection upgraded and given a UUID
// 2. Registered with the hub, then joined to the match
// 3. A full match sends the rejection notice and closes the connection
// 4. Otherwise intents flow to the match and events flow back
// 5. Disconnection reports Leave and unregisters
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	mgr := session.NewManager(arena, hub)
//	go mgr.Run(ctx)
//
//	router.Handle("/ws", websocket.NewHandler(hub, mgr))
package websocket
