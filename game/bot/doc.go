// Package bot contains computer paddle control shared by the WebSocket bot
// player and the offline arena analyzer.
//
// A Tracker decides, from one snapshot, which way its paddle should be held.
// A Pilot remembers what it last sent and only emits the start/stop
// transitions, which is all the wire protocol accepts.
package bot
