// Package api provides the HTTP surface of the pong server.
//
// Endpoints:
//
// Match:
//   - GET /api/match - Current match snapshot
//   - GET /api/arena - Constants of the arena being played
//
// Configuration:
//   - GET /api/configs - List arena profiles
//   - POST /api/configs/reload - Re-read profiles from disk and list them
//   - GET /api/configs/{name} - A single arena profile
//
// Other:
//   - GET /healthz - Liveness
//   - /ws - WebSocket upgrade for players
//   - / - Static files from ./static
//
// The REST endpoints are read-only. Only WebSocket players can change the
// match, and only through the match owner.
//
// Snapshot format:
//
//	{
//	  "status": "waiting|playing|gameover",
//	  "players": {"player1": {"id": "...", "playerNumber": "player1", "paddle": {...}, "score": 0, "ready": false}},
//	  "ball": {"x": 400, "y": 300, "radius": 10, "dx": 5, "dy": -5},
//	  "lastUpdateTime": 1700000000000,
//	  "tick": 42
//	}
//
// Error Handling:
//
// Errors are returned as JSON with an appropriate HTTP status code:
//
//	{"error": "error message"}
package api
