// Package mcp exposes the match to Model Context Protocol clients.
//
// MCP Tools:
//
// All tools are read-only spectator tools that proxy the REST API:
//   - match_state: Current snapshot rendered as text
//   - arena_config: Constants of the active arena or of a named profile
//   - list_arenas: Available arena profiles
//   - game_rules: How a match is played and scored
//
// Transport Modes:
//
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: client.HTTPHandler() mounted at /mcp, one JSON-RPC message per POST
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	mux.Handle("/mcp", client.HTTPHandler())
package mcp
