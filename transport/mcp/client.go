package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/pongserver/game/config"
	"github.com/wricardo/mcp-training/pongserver/game/engine"
	"github.com/wricardo/mcp-training/pongserver/game/match"
)

// Client is a thin MCP client that proxies to the REST API.
// Every tool is read-only; only WebSocket players can affect the match.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Pong Match Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Pong Match Server - MCP Spectator Interface

This is a thin client that proxies requests to the REST API server.
Two players connect over WebSocket, mark themselves ready and play; these
tools let you watch the match, not play it.

AVAILABLE TOOLS:
- match_state: Current status, scores, paddles and ball
- arena_config: Constants of the arena being played, or of a named profile
- list_arenas: Arena profiles available to the server
- game_rules: How a match works`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "match_state",
		Description: "Get the current match snapshot: status, both seats, ball and tick",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleMatchState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "arena_config",
		Description: "Get arena constants. Without a name, returns the arena being played",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Arena profile name (optional)",
				},
			},
		},
	}, c.handleArenaConfig)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_arenas",
		Description: "List the arena profiles available to the server",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListArenas)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Explain how a match is played and scored",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves single MCP JSON-RPC messages over POST
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var snap match.Snapshot
	if err := c.apiCall(ctx, "GET", "/api/match", nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleArenaConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)

	path := "/api/arena"
	if name != "" {
		path = "/api/configs/" + url.PathEscape(name)
	}

	var arena engine.Arena
	if err := c.apiCall(ctx, "GET", path, nil, &arena); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatArena(&arena)), nil
}

func (c *Client) handleListArenas(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count  int                 `json:"count"`
		Active string              `json:"active"`
		Arenas []*config.ArenaInfo `json:"arenas"`
	}

	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Arena Profiles (%d):\n\n", response.Count)
	for _, a := range response.Arenas {
		marker := " "
		if a.Name == response.Active {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s: %gx%g @ %d Hz", marker, a.ArenaID, a.Width, a.Height, a.TickRate)
		if a.Description != "" {
			fmt.Fprintf(&b, " - %s", a.Description)
		}
		b.WriteString("\n")
	}
	if response.Active != "" {
		fmt.Fprintf(&b, "\n* active: %s\n", response.Active)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameRules), nil
}

const gameRules = `Pong Match Rules

SEATS:
- The first connection is Player 1 (left paddle), the second Player 2 (right paddle).
- A third connection is turned away with "Game is full. Please try again later."

STARTING:
- Each player sends {"type": "ready"}.
- When both seats are occupied and ready, the ball is served from the centre
  in a random diagonal and the match is playing.

CONTROLS:
- {"type": "paddle_start", "direction": "up"|"down"} moves the paddle and keeps it moving.
- {"type": "paddle_stop", "direction": ...} stops it.
- Paddles never leave the arena.

SCORING:
- Ball leaves the left edge: Player 2 scores.
- Ball leaves the right edge: Player 1 scores.
- After a point the ball is served again from the centre.
- Where the ball hits the paddle sets its vertical speed: centre is flat, edges are steep.

DISCONNECTS:
- If a player leaves during play the match ends (gameover) and resets.
- Scores and ready flags are cleared; a remaining player keeps a seat and must ready up again.`

// Formatting helpers

func formatSnapshot(snap *match.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(string(snap.Status)))
	fmt.Fprintf(&b, "Tick: %d\n", snap.Tick)
	if snap.LastUpdateTime > 0 {
		fmt.Fprintf(&b, "Last update: %s\n", time.UnixMilli(snap.LastUpdateTime).UTC().Format("15:04:05.000"))
	}

	one, _ := snap.Player(match.SeatOne)
	two, _ := snap.Player(match.SeatTwo)
	fmt.Fprintf(&b, "Score: %d - %d\n\n", one.Score, two.Score)

	for _, seat := range match.Seats {
		p, ok := snap.Player(seat)
		if !ok {
			fmt.Fprintf(&b, "%s: (empty seat)\n", seat.Label())
			continue
		}
		ready := "not ready"
		if p.Ready {
			ready = "ready"
		}
		fmt.Fprintf(&b, "%s: score %d, %s, paddle y=%.1f\n", seat.Label(), p.Score, ready, p.Paddle.Y)
	}

	fmt.Fprintf(&b, "\nBall: (%.1f, %.1f) velocity (%.2f, %.2f)\n", snap.Ball.X, snap.Ball.Y, snap.Ball.DX, snap.Ball.DY)
	return b.String()
}

func formatArena(a *engine.Arena) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Arena: %s\n", a.Name)
	if a.Description != "" {
		fmt.Fprintf(&b, "%s\n", a.Description)
	}
	fmt.Fprintf(&b, "Size: %gx%g\n", a.Width, a.Height)
	fmt.Fprintf(&b, "Paddle: %gx%g, speed %g\n", a.PaddleWidth, a.PaddleHeight, a.PaddleSpeed)
	fmt.Fprintf(&b, "Ball: radius %g, speed (%g, %g)\n", a.BallRadius, a.BallSpeedX, a.BallSpeedY)
	fmt.Fprintf(&b, "Tick rate: %d Hz\n", a.TickRate)
	return b.String()
}
