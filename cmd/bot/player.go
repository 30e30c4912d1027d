package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/pongserver/game/bot"
	"github.com/wricardo/mcp-training/pongserver/game/engine"
	"github.com/wricardo/mcp-training/pongserver/game/match"
	"github.com/wricardo/mcp-training/pongserver/transport/websocket"
)

// Player is a computer opponent connected to a server over WebSocket
type Player struct {
	conn  *gws.Conn
	codec websocket.Codec

	tracker bot.Tracker
	pilot   *bot.Pilot
	seat    match.SeatID

	// readySent is set once ready went out and cleared when the server has seen it
	readySent  bool
	lastNotice string

	// OnSnapshot, when set, sees every snapshot after the bot has reacted to it
	OnSnapshot func(match.Snapshot)
}

// Dial fetches the arena from serverURL's REST API and opens the player
// WebSocket with the named codec.
func Dial(ctx context.Context, serverURL, codecName string, tracker bot.Tracker) (*Player, error) {
	codec, err := websocket.CodecByName(codecName)
	if err != nil {
		return nil, err
	}

	arena, err := fetchArena(ctx, serverURL)
	if err != nil {
		return nil, fmt.Errorf("fetch arena: %w", err)
	}

	u, err := url.Parse(strings.TrimRight(serverURL, "/") + "/ws")
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.RawQuery = url.Values{"codec": {codec.Name()}}.Encode()

	conn, _, err := gws.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}

	tracker.Arena = arena
	return &Player{
		conn:    conn,
		codec:   codec,
		tracker: tracker,
	}, nil
}

func fetchArena(ctx context.Context, serverURL string) (engine.Arena, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", strings.TrimRight(serverURL, "/")+"/api/arena", nil)
	if err != nil {
		return engine.Arena{}, err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return engine.Arena{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return engine.Arena{}, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	var arena engine.Arena
	if err := json.NewDecoder(resp.Body).Decode(&arena); err != nil {
		return engine.Arena{}, err
	}
	return arena, nil
}

// Seat returns the seat the server assigned, or "" before assignment
func (p *Player) Seat() match.SeatID {
	return p.seat
}

// Run plays until ctx is cancelled or the server closes the connection.
// A close caused by the server carries the last notice it sent.
func (p *Player) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		p.conn.Close()
	}()
	defer p.conn.Close()

	for {
		frameType, data, err := p.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if p.lastNotice != "" {
				return fmt.Errorf("connection closed: %s", p.lastNotice)
			}
			return fmt.Errorf("connection closed: %w", err)
		}

		codec := websocket.JSON
		if frameType == gws.BinaryMessage {
			codec = websocket.MsgPack
		}

		var msg websocket.Message
		if err := codec.Unmarshal(data, &msg); err != nil {
			log.Printf("Dropping undecodable frame: %v", err)
			continue
		}

		if err := p.handle(msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (p *Player) handle(msg websocket.Message) error {
	switch msg.Event {
	case string(match.EventSeatAssigned):
		p.seat = msg.Seat
		p.tracker.Seat = msg.Seat
		p.pilot = bot.NewPilot(p.tracker)
		p.readySent = false
		log.Printf("Seated as %s", msg.Seat.Label())

	case string(match.EventNotice):
		p.lastNotice = msg.Text
		log.Printf("Notice: %s", msg.Text)

	case string(match.EventSnapshot):
		if msg.State == nil {
			return nil
		}
		if err := p.react(*msg.State); err != nil {
			return err
		}
		if p.OnSnapshot != nil {
			p.OnSnapshot(*msg.State)
		}
	}
	return nil
}

// react readies up while waiting and steers the paddle while playing
func (p *Player) react(snap match.Snapshot) error {
	if p.pilot == nil {
		return nil
	}

	me, seated := snap.Player(p.seat)
	if seated && me.Ready {
		p.readySent = false
	}
	if seated && !me.Ready && !p.readySent && snap.Status == match.StatusWaiting {
		p.readySent = true
		if err := p.send(websocket.Intent{Type: websocket.IntentReady}); err != nil {
			return err
		}
	}

	for _, in := range p.pilot.Update(snap) {
		intent := websocket.Intent{Type: websocket.IntentPaddleStop, Direction: string(in.Direction)}
		if in.Start {
			intent.Type = websocket.IntentPaddleStart
		}
		if err := p.send(intent); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) send(intent websocket.Intent) error {
	data, err := p.codec.Marshal(intent)
	if err != nil {
		return err
	}
	if err := p.conn.WriteMessage(p.codec.FrameType(), data); err != nil {
		return fmt.Errorf("send intent: %w", err)
	}
	return nil
}
