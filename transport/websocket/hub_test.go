package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/pongserver/game/match"
)

// mockAuthority implements Authority with overridable funcs
type mockAuthority struct {
	JoinFunc         func(ctx context.Context, connID string) (match.SeatID, error)
	ReadyFunc        func(connID string) error
	PaddleIntentFunc func(connID string, dir match.Direction, start bool) error

	left chan string
}

func newMockAuthority() *mockAuthority {
	return &mockAuthority{left: make(chan string, 8)}
}

func (m *mockAuthority) Join(ctx context.Context, connID string) (match.SeatID, error) {
	if m.JoinFunc != nil {
		return m.JoinFunc(ctx, connID)
	}
	return match.SeatOne, nil
}

func (m *mockAuthority) Ready(connID string) error {
	if m.ReadyFunc != nil {
		return m.ReadyFunc(connID)
	}
	return nil
}

func (m *mockAuthority) PaddleIntent(connID string, dir match.Direction, start bool) error {
	if m.PaddleIntentFunc != nil {
		return m.PaddleIntentFunc(connID, dir, start)
	}
	return nil
}

func (m *mockAuthority) Leave(connID string) error {
	m.left <- connID
	return nil
}

func newTestClient(hub *Hub, id string, codec Codec, buffer int) *Client {
	return &Client{
		id:    id,
		hub:   hub,
		codec: codec,
		send:  make(chan []byte, buffer),
	}
}

func testSnapshot() *match.Snapshot {
	return &match.Snapshot{
		Status: match.StatusPlaying,
		Players: map[match.SeatID]match.PlayerSeat{
			match.SeatOne: {ConnID: "a", Seat: match.SeatOne, Score: 2},
		},
		Tick: 7,
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.inbox == nil {
		t.Error("Hub inbox channel is nil")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "conn-1", JSON, 4)

	hub.registerClient(client)
	if hub.clients["conn-1"] != client {
		t.Fatal("Client was not registered")
	}

	hub.unregisterClient(client)
	if _, exists := hub.clients["conn-1"]; exists {
		t.Error("Client should have been removed")
	}
	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed")
	}

	// a second unregister must not close the channel again
	hub.unregisterClient(client)
}

func TestHubDeliver(t *testing.T) {
	hub := NewHub()
	jsonClient := newTestClient(hub, "conn-json", JSON, 4)
	packClient := newTestClient(hub, "conn-pack", MsgPack, 4)
	hub.registerClient(jsonClient)
	hub.registerClient(packClient)

	t.Run("targeted event reaches only its client", func(t *testing.T) {
		hub.deliver(match.Event{Kind: match.EventSeatAssigned, Target: "conn-json", Seat: match.SeatTwo})

		if len(packClient.send) != 0 {
			t.Error("Untargeted client received a targeted event")
		}
		var msg Message
		if err := json.Unmarshal(<-jsonClient.send, &msg); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if msg.Event != "seat_assigned" || msg.Seat != match.SeatTwo {
			t.Errorf("Unexpected message %+v", msg)
		}
	})

	t.Run("broadcast reaches every codec", func(t *testing.T) {
		hub.deliver(match.Event{Kind: match.EventSnapshot, State: testSnapshot()})

		var viaJSON, viaPack Message
		if err := JSON.Unmarshal(<-jsonClient.send, &viaJSON); err != nil {
			t.Fatalf("Failed to decode JSON: %v", err)
		}
		if err := MsgPack.Unmarshal(<-packClient.send, &viaPack); err != nil {
			t.Fatalf("Failed to decode MessagePack: %v", err)
		}

		for name, msg := range map[string]Message{"json": viaJSON, "msgpack": viaPack} {
			if msg.Event != "state_snapshot" || msg.State == nil {
				t.Errorf("%s: unexpected message %+v", name, msg)
				continue
			}
			if msg.State.Tick != 7 || msg.State.Players[match.SeatOne].Score != 2 {
				t.Errorf("%s: snapshot not carried, got %+v", name, msg.State)
			}
		}
	})

	t.Run("unknown target is dropped", func(t *testing.T) {
		hub.deliver(match.Event{Kind: match.EventNotice, Target: "nobody", Text: "hi"})
		if len(jsonClient.send) != 0 || len(packClient.send) != 0 {
			t.Error("Event for an unknown target was delivered")
		}
	})
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, "slow", JSON, 1)
	hub.registerClient(slow)

	hub.deliver(match.Event{Kind: match.EventNotice, Text: "one"})
	hub.deliver(match.Event{Kind: match.EventNotice, Text: "two"})

	if _, exists := hub.clients["slow"]; exists {
		t.Error("Slow client should have been dropped")
	}
}

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Codec
		wantErr bool
	}{
		{"", JSON, false},
		{"json", JSON, false},
		{"msgpack", MsgPack, false},
		{"xml", nil, true},
	}
	for _, tt := range tests {
		got, err := CodecByName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("CodecByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("CodecByName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func startServer(t *testing.T, hub *Hub, auth *mockAuthority) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(NewHandler(hub, auth))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	frameType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var msg Message
	if err := codecForFrame(frameType).Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to decode message: %v", err)
	}
	return msg
}

func TestWebSocketSession(t *testing.T) {
	auth := newMockAuthority()
	hub := NewHub()

	type paddleCall struct {
		dir   match.Direction
		start bool
	}
	readies := make(chan string, 1)
	paddles := make(chan paddleCall, 4)

	auth.JoinFunc = func(ctx context.Context, connID string) (match.SeatID, error) {
		hub.Publish(match.Event{Kind: match.EventSeatAssigned, Target: connID, Seat: match.SeatOne})
		return match.SeatOne, nil
	}
	auth.ReadyFunc = func(connID string) error {
		readies <- connID
		return nil
	}
	auth.PaddleIntentFunc = func(connID string, dir match.Direction, start bool) error {
		paddles <- paddleCall{dir, start}
		return nil
	}

	url := startServer(t, hub, auth)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	msg := readMessage(t, conn)
	if msg.Event != "seat_assigned" || msg.Seat != match.SeatOne {
		t.Fatalf("Expected seat assignment, got %+v", msg)
	}

	t.Run("ready is forwarded", func(t *testing.T) {
		conn.WriteJSON(Intent{Type: IntentReady})
		select {
		case id := <-readies:
			if id == "" {
				t.Error("Expected a connection id")
			}
		case <-time.After(time.Second):
			t.Fatal("Ready was not forwarded")
		}
	})

	t.Run("paddle intents are forwarded", func(t *testing.T) {
		conn.WriteJSON(Intent{Type: IntentPaddleStart, Direction: "up"})
		conn.WriteJSON(Intent{Type: IntentPaddleStart, Direction: "sideways"})
		conn.WriteJSON(Intent{Type: IntentPaddleStop, Direction: "up"})

		want := []paddleCall{{match.DirectionUp, true}, {match.DirectionUp, false}}
		for i, w := range want {
			select {
			case got := <-paddles:
				if got != w {
					t.Errorf("Call %d: expected %+v, got %+v", i, w, got)
				}
			case <-time.After(time.Second):
				t.Fatalf("Call %d was not forwarded", i)
			}
		}
	})

	t.Run("broadcast reaches the connection", func(t *testing.T) {
		hub.Publish(match.Event{Kind: match.EventSnapshot, State: testSnapshot()})
		msg := readMessage(t, conn)
		if msg.Event != "state_snapshot" || msg.State.Tick != 7 {
			t.Errorf("Unexpected message %+v", msg)
		}
	})

	t.Run("close reports leave", func(t *testing.T) {
		conn.Close()
		select {
		case <-auth.left:
		case <-time.After(time.Second):
			t.Fatal("Leave was not reported")
		}
	})
}

func TestWebSocketRejectsWhenFull(t *testing.T) {
	auth := newMockAuthority()
	hub := NewHub()
	auth.JoinFunc = func(ctx context.Context, connID string) (match.SeatID, error) {
		hub.Publish(match.Event{Kind: match.EventNotice, Target: connID, Text: "Game is full. Please try again later."})
		return "", fmt.Errorf("assign seat to %s: %w", connID, match.ErrMatchFull)
	}
	url := startServer(t, hub, auth)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	msg := readMessage(t, conn)
	if msg.Event != "notice" || msg.Text != "Game is full. Please try again later." {
		t.Errorf("Expected rejection notice, got %+v", msg)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed")
	}

	select {
	case id := <-auth.left:
		t.Errorf("Rejected connection should not report leave, got %s", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWebSocketMessagePack(t *testing.T) {
	auth := newMockAuthority()
	hub := NewHub()
	auth.JoinFunc = func(ctx context.Context, connID string) (match.SeatID, error) {
		hub.Publish(match.Event{Kind: match.EventSnapshot, State: testSnapshot()})
		return match.SeatOne, nil
	}
	url := startServer(t, hub, auth)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?codec=msgpack", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	frameType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	if frameType != websocket.BinaryMessage {
		t.Fatalf("Expected a binary frame, got %d", frameType)
	}
	var msg Message
	if err := MsgPack.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to decode MessagePack: %v", err)
	}
	if msg.State == nil || msg.State.Status != match.StatusPlaying {
		t.Errorf("Unexpected message %+v", msg)
	}
}

func TestWebSocketUnknownCodec(t *testing.T) {
	url := startServer(t, NewHub(), newMockAuthority())

	_, resp, err := websocket.DefaultDialer.Dial(url+"?codec=xml", nil)
	if err == nil {
		t.Fatal("Expected the handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %v", resp)
	}
}

func TestWebSocketClosedAfterHubStops(t *testing.T) {
	auth := newMockAuthority()
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	server := httptest.NewServer(NewHandler(hub, auth))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = conn.ReadMessage()
	if _, ok := err.(*websocket.CloseError); !ok {
		t.Fatalf("Expected the server to close the connection, got %v", err)
	}

	select {
	case <-auth.left:
	case <-time.After(time.Second):
		t.Fatal("Leave was not reported")
	}
}
