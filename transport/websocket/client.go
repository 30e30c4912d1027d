package websocket

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/pongserver/game/match"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Time allowed for the match to seat a new connection.
	joinWait = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The game client may be served from anywhere
		return true
	},
}

// Authority is the match owner that connections report to
type Authority interface {
	Join(ctx context.Context, connID string) (match.SeatID, error)
	Ready(connID string) error
	PaddleIntent(connID string, dir match.Direction, start bool) error
	Leave(connID string) error
}

// Client represents a WebSocket client
type Client struct {
	id    string
	hub   *Hub
	auth  Authority
	conn  *websocket.Conn
	codec Codec
	send  chan []byte
}

// Handler upgrades HTTP requests and attaches the connection to the match
type Handler struct {
	hub  *Hub
	auth Authority
}

// NewHandler creates the /ws handler
func NewHandler(hub *Hub, auth Authority) *Handler {
	return &Handler{hub: hub, auth: auth}
}

// ServeHTTP handles WebSocket requests from clients
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	codec, err := CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		id:    uuid.NewString(),
		hub:   h.hub,
		auth:  h.auth,
		conn:  conn,
		codec: codec,
		send:  make(chan []byte, 256),
	}

	// Registered before joining so the seat assignment reaches it
	h.hub.Register(client)
	go client.writePump()

	ctx, cancel := context.WithTimeout(r.Context(), joinWait)
	defer cancel()

	seat, err := h.auth.Join(ctx, client.id)
	if err != nil {
		if errors.Is(err, match.ErrMatchFull) {
			log.Printf("Rejected %s: %v", client.id, err)
		} else {
			log.Printf("Failed to join %s: %v", client.id, err)
			// the join may still land after a timeout
			if err := h.auth.Leave(client.id); err != nil {
				log.Printf("Failed to report %s leaving: %v", client.id, err)
			}
		}
		// writePump flushes the rejection notice, then closes
		h.hub.Unregister(client)
		return
	}

	log.Printf("Connection %s joined as %s", client.id, seat)
	go client.readPump()
}

// readPump pumps intents from the WebSocket connection to the match
func (c *Client) readPump() {
	defer func() {
		if err := c.auth.Leave(c.id); err != nil {
			log.Printf("Failed to report %s leaving: %v", c.id, err)
		}
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		frameType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var intent Intent
		if err := codecForFrame(frameType).Unmarshal(data, &intent); err != nil {
			log.Printf("Ignoring malformed message from %s: %v", c.id, err)
			continue
		}
		if err := c.dispatch(intent); err != nil {
			log.Printf("Failed to forward %s from %s: %v", intent.Type, c.id, err)
			break
		}
	}
}

// dispatch forwards a decoded intent. Unknown intents are ignored.
func (c *Client) dispatch(intent Intent) error {
	switch intent.Type {
	case IntentReady:
		return c.auth.Ready(c.id)
	case IntentPaddleStart, IntentPaddleStop:
		dir, ok := match.ParseDirection(intent.Direction)
		if !ok {
			return nil
		}
		return c.auth.PaddleIntent(c.id, dir, intent.Type == IntentPaddleStart)
	default:
		log.Printf("Ignoring unknown message type %q from %s", intent.Type, c.id)
		return nil
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One envelope per frame; binary frames cannot be newline-joined
			if err := c.conn.WriteMessage(c.codec.FrameType(), message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.hub.done:
			// A stopped hub never closes send for clients it did not register
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
