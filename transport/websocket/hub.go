package websocket

import (
	"context"
	"log"

	"github.com/wricardo/mcp-training/pongserver/game/match"
)

const inboxSize = 1024

type registerReq struct {
	client *Client
}

type unregisterReq struct {
	client *Client
}

// Hub maintains the set of active clients and delivers match events to them.
//
// Registrations, unregistrations and events share one inbox, so a client
// registered before it joins the match always sees the events produced by
// that join, in order.
type Hub struct {
	// Registered clients by connection ID
	clients map[string]*Client

	inbox chan interface{}
	done  chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		inbox:   make(chan interface{}, inboxSize),
		done:    make(chan struct{}),
	}
}

// Run starts the hub's event loop. It closes every client when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, client := range h.clients {
				h.unregisterClient(client)
			}
			return

		case msg := <-h.inbox:
			switch m := msg.(type) {
			case registerReq:
				h.registerClient(m.client)
			case unregisterReq:
				h.unregisterClient(m.client)
			case match.Event:
				h.deliver(m)
			}
		}
	}
}

// Publish queues a match event for delivery. It implements match.Publisher.
func (h *Hub) Publish(ev match.Event) {
	h.enqueue(ev)
}

// Register queues a client for registration
func (h *Hub) Register(client *Client) {
	h.enqueue(registerReq{client: client})
}

// Unregister queues a client for removal. Its send channel is closed once
// everything queued before it has been delivered.
func (h *Hub) Unregister(client *Client) {
	h.enqueue(unregisterReq{client: client})
}

func (h *Hub) enqueue(msg interface{}) {
	select {
	case h.inbox <- msg:
	case <-h.done:
	}
}

// registerClient adds a client
func (h *Hub) registerClient(client *Client) {
	h.clients[client.id] = client

	log.Printf("Client %s registered (codec %s, total clients: %d)",
		client.id, client.codec.Name(), len(h.clients))
}

// unregisterClient removes a client and closes its send channel
func (h *Hub) unregisterClient(client *Client) {
	if current, ok := h.clients[client.id]; ok && current == client {
		delete(h.clients, client.id)
		close(client.send)

		log.Printf("Client %s unregistered (remaining clients: %d)", client.id, len(h.clients))
	}
}

// deliver encodes an event once per codec and sends it to its target, or to
// every client when the event has none
func (h *Hub) deliver(ev match.Event) {
	msg := messageFor(ev)
	encoded := make(map[string][]byte, 2)

	frame := func(c Codec) []byte {
		if data, ok := encoded[c.Name()]; ok {
			return data
		}
		data, err := c.Marshal(msg)
		if err != nil {
			log.Printf("Failed to marshal %s message: %v", c.Name(), err)
			data = nil
		}
		encoded[c.Name()] = data
		return data
	}

	if ev.Target != "" {
		if client, ok := h.clients[ev.Target]; ok {
			h.sendTo(client, frame(client.codec))
		}
		return
	}

	for _, client := range h.clients {
		h.sendTo(client, frame(client.codec))
	}
}

func (h *Hub) sendTo(client *Client, data []byte) {
	if data == nil {
		return
	}
	select {
	case client.send <- data:
	default:
		// Client's send channel is full, close it
		log.Printf("Client %s is not keeping up, dropping it", client.id)
		h.unregisterClient(client)
	}
}
