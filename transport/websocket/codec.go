package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/wricardo/mcp-training/pongserver/game/match"
)

// Message is the outbound envelope sent to clients
type Message struct {
	Event string          `json:"event"`
	Seat  match.SeatID    `json:"seat,omitempty"`
	Text  string          `json:"text,omitempty"`
	State *match.Snapshot `json:"state,omitempty"`
}

// Intent is an inbound client message
type Intent struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

const (
	IntentReady       = "ready"
	IntentPaddleStart = "paddle_start"
	IntentPaddleStop  = "paddle_stop"
)

// Codec turns envelopes into WebSocket frames and back
type Codec interface {
	Name() string
	FrameType() int
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string                               { return "json" }
func (jsonCodec) FrameType() int                             { return websocket.TextMessage }
func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

// msgpackCodec reuses the json struct tags so both codecs carry the same field names
type msgpackCodec struct{}

func (msgpackCodec) Name() string   { return "msgpack" }
func (msgpackCodec) FrameType() int { return websocket.BinaryMessage }

func (msgpackCodec) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) Unmarshal(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// CodecByName resolves the ?codec= query value. Empty means JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// codecForFrame picks the decoder for an inbound frame. Clients may send
// either kind regardless of what they receive.
func codecForFrame(frameType int) Codec {
	if frameType == websocket.BinaryMessage {
		return MsgPack
	}
	return JSON
}

func messageFor(ev match.Event) Message {
	return Message{
		Event: string(ev.Kind),
		Seat:  ev.Seat,
		Text:  ev.Text,
		State: ev.State,
	}
}
