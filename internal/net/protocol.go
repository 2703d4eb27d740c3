package net

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types for the JSON room protocol over WebSocket.

// Kind is the wire discriminator carried in the "type" field.
type Kind string

const (
	KindJoin       Kind = "join"
	KindRoomJoined Kind = "room_joined"
	KindPlayers    Kind = "players"
	KindStartMatch Kind = "start_match"
	KindFlip       Kind = "flip"
)

// Role is assigned by join order and never changes.
type Role string

const (
	RoleHost      Role = "host"
	RoleGuest     Role = "guest"
	RoleSpectator Role = "spectator"
)

// RoleFor returns the role of a connection joining a room that already has
// members connections.
func RoleFor(members int) Role {
	switch members {
	case 0:
		return RoleHost
	case 1:
		return RoleGuest
	default:
		return RoleSpectator
	}
}

var (
	ErrMalformed    = errors.New("malformed message")
	ErrUnknownType  = errors.New("unknown message type")
	ErrMissingField = errors.New("missing required field")
)

// Message is one of Join, RoomJoined, Players, StartMatch or Flip.
type Message interface {
	Kind() Kind
}

// Join asks the relay to add the connection to a room. Client → relay.
type Join struct {
	RoomID string
}

// RoomJoined acknowledges a join. Relay → client.
type RoomJoined struct {
	RoomID  string
	Role    Role
	Players int
}

// Players announces the room's connection count. Relay → room.
type Players struct {
	RoomID string
	Count  int
}

// StartMatch carries the seed both clients derive their decks from.
type StartMatch struct {
	RoomID string
	Seed   string
}

// Flip advances every client's match by one turn. The payload is relayed as is.
type Flip struct {
	RoomID  string
	Payload json.RawMessage
}

func (Join) Kind() Kind       { return KindJoin }
func (RoomJoined) Kind() Kind { return KindRoomJoined }
func (Players) Kind() Kind    { return KindPlayers }
func (StartMatch) Kind() Kind { return KindStartMatch }
func (Flip) Kind() Kind       { return KindFlip }

// envelope is the loose JSON shape shared by every message.
type envelope struct {
	Type    Kind            `json:"type"`
	RoomID  string          `json:"roomId,omitempty"`
	Role    Role            `json:"role,omitempty"`
	Players *int            `json:"players,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type playersPayload struct {
	Players int `json:"players"`
}

type seedPayload struct {
	Seed string `json:"seed"`
}

var emptyPayload = json.RawMessage(`{}`)

// Decode parses one wire message.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("%w: type", ErrMissingField)
	}

	switch env.Type {
	case KindJoin:
		if env.RoomID == "" {
			return nil, fmt.Errorf("%w: roomId", ErrMissingField)
		}
		return Join{RoomID: env.RoomID}, nil

	case KindRoomJoined:
		if env.RoomID == "" || env.Role == "" || env.Players == nil {
			return nil, fmt.Errorf("%w: roomId, role and players", ErrMissingField)
		}
		return RoomJoined{RoomID: env.RoomID, Role: env.Role, Players: *env.Players}, nil

	case KindPlayers:
		var p playersPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		return Players{RoomID: env.RoomID, Count: p.Players}, nil

	case KindStartMatch:
		var p seedPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if p.Seed == "" {
			return nil, fmt.Errorf("%w: payload.seed", ErrMissingField)
		}
		return StartMatch{RoomID: env.RoomID, Seed: p.Seed}, nil

	case KindFlip:
		payload := env.Payload
		if len(payload) == 0 || string(payload) == "null" {
			payload = emptyPayload
		}
		return Flip{RoomID: env.RoomID, Payload: payload}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload", ErrMissingField)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}
	return nil
}

// Encode renders a message in wire form.
func Encode(m Message) ([]byte, error) {
	env := envelope{Type: m.Kind()}
	switch msg := m.(type) {
	case Join:
		env.RoomID = msg.RoomID
	case RoomJoined:
		env.RoomID = msg.RoomID
		env.Role = msg.Role
		env.Players = &msg.Players
	case Players:
		env.RoomID = msg.RoomID
		env.Payload = mustPayload(playersPayload{Players: msg.Count})
	case StartMatch:
		env.RoomID = msg.RoomID
		env.Payload = mustPayload(seedPayload{Seed: msg.Seed})
	case Flip:
		env.RoomID = msg.RoomID
		env.Payload = msg.Payload
		if len(env.Payload) == 0 {
			env.Payload = emptyPayload
		}
	default:
		return nil, fmt.Errorf("encode: unsupported message %T", m)
	}
	return json.Marshal(env)
}

func mustPayload(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal payload %T: %v", v, err))
	}
	return data
}
