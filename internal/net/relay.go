package net

import (
	"context"
	"errors"
	stdlog "log"
	"os"
)

// Conn is one relay-side connection. Send must not block: a connection that
// cannot take a message right now drops it.
type Conn interface {
	ID() string
	Send(data []byte)
}

type eventKind int

const (
	eventConnect eventKind = iota
	eventMessage
	eventDisconnect
)

type event struct {
	kind eventKind
	conn Conn
	data []byte
}

// peer tracks which room a connection has joined.
type peer struct {
	conn   Conn
	roomID string
}

// Relay forwards match signals between the members of a room without
// interpreting them. All state changes happen on the goroutine running Run,
// so message handling is serialized and the registry needs no locking.
type Relay struct {
	rooms  *Registry
	peers  map[string]*peer
	events chan event
	done   chan struct{}
	debug  bool
}

// NewRelay creates a relay over the given registry.
func NewRelay(rooms *Registry) *Relay {
	return &Relay{
		rooms:  rooms,
		peers:  make(map[string]*peer),
		events: make(chan event, 256),
		done:   make(chan struct{}),
		debug:  os.Getenv("DEBUG") != "",
	}
}

// Rooms returns the registry the relay mutates. Only read it from the relay
// goroutine or after Run has returned.
func (r *Relay) Rooms() *Registry {
	return r.rooms
}

// Run processes connection events until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			switch ev.kind {
			case eventConnect:
				r.HandleConnect(ev.conn)
			case eventMessage:
				r.HandleMessage(ev.conn, ev.data)
			case eventDisconnect:
				r.HandleDisconnect(ev.conn)
			}
		}
	}
}

// Connect queues a new connection for the relay loop.
func (r *Relay) Connect(c Conn) error {
	return r.enqueue(event{kind: eventConnect, conn: c})
}

// Receive queues an inbound message for the relay loop.
func (r *Relay) Receive(c Conn, data []byte) error {
	return r.enqueue(event{kind: eventMessage, conn: c, data: data})
}

// Disconnect queues a connection's departure for the relay loop.
func (r *Relay) Disconnect(c Conn) error {
	return r.enqueue(event{kind: eventDisconnect, conn: c})
}

// ErrRelayStopped is returned when events arrive after Run has exited.
var ErrRelayStopped = errors.New("relay stopped")

func (r *Relay) enqueue(ev event) error {
	select {
	case <-r.done:
		return ErrRelayStopped
	default:
	}
	select {
	case r.events <- ev:
		return nil
	case <-r.done:
		return ErrRelayStopped
	}
}

// HandleConnect registers a connection. Must be called from the relay goroutine.
func (r *Relay) HandleConnect(c Conn) {
	if _, ok := r.peers[c.ID()]; !ok {
		r.peers[c.ID()] = &peer{conn: c}
	}
}

// HandleMessage processes one inbound message. Malformed input, unknown
// types and anything sent before a join are dropped without a reply. Must be
// called from the relay goroutine.
func (r *Relay) HandleMessage(c Conn, data []byte) {
	r.HandleConnect(c)
	p := r.peers[c.ID()]

	msg, err := Decode(data)
	if err != nil {
		r.debugf("drop from %s: %v", c.ID(), err)
		return
	}

	switch m := msg.(type) {
	case Join:
		r.join(p, m.RoomID)
	case StartMatch:
		if p.roomID == "" {
			r.debugf("drop start_match from %s: not in a room", c.ID())
			return
		}
		r.rooms.SetSeed(p.roomID, m.Seed)
		r.broadcast(p.roomID, StartMatch{RoomID: p.roomID, Seed: m.Seed})
	case Flip:
		if p.roomID == "" {
			r.debugf("drop flip from %s: not in a room", c.ID())
			return
		}
		r.broadcast(p.roomID, Flip{RoomID: p.roomID, Payload: m.Payload})
	default:
		r.debugf("drop %s from %s: relay-only message", msg.Kind(), c.ID())
	}
}

// HandleDisconnect removes a connection and updates its room. Must be called
// from the relay goroutine.
func (r *Relay) HandleDisconnect(c Conn) {
	p, ok := r.peers[c.ID()]
	if !ok {
		return
	}
	delete(r.peers, c.ID())
	if p.roomID != "" {
		r.leave(p)
	}
}

func (r *Relay) join(p *peer, roomID string) {
	if p.roomID != "" && p.roomID != roomID {
		r.leave(p)
	}

	room, role := r.rooms.Join(roomID, p.conn.ID())
	p.roomID = roomID
	count := len(room.members)
	stdlog.Printf("relay: %s joined room %s as %s (%d connected)", p.conn.ID(), roomID, role, count)

	r.send(p.conn, RoomJoined{RoomID: roomID, Role: role, Players: count})
	if seed := room.Seed(); seed != "" {
		r.send(p.conn, StartMatch{RoomID: roomID, Seed: seed})
	}
	r.broadcast(roomID, Players{RoomID: roomID, Count: count})
}

func (r *Relay) leave(p *peer) {
	roomID := p.roomID
	p.roomID = ""
	remaining, destroyed := r.rooms.Leave(roomID, p.conn.ID())
	if destroyed {
		stdlog.Printf("relay: room %s closed", roomID)
		return
	}
	stdlog.Printf("relay: %s left room %s (%d connected)", p.conn.ID(), roomID, remaining)
	r.broadcast(roomID, Players{RoomID: roomID, Count: remaining})
}

func (r *Relay) send(c Conn, msg Message) {
	data, err := Encode(msg)
	if err != nil {
		stdlog.Printf("relay: encode %s: %v", msg.Kind(), err)
		return
	}
	c.Send(data)
}

func (r *Relay) broadcast(roomID string, msg Message) {
	data, err := Encode(msg)
	if err != nil {
		stdlog.Printf("relay: encode %s: %v", msg.Kind(), err)
		return
	}
	for _, id := range r.rooms.Members(roomID) {
		if p, ok := r.peers[id]; ok {
			p.conn.Send(data)
		}
	}
}

func (r *Relay) debugf(format string, args ...any) {
	if r.debug {
		stdlog.Printf("relay: "+format, args...)
	}
}
