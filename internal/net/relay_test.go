package net

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id   string
	sent [][]byte
}

func (c *fakeConn) ID() string        { return c.id }
func (c *fakeConn) Send(data []byte) { c.sent = append(c.sent, data) }

// messages decodes everything sent so far and clears the buffer.
func (c *fakeConn) messages(t *testing.T) []Message {
	t.Helper()
	var out []Message
	for _, data := range c.sent {
		msg, err := Decode(data)
		require.NoError(t, err, "relay sent undecodable %s", data)
		out = append(out, msg)
	}
	c.sent = nil
	return out
}

func send(t *testing.T, r *Relay, c Conn, m Message) {
	t.Helper()
	data, err := Encode(m)
	require.NoError(t, err)
	r.HandleMessage(c, data)
}

func TestJoinAssignsHostThenGuest(t *testing.T) {
	r := NewRelay(NewRegistry())
	host := &fakeConn{id: "a"}
	guest := &fakeConn{id: "b"}

	send(t, r, host, Join{RoomID: "room"})
	assert.Equal(t, []Message{
		RoomJoined{RoomID: "room", Role: RoleHost, Players: 1},
		Players{RoomID: "room", Count: 1},
	}, host.messages(t))

	send(t, r, guest, Join{RoomID: "room"})
	assert.Equal(t, []Message{
		RoomJoined{RoomID: "room", Role: RoleGuest, Players: 2},
		Players{RoomID: "room", Count: 2},
	}, guest.messages(t))
	assert.Equal(t, []Message{Players{RoomID: "room", Count: 2}}, host.messages(t))
}

func TestSpectatorReceivesSignals(t *testing.T) {
	r := NewRelay(NewRegistry())
	host, guest, watcher := &fakeConn{id: "a"}, &fakeConn{id: "b"}, &fakeConn{id: "c"}
	for _, c := range []*fakeConn{host, guest, watcher} {
		send(t, r, c, Join{RoomID: "room"})
	}
	msgs := watcher.messages(t)
	require.NotEmpty(t, msgs)
	assert.Equal(t, RoomJoined{RoomID: "room", Role: RoleSpectator, Players: 3}, msgs[0])
	host.messages(t)
	guest.messages(t)

	send(t, r, guest, Flip{})
	want := []Message{Flip{RoomID: "room", Payload: json.RawMessage(`{}`)}}
	assert.Equal(t, want, host.messages(t))
	assert.Equal(t, want, guest.messages(t))
	assert.Equal(t, want, watcher.messages(t))
}

func TestStartMatchIsStoredForLateJoiners(t *testing.T) {
	r := NewRelay(NewRegistry())
	host, guest := &fakeConn{id: "a"}, &fakeConn{id: "b"}

	send(t, r, host, Join{RoomID: "room"})
	send(t, r, host, StartMatch{Seed: "s1"})
	host.messages(t)

	seed, ok := r.Rooms().Get("room")
	require.True(t, ok)
	assert.Equal(t, "s1", seed.Seed())

	send(t, r, guest, Join{RoomID: "room"})
	assert.Equal(t, []Message{
		RoomJoined{RoomID: "room", Role: RoleGuest, Players: 2},
		StartMatch{RoomID: "room", Seed: "s1"},
		Players{RoomID: "room", Count: 2},
	}, guest.messages(t))
}

func TestFlipPayloadRelayedVerbatim(t *testing.T) {
	r := NewRelay(NewRegistry())
	host, guest := &fakeConn{id: "a"}, &fakeConn{id: "b"}
	send(t, r, host, Join{RoomID: "room"})
	send(t, r, guest, Join{RoomID: "room"})
	host.messages(t)
	guest.messages(t)

	r.HandleMessage(host, []byte(`{"type":"flip","roomId":"elsewhere","payload":{"n":1}}`))
	msgs := guest.messages(t)
	require.Len(t, msgs, 1)
	flip := msgs[0].(Flip)
	assert.Equal(t, "room", flip.RoomID, "relay routes by the joined room")
	assert.JSONEq(t, `{"n":1}`, string(flip.Payload))
}

func TestDisconnectUpdatesAndDestroysRoom(t *testing.T) {
	r := NewRelay(NewRegistry())
	host, guest := &fakeConn{id: "a"}, &fakeConn{id: "b"}
	send(t, r, host, Join{RoomID: "room"})
	send(t, r, guest, Join{RoomID: "room"})
	host.messages(t)
	guest.messages(t)

	r.HandleDisconnect(host)
	assert.Equal(t, []Message{Players{RoomID: "room", Count: 1}}, guest.messages(t))
	assert.Empty(t, host.messages(t))

	r.HandleDisconnect(guest)
	assert.Equal(t, 0, r.Rooms().Len())

	// The next joiner starts a fresh room as host.
	late := &fakeConn{id: "c"}
	send(t, r, late, Join{RoomID: "room"})
	msgs := late.messages(t)
	require.NotEmpty(t, msgs)
	assert.Equal(t, RoomJoined{RoomID: "room", Role: RoleHost, Players: 1}, msgs[0])
}

func TestRejoinKeepsGuestRoleAfterHostDisconnects(t *testing.T) {
	r := NewRelay(NewRegistry())
	host, guest := &fakeConn{id: "a"}, &fakeConn{id: "b"}
	send(t, r, host, Join{RoomID: "room"})
	send(t, r, guest, Join{RoomID: "room"})
	r.HandleDisconnect(host)
	guest.messages(t)

	send(t, r, guest, Join{RoomID: "room"})
	assert.Equal(t, []Message{
		RoomJoined{RoomID: "room", Role: RoleGuest, Players: 1},
		Players{RoomID: "room", Count: 1},
	}, guest.messages(t))
}

func TestJoiningAnotherRoomLeavesTheFirst(t *testing.T) {
	r := NewRelay(NewRegistry())
	a, b := &fakeConn{id: "a"}, &fakeConn{id: "b"}
	send(t, r, a, Join{RoomID: "one"})
	send(t, r, b, Join{RoomID: "one"})
	a.messages(t)
	b.messages(t)

	send(t, r, b, Join{RoomID: "two"})
	assert.Equal(t, []Message{Players{RoomID: "one", Count: 1}}, a.messages(t))
	assert.Equal(t, []Message{
		RoomJoined{RoomID: "two", Role: RoleHost, Players: 1},
		Players{RoomID: "two", Count: 1},
	}, b.messages(t))
	assert.Equal(t, []string{"a"}, r.Rooms().Members("one"))
}

func TestInvalidInputIsDropped(t *testing.T) {
	r := NewRelay(NewRegistry())
	a, b := &fakeConn{id: "a"}, &fakeConn{id: "b"}

	// Before joining.
	send(t, r, a, Flip{})
	send(t, r, a, StartMatch{Seed: "s"})
	assert.Empty(t, a.messages(t))
	assert.Equal(t, 0, r.Rooms().Len())

	send(t, r, a, Join{RoomID: "room"})
	send(t, r, b, Join{RoomID: "room"})
	a.messages(t)
	b.messages(t)

	for _, raw := range []string{
		`not json`,
		`{"type":"teleport","roomId":"room"}`,
		`{"type":"join"}`,
		`{"type":"start_match","roomId":"room","payload":{}}`,
		`{"type":"players","roomId":"room","payload":{"players":9}}`,
		`{"roomId":"room"}`,
	} {
		r.HandleMessage(a, []byte(raw))
	}
	assert.Empty(t, a.messages(t))
	assert.Empty(t, b.messages(t))
	room, _ := r.Rooms().Get("room")
	assert.Equal(t, "", room.Seed())
}

type chanConn struct {
	id  string
	out chan []byte
}

func (c *chanConn) ID() string        { return c.id }
func (c *chanConn) Send(data []byte) { c.out <- data }

func (c *chanConn) next(t *testing.T) Message {
	t.Helper()
	select {
	case data := <-c.out:
		msg, err := Decode(data)
		require.NoError(t, err)
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("%s: no message from relay", c.id)
		return nil
	}
}

func TestRunProcessesQueuedEvents(t *testing.T) {
	r := NewRelay(NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	a := &chanConn{id: "a", out: make(chan []byte, 8)}
	b := &chanConn{id: "b", out: make(chan []byte, 8)}
	join, err := Encode(Join{RoomID: "room"})
	require.NoError(t, err)

	require.NoError(t, r.Connect(a))
	require.NoError(t, r.Receive(a, join))
	assert.Equal(t, RoomJoined{RoomID: "room", Role: RoleHost, Players: 1}, a.next(t))
	assert.Equal(t, Players{RoomID: "room", Count: 1}, a.next(t))

	require.NoError(t, r.Connect(b))
	require.NoError(t, r.Receive(b, join))
	assert.Equal(t, RoomJoined{RoomID: "room", Role: RoleGuest, Players: 2}, b.next(t))
	assert.Equal(t, Players{RoomID: "room", Count: 2}, a.next(t))

	require.NoError(t, r.Disconnect(a))
	b.next(t) // players 2 from its own join
	assert.Equal(t, Players{RoomID: "room", Count: 1}, b.next(t))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	assert.ErrorIs(t, r.Connect(a), ErrRelayStopped)
}
