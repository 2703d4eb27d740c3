package net

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRelay(t *testing.T) string {
	t.Helper()
	relay := NewRelay(NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	go relay.Run(ctx)

	srv := httptest.NewServer(NewHandler(relay))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.CloseNow() })
	return ws
}

func write(t *testing.T, ctx context.Context, ws *websocket.Conn, m Message) {
	t.Helper()
	data, err := Encode(m)
	require.NoError(t, err)
	require.NoError(t, ws.Write(ctx, websocket.MessageText, data))
}

func read(t *testing.T, ctx context.Context, ws *websocket.Conn) Message {
	t.Helper()
	_, data, err := ws.Read(ctx)
	require.NoError(t, err)
	msg, err := Decode(data)
	require.NoError(t, err)
	return msg
}

func TestHandlerRelaysBetweenClients(t *testing.T) {
	url := startRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	host := dial(t, ctx, url)
	write(t, ctx, host, Join{RoomID: "table"})
	assert.Equal(t, RoomJoined{RoomID: "table", Role: RoleHost, Players: 1}, read(t, ctx, host))
	assert.Equal(t, Players{RoomID: "table", Count: 1}, read(t, ctx, host))

	guest := dial(t, ctx, url)
	write(t, ctx, guest, Join{RoomID: "table"})
	assert.Equal(t, RoomJoined{RoomID: "table", Role: RoleGuest, Players: 2}, read(t, ctx, guest))
	assert.Equal(t, Players{RoomID: "table", Count: 2}, read(t, ctx, guest))
	assert.Equal(t, Players{RoomID: "table", Count: 2}, read(t, ctx, host))

	write(t, ctx, host, StartMatch{RoomID: "table", Seed: "seed-1"})
	assert.Equal(t, StartMatch{RoomID: "table", Seed: "seed-1"}, read(t, ctx, host))
	assert.Equal(t, StartMatch{RoomID: "table", Seed: "seed-1"}, read(t, ctx, guest))

	write(t, ctx, guest, Flip{RoomID: "table"})
	assert.Equal(t, KindFlip, read(t, ctx, host).Kind())
	assert.Equal(t, KindFlip, read(t, ctx, guest).Kind())

	require.NoError(t, guest.Close(websocket.StatusNormalClosure, ""))
	assert.Equal(t, Players{RoomID: "table", Count: 1}, read(t, ctx, host))
}

func TestHandlerIgnoresGarbage(t *testing.T) {
	url := startRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws := dial(t, ctx, url)
	require.NoError(t, ws.Write(ctx, websocket.MessageText, []byte("garbage")))
	write(t, ctx, ws, Flip{RoomID: "table"})
	write(t, ctx, ws, Join{RoomID: "table"})

	// The first reply is the join acknowledgement; nothing came back for the
	// earlier messages and the connection is still open.
	assert.Equal(t, RoomJoined{RoomID: "table", Role: RoleHost, Players: 1}, read(t, ctx, ws))
}
