package net

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coder/websocket"
	"github.com/peterkuimelis/royale/internal/game"
	"github.com/peterkuimelis/royale/internal/log"
)

// Client follows a relay room and replays its matches locally. Every client
// in a room runs its own engine from the shared seed, so only start and flip
// signals cross the wire.
type Client struct {
	RoomID  string
	Role    Role
	Players int
	Match   *game.Match

	rules  game.Config
	out    io.Writer
	logger *log.TextLogger
	send   func(Message) error
}

// NewClient creates a client that prints to out and transmits through send.
func NewClient(roomID string, rules game.Config, out io.Writer, send func(Message) error) *Client {
	return &Client{
		RoomID: roomID,
		rules:  rules,
		out:    out,
		logger: log.NewTextLogger(out),
		send:   send,
	}
}

// Connect dials a relay, joins a room and runs the REPL until quit, EOF on
// stdin, or the relay closes the connection.
func Connect(ctx context.Context, url, roomID string, rules game.Config) error {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer ws.CloseNow()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inbox := make(chan Message)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, data, err := ws.Read(ctx)
			if err != nil {
				readErr <- err
				return
			}
			msg, err := Decode(data)
			if err != nil {
				continue
			}
			select {
			case inbox <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	c := NewClient(roomID, rules, os.Stdout, func(m Message) error {
		data, err := Encode(m)
		if err != nil {
			return err
		}
		return ws.Write(ctx, websocket.MessageText, data)
	})
	if err := c.send(Join{RoomID: roomID}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}
	fmt.Fprintf(c.out, "Joining room %s...\n", roomID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		case msg := <-inbox:
			c.Handle(msg)
		case line, ok := <-lines:
			if !ok {
				ws.Close(websocket.StatusNormalClosure, "")
				return nil
			}
			quit, err := c.Command(line)
			if err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
			}
			if quit {
				ws.Close(websocket.StatusNormalClosure, "")
				return nil
			}
		}
	}
}

// Handle applies one relay message to the local view.
func (c *Client) Handle(msg Message) {
	switch m := msg.(type) {
	case RoomJoined:
		c.RoomID, c.Role, c.Players = m.RoomID, m.Role, m.Players
		c.logger.Log(log.NewRoomJoinedEvent(m.RoomID, string(m.Role), m.Players))

	case Players:
		c.Players = m.Count
		c.logger.Log(log.NewPlayersEvent(c.RoomID, m.Count))

	case StartMatch:
		c.logger.Log(log.NewStartSignalEvent(c.RoomID, m.Seed))
		c.Match = game.NewSeededMatch(c.RoomID, m.Seed, c.rules, c.logger)
		c.render()

	case Flip:
		c.logger.Log(log.NewFlipSignalEvent(c.RoomID))
		if c.Match == nil || c.Match.Over() {
			return
		}
		c.Match.Flip()
		c.render()
	}
}

// Command runs one REPL line. It reports whether the client should exit.
func (c *Client) Command(line string) (quit bool, err error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return false, nil
	case "start", "s":
		if c.Role == RoleSpectator {
			return false, fmt.Errorf("spectators cannot start a match")
		}
		return false, c.send(StartMatch{RoomID: c.RoomID, Seed: game.NewSeed()})
	case "flip", "f":
		if c.Role == RoleSpectator {
			return false, fmt.Errorf("spectators cannot flip")
		}
		if c.Match == nil {
			return false, fmt.Errorf("no match in progress, type start")
		}
		if c.Match.Over() {
			return false, fmt.Errorf("match is over, type start for a new one")
		}
		return false, c.send(Flip{RoomID: c.RoomID})
	case "quit", "q", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (start, flip, quit)", line)
	}
}

// Perspective returns the hand sizes as seen by this client's role. The
// guest plays the opponent side of the shared match.
func (c *Client) Perspective() (mine, theirs int) {
	if c.Match == nil {
		return 0, 0
	}
	s := c.Match.State
	if c.Role == RoleGuest {
		return len(s.OpponentHand), len(s.PlayerHand)
	}
	return len(s.PlayerHand), len(s.OpponentHand)
}

func (c *Client) render() {
	mine, theirs := c.Perspective()
	s := c.Match.State
	fmt.Fprintf(c.out, "  You: %d  Them: %d  Pile: %d", mine, theirs, len(s.Pile))
	if s.InWar {
		fmt.Fprint(c.out, "  WAR")
	}
	fmt.Fprintln(c.out)

	if !c.Match.Over() {
		return
	}
	winner := c.Match.Result().Winner()
	you := game.SidePlayer
	if c.Role == RoleGuest {
		you = game.SideOpponent
	}
	fmt.Fprintln(c.out, "═══════════════════════════════════")
	switch {
	case c.Role == RoleSpectator:
		fmt.Fprintf(c.out, "          %s WINS\n", hostOrGuest(winner))
	case winner == you:
		fmt.Fprintln(c.out, "          YOU WIN")
	default:
		fmt.Fprintln(c.out, "          YOU LOSE")
	}
	fmt.Fprintln(c.out, "═══════════════════════════════════")
}

func hostOrGuest(side game.Side) string {
	if side == game.SideOpponent {
		return "GUEST"
	}
	return "HOST"
}
