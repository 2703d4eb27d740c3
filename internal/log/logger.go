package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging match and room events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	events := l.Events()
	if len(events) == 0 {
		return GameEvent{}
	}
	return events[len(events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	stage := e.Stage
	// Pad stage to 6 chars for alignment
	for len(stage) < 6 {
		stage += " "
	}
	return fmt.Sprintf("T%-3d %s| %s", e.Turn, stage, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewMatchStartEvent(matchID string, playerCards, opponentCards int) GameEvent {
	return GameEvent{
		Type:    EventMatchStart,
		Details: fmt.Sprintf("=== Match %s (%d vs %d cards) ===", matchID, playerCards, opponentCards),
	}
}

func NewShuffleEvent(side string, cards int) GameEvent {
	return GameEvent{
		Side:    side,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffled %d cards", side, cards),
	}
}

func NewFlipEvent(turn int, playerCard string, playerPower int, opponentCard string, opponentPower int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Stage:   "Duel",
		Type:    EventFlip,
		Details: fmt.Sprintf("player flips %s (%d), opponent flips %s (%d)", playerCard, playerPower, opponentCard, opponentPower),
	}
}

func NewDuelWonEvent(turn int, stage, side, card string, power, pileSize int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Stage:   stage,
		Side:    side,
		Type:    EventDuelWon,
		Card:    card,
		Details: fmt.Sprintf("%s wins with %s (%d) and takes %d cards", side, card, power, pileSize),
	}
}

func NewWarDeclaredEvent(turn int, power, pileSize int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Stage:   "War",
		Type:    EventWarDeclared,
		Details: fmt.Sprintf("Royale War! both played power %d, %d cards at stake", power, pileSize),
	}
}

func NewWarStakeEvent(turn int, pairs, pileSize int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Stage:   "War",
		Type:    EventWarStake,
		Details: fmt.Sprintf("%d card pairs staked face down (pile %d)", pairs, pileSize),
	}
}

func NewWarDeciderEvent(turn int, playerCard string, playerPower int, opponentCard string, opponentPower int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Stage:   "War",
		Type:    EventWarDecider,
		Details: fmt.Sprintf("decider: player %s (%d) vs opponent %s (%d)", playerCard, playerPower, opponentCard, opponentPower),
	}
}

func NewWarStalledEvent(turn int, pileSize int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Stage:   "War",
		Type:    EventWarStalled,
		Details: fmt.Sprintf("a hand ran out mid-war, %d cards left in the pile", pileSize),
	}
}

func NewWinEvent(turn int, side string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Side:    side,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", side, reason),
	}
}

func NewSettleEvent(turn int, matchID, result string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventSettle,
		Details: fmt.Sprintf("match %s handed to settlement (%s)", matchID, result),
	}
}

func NewTurnLimitEvent(turn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Type:    EventTurnLimit,
		Details: fmt.Sprintf("turn limit reached (%d flips)", turn),
	}
}

func NewRoomJoinedEvent(roomID, role string, players int) GameEvent {
	return GameEvent{
		Stage:   "Room",
		Type:    EventRoomJoined,
		Details: fmt.Sprintf("joined room %s as %s (%d connected)", roomID, role, players),
	}
}

func NewPlayersEvent(roomID string, players int) GameEvent {
	return GameEvent{
		Stage:   "Room",
		Type:    EventPlayers,
		Details: fmt.Sprintf("room %s now has %d connected", roomID, players),
	}
}

func NewStartSignalEvent(roomID, seed string) GameEvent {
	return GameEvent{
		Stage:   "Room",
		Type:    EventStartSignal,
		Details: fmt.Sprintf("room %s starts a match with seed %q", roomID, seed),
	}
}

func NewFlipSignalEvent(roomID string) GameEvent {
	return GameEvent{
		Stage:   "Room",
		Type:    EventFlipSignal,
		Details: fmt.Sprintf("room %s flips", roomID),
	}
}
