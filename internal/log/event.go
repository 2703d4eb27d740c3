package log

// EventType enumerates all observable match and room events.
type EventType int

const (
	EventMatchStart EventType = iota
	EventShuffle
	EventFlip
	EventDuelWon
	EventWarDeclared
	EventWarStake
	EventWarDecider
	EventWarStalled
	EventWin
	EventSettle
	EventTurnLimit
	EventRoomJoined
	EventPlayers
	EventStartSignal
	EventFlipSignal
)

func (e EventType) String() string {
	switch e {
	case EventMatchStart:
		return "MatchStart"
	case EventShuffle:
		return "Shuffle"
	case EventFlip:
		return "Flip"
	case EventDuelWon:
		return "DuelWon"
	case EventWarDeclared:
		return "WarDeclared"
	case EventWarStake:
		return "WarStake"
	case EventWarDecider:
		return "WarDecider"
	case EventWarStalled:
		return "WarStalled"
	case EventWin:
		return "Win"
	case EventSettle:
		return "Settle"
	case EventTurnLimit:
		return "TurnLimit"
	case EventRoomJoined:
		return "RoomJoined"
	case EventPlayers:
		return "Players"
	case EventStartSignal:
		return "StartSignal"
	case EventFlipSignal:
		return "FlipSignal"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match or room.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // flip number (1-based, 0 outside a match)
	Stage   string    // "Duel", "War", "Room" or empty
	Side    string    // "player", "opponent" or empty
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}
