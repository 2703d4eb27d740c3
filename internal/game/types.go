package game

// --- Enums ---

// Side identifies one half of a match. The zero value means no side.
type Side string

const (
	SideNone     Side = ""
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusPlaying      Status = "playing"
	StatusPlayerWins   Status = "player_wins"
	StatusOpponentWins Status = "opponent_wins"
	StatusSettling     Status = "settling"
)

// Winner returns the side a terminal status names, or SideNone.
func (s Status) Winner() Side {
	switch s {
	case StatusPlayerWins:
		return SidePlayer
	case StatusOpponentWins:
		return SideOpponent
	default:
		return SideNone
	}
}

// --- Cards ---

// Card is a single playable card. Cards are values and never change once built.
type Card struct {
	ID    string `json:"assetId" yaml:"id"`
	Image string `json:"imageUri" yaml:"image"`
	Name  string `json:"name,omitempty" yaml:"name"`
	Power int    `json:"power" yaml:"power"`
}

// Label returns the display name, falling back to the ID.
func (c Card) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Hand is an ordered run of cards; index 0 plays next.
type Hand []Card

// Pile is the set of cards at stake in the current duel or war.
type Pile []Card

// DuelResult records one resolved flip.
type DuelResult struct {
	PlayerCard   Card `json:"playerCard"`
	OpponentCard Card `json:"opponentCard"`
	Winner       Side `json:"winner"`
	PileSize     int  `json:"pileSize"`
}

// GameState is the complete state of one match as computed by one side.
type GameState struct {
	MatchID       string       `json:"matchId"`
	PlayerHand    Hand         `json:"playerHand"`
	OpponentHand  Hand         `json:"opponentHand"`
	Pile          Pile         `json:"currentPile"`
	InWar         bool         `json:"inWar"`
	WarStakeCount int          `json:"warStakeCount"`
	DuelHistory   []DuelResult `json:"duelHistory"`
	Status        Status       `json:"status"`
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	c := *s
	c.PlayerHand = append(make(Hand, 0, len(s.PlayerHand)), s.PlayerHand...)
	c.OpponentHand = append(make(Hand, 0, len(s.OpponentHand)), s.OpponentHand...)
	c.Pile = append(make(Pile, 0, len(s.Pile)), s.Pile...)
	c.DuelHistory = append(make([]DuelResult, 0, len(s.DuelHistory)), s.DuelHistory...)
	return &c
}

// CardCount returns the number of cards across both hands and the pile.
func (s *GameState) CardCount() int {
	return len(s.PlayerHand) + len(s.OpponentHand) + len(s.Pile)
}

// DuelsWon counts the duels in history won by the given side.
func (s *GameState) DuelsWon(side Side) int {
	n := 0
	for _, d := range s.DuelHistory {
		if d.Winner == side {
			n++
		}
	}
	return n
}

// hand returns a pointer to the hand belonging to side.
func (s *GameState) hand(side Side) *Hand {
	if side == SidePlayer {
		return &s.PlayerHand
	}
	return &s.OpponentHand
}
