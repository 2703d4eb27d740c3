package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/peterkuimelis/royale/internal/game"
	"github.com/peterkuimelis/royale/internal/log"
)

// EventView is one match event as presented in tool responses.
type EventView struct {
	Turn    int    `json:"turn"`
	Stage   string `json:"stage,omitempty"`
	Side    string `json:"side,omitempty"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

// StateView summarizes the match from the player side.
type StateView struct {
	MatchID       string           `json:"match_id"`
	Seed          string           `json:"seed"`
	Status        game.Status      `json:"status"`
	Flips         int              `json:"flips"`
	PlayerCards   int              `json:"player_cards"`
	OpponentCards int              `json:"opponent_cards"`
	PileSize      int              `json:"pile_size"`
	InWar         bool             `json:"in_war"`
	PlayerDuels   int              `json:"player_duels"`
	OpponentDuels int              `json:"opponent_duels"`
	NextPlayer    *game.Card       `json:"next_player_card,omitempty"`
	NextOpponent  *game.Card       `json:"next_opponent_card,omitempty"`
	LastDuel      *game.DuelResult `json:"last_duel,omitempty"`
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []EventView   `json:"events"`
	State    *StateView    `json:"state,omitempty"`
	Flipped  int           `json:"flipped"`
	GameOver bool          `json:"game_over"`
	Winner   game.Side     `json:"winner,omitempty"`
	Result   game.Status   `json:"result,omitempty"`
	Outcome  *game.Outcome `json:"outcome,omitempty"`
}

// SessionConfig selects the decks for a new session. Deck numbers index the
// deck file; when both are zero the decks are derived from Seed.
type SessionConfig struct {
	Seed         string
	DeckSize     int
	DecksFile    string
	PlayerDeck   int
	OpponentDeck int
	Rules        game.Config
}

// MatchSession holds one local match driven through MCP tools.
type MatchSession struct {
	mu       sync.Mutex
	match    *game.Match
	logger   *log.MemoryLogger
	cursor   int // events already returned
	ledger   *ledger
	lastDuel *game.DuelResult
}

// NewMatchSession deals a new match.
func NewMatchSession(cfg SessionConfig) (*MatchSession, error) {
	rules := cfg.Rules
	if cfg.DeckSize > 0 {
		rules.DeckSize = cfg.DeckSize
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == "" {
		seed = game.NewSeed()
	}
	logger := log.NewMemoryLogger()
	sess := &MatchSession{logger: logger, ledger: &ledger{}}

	if cfg.PlayerDeck == 0 && cfg.OpponentDeck == 0 {
		sess.match = game.NewSeededMatch("", seed, rules, logger)
		return sess, nil
	}

	if cfg.PlayerDeck < 1 || cfg.OpponentDeck < 1 {
		return nil, errors.New("player_deck and opponent_deck must both be >= 1")
	}
	_, player, err := game.DeckByNumber(cfg.DecksFile, cfg.PlayerDeck, rules)
	if err != nil {
		return nil, fmt.Errorf("load player deck: %w", err)
	}
	_, opponent, err := game.DeckByNumber(cfg.DecksFile, cfg.OpponentDeck, rules)
	if err != nil {
		return nil, fmt.Errorf("load opponent deck: %w", err)
	}
	sess.match = game.NewMatch(game.MatchConfig{
		Seed:         seed,
		PlayerDeck:   player,
		OpponentDeck: opponent,
		Rules:        rules,
		Logger:       logger,
	})
	return sess, nil
}

// Over reports whether the match has finished.
func (s *MatchSession) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Over()
}

// Flip plays up to count turns, stopping early when the match ends.
func (s *MatchSession) Flip(count int) *ToolResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	played := 0
	for ; played < count && !s.match.Over(); played++ {
		if duel := s.match.Flip(); duel != nil {
			s.lastDuel = duel
		}
	}
	resp := s.respond()
	resp.Flipped = played
	return resp
}

// Snapshot returns the current state and any events not yet reported.
func (s *MatchSession) Snapshot() *ToolResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.respond()
}

// Settle hands the finished match to settlement and records the outcome.
func (s *MatchSession) Settle(ctx context.Context) (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.match.Settle(ctx, s.ledger)
	if err != nil {
		return nil, err
	}
	resp := s.respond()
	resp.Outcome = &outcome
	return resp, nil
}

// Settled returns the outcomes handed to settlement so far.
func (s *MatchSession) Settled() []game.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.Outcome(nil), s.ledger.outcomes...)
}

// ledger is the in-process settler: it records outcomes and refuses to pay
// the same match twice.
type ledger struct {
	outcomes []game.Outcome
}

var errAlreadySettled = errors.New("match already settled")

func (l *ledger) Settle(ctx context.Context, outcome game.Outcome) error {
	for _, o := range l.outcomes {
		if o.MatchID == outcome.MatchID {
			return errAlreadySettled
		}
	}
	l.outcomes = append(l.outcomes, outcome)
	return nil
}

func (s *MatchSession) respond() *ToolResponse {
	m := s.match
	resp := &ToolResponse{
		Events:   s.drainEvents(),
		State:    s.stateView(),
		GameOver: m.Over(),
	}
	if resp.GameOver {
		resp.Result = m.Result()
		resp.Winner = resp.Result.Winner()
	}
	return resp
}

// drainEvents returns the events logged since the previous call.
func (s *MatchSession) drainEvents() []EventView {
	events := s.logger.Events()
	views := []EventView{}
	for _, e := range events[min(s.cursor, len(events)):] {
		views = append(views, EventView{
			Turn:    e.Turn,
			Stage:   e.Stage,
			Side:    e.Side,
			Type:    e.Type.String(),
			Details: e.Details,
		})
	}
	s.cursor = len(events)
	return views
}

func (s *MatchSession) stateView() *StateView {
	st := s.match.State
	sv := &StateView{
		MatchID:       st.MatchID,
		Seed:          s.match.Seed,
		Status:        st.Status,
		Flips:         s.match.Flips(),
		PlayerCards:   len(st.PlayerHand),
		OpponentCards: len(st.OpponentHand),
		PileSize:      len(st.Pile),
		InWar:         st.InWar,
		PlayerDuels:   st.DuelsWon(game.SidePlayer),
		OpponentDuels: st.DuelsWon(game.SideOpponent),
		LastDuel:      s.lastDuel,
	}
	if len(st.PlayerHand) > 0 {
		c := st.PlayerHand[0]
		sv.NextPlayer = &c
	}
	if len(st.OpponentHand) > 0 {
		c := st.OpponentHand[0]
		sv.NextOpponent = &c
	}
	return sv
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
