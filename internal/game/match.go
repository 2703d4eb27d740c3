package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/peterkuimelis/royale/internal/log"
)

// ErrMatchInProgress is returned when settling a match that can still advance.
var ErrMatchInProgress = errors.New("match still in progress")

// Settler hands a finished match to whatever moves the rewards.
type Settler interface {
	Settle(ctx context.Context, outcome Outcome) error
}

// Outcome is everything the settlement boundary learns about a match.
type Outcome struct {
	MatchID       string       `json:"matchId"`
	Result        Status       `json:"result"`
	Winner        Side         `json:"winner"`
	Duels         []DuelResult `json:"duels"`
	PlayerCards   int          `json:"playerCards"`
	OpponentCards int          `json:"opponentCards"`
}

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	ID           string // match ID (generated when empty)
	Seed         string // shuffle seed (generated when empty)
	PlayerDeck   Hand
	OpponentDeck Hand
	Rules        Config
	Logger       log.EventLogger
}

// Match drives one game from deal to settlement.
type Match struct {
	State  *GameState
	Engine *Engine
	Logger log.EventLogger
	Seed   string

	flips  int
	result Status // terminal status, kept once the state moves to settling
}

// NewMatch deals a new match from the given config.
func NewMatch(cfg MatchConfig) *Match {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	id := cfg.ID
	if id == "" {
		id = "match-" + uuid.NewString()
	}
	seed := cfg.Seed
	if seed == "" {
		seed = NewSeed()
	}

	engine := NewEngine(cfg.Rules, NewSeededGenerator(seed))
	m := &Match{
		State:  engine.CreateGameState(id, cfg.PlayerDeck, cfg.OpponentDeck),
		Engine: engine,
		Logger: logger,
		Seed:   seed,
	}

	m.log(log.NewMatchStartEvent(id, len(cfg.PlayerDeck), len(cfg.OpponentDeck)))
	m.log(log.NewShuffleEvent(string(SidePlayer), len(m.State.PlayerHand)))
	m.log(log.NewShuffleEvent(string(SideOpponent), len(m.State.OpponentHand)))
	return m
}

// NewSeededMatch builds the match a room plays for a seed: the host holds the
// player side and the guest the opponent side, on every client.
func NewSeededMatch(id, seed string, rules Config, logger log.EventLogger) *Match {
	host, guest := SeededDecks(seed, rules)
	return NewMatch(MatchConfig{
		ID:           id,
		Seed:         seed,
		PlayerDeck:   host,
		OpponentDeck: guest,
		Rules:        rules,
		Logger:       logger,
	})
}

// Flips returns the number of flips that drew cards so far.
func (m *Match) Flips() int {
	return m.flips
}

// Over reports whether the match can no longer advance.
func (m *Match) Over() bool {
	return IsGameOver(m.State)
}

// Flip plays one turn and logs what happened.
func (m *Match) Flip() *DuelResult {
	prev := m.State
	next, duel := m.Engine.PlayTurn(prev)
	m.State = next

	if len(prev.PlayerHand) > 0 && len(prev.OpponentHand) > 0 && prev.Status == StatusPlaying {
		m.flips++
		m.logFlip(prev, next, duel)
	}
	if prev.Status == StatusPlaying && next.Status != StatusPlaying {
		m.log(log.NewWinEvent(m.flips, string(next.Status.Winner()), winReason(next)))
	}
	return duel
}

func (m *Match) logFlip(prev, next *GameState, duel *DuelResult) {
	p, o := prev.PlayerHand[0], prev.OpponentHand[0]
	m.log(log.NewFlipEvent(m.flips, p.Label(), p.Power, o.Label(), o.Power))

	stage := "Duel"
	if p.Power == o.Power {
		stage = "War"
		m.log(log.NewWarDeclaredEvent(m.flips, p.Power, len(prev.Pile)+2))
		staked := m.Engine.Config().WarStakeCount
		if duel == nil {
			m.log(log.NewWarStalledEvent(m.flips, len(next.Pile)))
			return
		}
		m.log(log.NewWarStakeEvent(m.flips, staked, duel.PileSize-2))
		m.log(log.NewWarDeciderEvent(m.flips, duel.PlayerCard.Label(), duel.PlayerCard.Power,
			duel.OpponentCard.Label(), duel.OpponentCard.Power))
	}
	if duel == nil {
		return
	}

	card := duel.PlayerCard
	if duel.Winner == SideOpponent {
		card = duel.OpponentCard
	}
	m.log(log.NewDuelWonEvent(m.flips, stage, string(duel.Winner), card.Label(), card.Power, duel.PileSize))
}

// Run flips until the match is over, the context is cancelled, or the
// MaxTurns safety limit is reached. At the limit the side with more duel wins
// takes the match.
func (m *Match) Run(ctx context.Context) (Status, error) {
	for !m.Over() {
		if limit := m.Engine.Config().MaxTurns; limit > 0 && m.flips >= limit {
			next := m.State.Clone()
			next.Status = statusByDuels(next)
			m.State = next
			m.log(log.NewTurnLimitEvent(m.flips))
			m.log(log.NewWinEvent(m.flips, string(next.Status.Winner()), "turn limit"))
			break
		}
		m.Flip()
		if err := ctx.Err(); err != nil {
			return m.State.Status, err
		}
	}
	return m.State.Status, nil
}

// Result returns the terminal status, or StatusPlaying while the match runs.
// A match whose hand ran out is reported by the side still holding cards.
func (m *Match) Result() Status {
	if m.result != "" {
		return m.result
	}
	s := m.State
	if s.Status != StatusPlaying {
		return s.Status
	}
	if !IsGameOver(s) {
		return StatusPlaying
	}
	probe := s.Clone()
	settle(probe)
	return probe.Status
}

// Outcome summarizes the match for the settlement boundary.
func (m *Match) Outcome() Outcome {
	result := m.Result()
	return Outcome{
		MatchID:       m.State.MatchID,
		Result:        result,
		Winner:        result.Winner(),
		Duels:         append([]DuelResult(nil), m.State.DuelHistory...),
		PlayerCards:   len(m.State.PlayerHand),
		OpponentCards: len(m.State.OpponentHand),
	}
}

// Settle marks a finished match as settling and hands its outcome to s.
// A nil settler only records the transition.
func (m *Match) Settle(ctx context.Context, s Settler) (Outcome, error) {
	if !m.Over() {
		return Outcome{}, ErrMatchInProgress
	}
	outcome := m.Outcome()
	if m.State.Status != StatusSettling {
		m.result = outcome.Result
		next := m.State.Clone()
		next.Status = StatusSettling
		m.State = next
		m.log(log.NewSettleEvent(m.flips, outcome.MatchID, string(outcome.Result)))
	}
	if s == nil {
		return outcome, nil
	}
	if err := s.Settle(ctx, outcome); err != nil {
		return outcome, fmt.Errorf("settle %s: %w", outcome.MatchID, err)
	}
	return outcome, nil
}

func (m *Match) log(event log.GameEvent) {
	m.Logger.Log(event)
}

func winReason(s *GameState) string {
	switch {
	case len(s.PlayerHand) == 0 && len(s.OpponentHand) == 0:
		return fmt.Sprintf("both hands empty, duels %d-%d", s.DuelsWon(SidePlayer), s.DuelsWon(SideOpponent))
	case len(s.OpponentHand) == 0:
		return "opponent ran out of cards"
	case len(s.PlayerHand) == 0:
		return "player ran out of cards"
	default:
		return fmt.Sprintf("duels %d-%d", s.DuelsWon(SidePlayer), s.DuelsWon(SideOpponent))
	}
}
