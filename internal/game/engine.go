package game

// Shuffler permutes n elements in place. *Generator and *rand.Rand both satisfy it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Engine resolves Royale War turns. It holds no match state of its own; all
// randomness comes from its shuffler, so two engines built from equal seeds
// replay a match identically.
type Engine struct {
	cfg Config
	rng Shuffler
}

// NewEngine creates an engine with the given rules and shuffle source.
func NewEngine(cfg Config, rng Shuffler) *Engine {
	return &Engine{cfg: cfg, rng: rng}
}

// Config returns the rules the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// CreateGameState shuffles copies of both decks and deals them as full hands.
func (e *Engine) CreateGameState(matchID string, playerDeck, opponentDeck Hand) *GameState {
	return &GameState{
		MatchID:      matchID,
		PlayerHand:   e.shuffled(playerDeck),
		OpponentHand: e.shuffled(opponentDeck),
		Pile:         Pile{},
		DuelHistory:  []DuelResult{},
		Status:       StatusPlaying,
	}
}

// PlayTurn resolves one flip and returns the next state together with the
// duel it produced, if any. The input state is left untouched.
//
// A tie escalates to a Royale War: WarStakeCount face-down pairs plus one
// decider pair are drawn, and the decider alone settles the whole pile. If a
// hand runs out before the decider is drawn, no duel is resolved and the pile
// keeps its cards.
func (e *Engine) PlayTurn(state *GameState) (*GameState, *DuelResult) {
	s := state.Clone()
	if s.Status != StatusPlaying {
		return s, nil
	}
	if len(s.PlayerHand) == 0 || len(s.OpponentHand) == 0 {
		settle(s)
		return s, nil
	}

	p, o := s.draw()
	s.Pile = append(s.Pile, p, o)

	if p.Power != o.Power {
		winner := SideOpponent
		if p.Power > o.Power {
			winner = SidePlayer
		}
		duel := e.award(s, p, o, winner)
		settle(s)
		return s, duel
	}

	// Tie → Royale War
	s.InWar = true
	s.WarStakeCount = len(s.Pile)

	want := e.cfg.WarStakeCount + 1
	drawn := 0
	var dp, do Card
	for drawn < want && len(s.PlayerHand) > 0 && len(s.OpponentHand) > 0 {
		dp, do = s.draw()
		s.Pile = append(s.Pile, dp, do)
		drawn++
	}
	if drawn < want {
		settle(s)
		return s, nil
	}

	// A second tie on the decider goes to the opponent; wars do not recurse.
	winner := SideOpponent
	if dp.Power > do.Power {
		winner = SidePlayer
	}
	duel := e.award(s, dp, do, winner)
	settle(s)
	return s, duel
}

// IsGameOver reports whether the match can no longer advance.
func IsGameOver(s *GameState) bool {
	if s.Status != StatusPlaying {
		return true
	}
	return len(s.PlayerHand) == 0 || len(s.OpponentHand) == 0
}

// draw removes the front card of each hand.
func (s *GameState) draw() (Card, Card) {
	p, o := s.PlayerHand[0], s.OpponentHand[0]
	s.PlayerHand = s.PlayerHand[1:]
	s.OpponentHand = s.OpponentHand[1:]
	return p, o
}

// award records the duel and moves the shuffled pile into the winner's hand.
func (e *Engine) award(s *GameState, p, o Card, winner Side) *DuelResult {
	duel := DuelResult{
		PlayerCard:   p,
		OpponentCard: o,
		Winner:       winner,
		PileSize:     len(s.Pile),
	}
	s.DuelHistory = append(s.DuelHistory, duel)

	h := s.hand(winner)
	*h = append(*h, e.shuffled(Hand(s.Pile))...)
	s.Pile = Pile{}
	s.InWar = false
	s.WarStakeCount = 0
	return &duel
}

func (e *Engine) shuffled(cards Hand) Hand {
	out := append(Hand{}, cards...)
	e.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// settle assigns a terminal status once a hand is empty. With both hands
// empty the side with at least as many duel wins takes the match.
func settle(s *GameState) {
	if s.Status != StatusPlaying {
		return
	}
	switch {
	case len(s.PlayerHand) == 0 && len(s.OpponentHand) == 0:
		s.Status = statusByDuels(s)
	case len(s.OpponentHand) == 0:
		s.Status = StatusPlayerWins
	case len(s.PlayerHand) == 0:
		s.Status = StatusOpponentWins
	}
}

func statusByDuels(s *GameState) Status {
	if s.DuelsWon(SidePlayer) >= s.DuelsWon(SideOpponent) {
		return StatusPlayerWins
	}
	return StatusOpponentWins
}
