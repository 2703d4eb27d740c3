package game

import (
	"fmt"
	"testing"
)

// noShuffle keeps card order fixed so tests can script exact hands.
type noShuffle struct{}

func (noShuffle) Shuffle(n int, swap func(i, j int)) {}

// newTestEngine returns an engine with default rules and no shuffling.
func newTestEngine() *Engine {
	return NewEngine(DefaultConfig(), noShuffle{})
}

// handOf builds a hand with one card per power, labelled by side prefix.
func handOf(prefix string, powers ...int) Hand {
	h := make(Hand, 0, len(powers))
	for i, p := range powers {
		h = append(h, Card{
			ID:    fmt.Sprintf("%s%d", prefix, i),
			Name:  fmt.Sprintf("%s-%d", prefix, p),
			Power: p,
		})
	}
	return h
}

// newScriptedState deals the given powers in order, without shuffling.
func newScriptedState(player, opponent []int) *GameState {
	return newTestEngine().CreateGameState("test", handOf("p", player...), handOf("o", opponent...))
}

// powers lists the power of each card in order.
func powers[T ~[]Card](cards T) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.Power
	}
	return out
}

// playUntilOver flips until the game is over or limit flips have run.
func playUntilOver(t *testing.T, e *Engine, s *GameState, limit int) (*GameState, int) {
	t.Helper()
	calls := 0
	for !IsGameOver(s) {
		if calls >= limit {
			t.Fatalf("game not over after %d calls (player %d, opponent %d, pile %d)",
				calls, len(s.PlayerHand), len(s.OpponentHand), len(s.Pile))
		}
		s, _ = e.PlayTurn(s)
		calls++
	}
	return s, calls
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
