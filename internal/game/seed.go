package game

import (
	"fmt"
	"unicode/utf16"

	"github.com/google/uuid"
)

// NewSeed returns a fresh random seed string.
func NewSeed() string {
	return uuid.NewString()
}

// DeriveSeedInt hashes a seed string to a 32-bit integer.
//
// The hash is the base-31 polynomial over the string's UTF-16 code units with
// 32-bit wraparound, so browser clients computing it over JavaScript strings
// arrive at the same value.
func DeriveSeedInt(seed string) uint32 {
	var h uint32
	for _, u := range utf16.Encode([]rune(seed)) {
		h = h*31 + uint32(u)
	}
	return h
}

// Generator is a counter-based pseudo-random source (mulberry32). The n-th
// value depends only on the seed and n, so two generators built from the same
// seed produce identical streams on any platform.
type Generator struct {
	state uint32
}

// NewGenerator creates a generator for the given seed.
func NewGenerator(seed uint32) *Generator {
	return &Generator{state: seed}
}

// NewSeededGenerator creates a generator from a seed string.
func NewSeededGenerator(seed string) *Generator {
	return NewGenerator(DeriveSeedInt(seed))
}

// Next returns the next value in [0,1).
func (g *Generator) Next() float64 {
	g.state += 0x6D2B79F5
	t := g.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// Intn returns a value in [0,n). It consumes exactly one Next call.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(g.Next() * float64(n))
}

// Shuffle permutes n elements with a Fisher-Yates walk from the back, the
// same order math/rand uses, so it can stand in for (*rand.Rand).Shuffle.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, g.Intn(i+1))
	}
}

// MakeSeededDeck builds a reproducible deck from a seed string. Each card
// draws its art index first and its power second; the order is part of the
// format shared with other clients.
func MakeSeededDeck(seed string, size int, cfg Config) Hand {
	return buildDeck(NewSeededGenerator(seed), seed, size, cfg)
}

// MakeDemoDeck builds a throwaway deck for local play from any generator.
func MakeDemoDeck(rng *Generator, size int, cfg Config) Hand {
	return buildDeck(rng, "demo", size, cfg)
}

// SeededDecks derives the host and guest decks a room builds from one seed.
func SeededDecks(seed string, cfg Config) (host, guest Hand) {
	host = MakeSeededDeck(seed+":host", cfg.DeckSize, cfg)
	guest = MakeSeededDeck(seed+":guest", cfg.DeckSize, cfg)
	return host, guest
}

func buildDeck(rng *Generator, prefix string, size int, cfg Config) Hand {
	span := cfg.MaxPower - cfg.MinPower + 1
	deck := make(Hand, 0, size)
	for i := 0; i < size; i++ {
		art := rng.Intn(cfg.ImageCount)
		power := cfg.MinPower + rng.Intn(span)
		deck = append(deck, Card{
			ID:    fmt.Sprintf("%s-%d", prefix, i),
			Image: ArtImage(art),
			Name:  ArtName(art),
			Power: power,
		})
	}
	return deck
}
