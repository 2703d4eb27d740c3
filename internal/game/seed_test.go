package game

import (
	"reflect"
	"testing"
)

func TestDeriveSeedInt(t *testing.T) {
	tests := []struct {
		seed string
		want uint32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 3105},
		{"X", 88},
		{"room-42", 1379843248},
	}
	for _, tt := range tests {
		if got := DeriveSeedInt(tt.seed); got != tt.want {
			t.Errorf("DeriveSeedInt(%q) = %d, want %d", tt.seed, got, tt.want)
		}
	}
}

// TestGeneratorReferenceValues pins the stream so other clients can match it.
func TestGeneratorReferenceValues(t *testing.T) {
	tests := []struct {
		seed uint32
		want []float64
	}{
		{0, []float64{0.26642920868471265, 0.0003297457005828619, 0.2232720274478197}},
		{88, []float64{0.8379333515185863, 0.685978990746662, 0.39730911795049906}},
	}
	for _, tt := range tests {
		g := NewGenerator(tt.seed)
		for i, want := range tt.want {
			if got := g.Next(); got != want {
				t.Errorf("seed %d call %d: got %v, want %v", tt.seed, i+1, got, want)
			}
		}
	}
}

// TestGeneratorIsCounterBased: independent generators agree call for call.
func TestGeneratorIsCounterBased(t *testing.T) {
	a := NewSeededGenerator("lockstep")
	b := NewSeededGenerator("lockstep")
	for i := 0; i < 1000; i++ {
		x, y := a.Next(), b.Next()
		if x != y {
			t.Fatalf("call %d diverged: %v != %v", i+1, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("call %d out of range: %v", i+1, x)
		}
	}
}

func TestGeneratorShuffleIsPermutation(t *testing.T) {
	g := NewSeededGenerator("perm")
	xs := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	g.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })

	seen := make(map[int]bool)
	for _, x := range xs {
		seen[x] = true
	}
	if len(seen) != 10 {
		t.Errorf("Expected a permutation of 10 values, got %v", xs)
	}
}

// TestMakeSeededDeck: the same seed string yields the same deck.
func TestMakeSeededDeck(t *testing.T) {
	cfg := DefaultConfig()
	a := MakeSeededDeck("X", 5, cfg)
	b := MakeSeededDeck("X", 5, cfg)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Expected identical decks, got\n%v\n%v", a, b)
	}
	if !equalInts(powers(a), []int{8, 5, 3, 5, 4}) {
		t.Errorf("Expected powers [8 5 3 5 4], got %v", powers(a))
	}
	if a[0].Name != "Twilight Fox" || a[0].Image != "/assets/Twilight_Fox.png" {
		t.Errorf("Expected first card Twilight Fox, got %q (%s)", a[0].Name, a[0].Image)
	}
	if a[1].Name != "Gore Horn" {
		t.Errorf("Expected second card Gore Horn, got %q", a[1].Name)
	}
	if a[0].ID != "X-0" || a[4].ID != "X-4" {
		t.Errorf("Expected IDs X-0..X-4, got %s..%s", a[0].ID, a[4].ID)
	}
}

func TestSeededDeckPowerRange(t *testing.T) {
	cfg := DefaultConfig()
	deck := MakeSeededDeck("range", 500, cfg)
	seen := make(map[int]bool)
	for _, c := range deck {
		if !cfg.ValidCardPower(c) {
			t.Fatalf("card %s has power %d outside [%d,%d]", c.ID, c.Power, cfg.MinPower, cfg.MaxPower)
		}
		seen[c.Power] = true
	}
	if len(seen) != 9 {
		t.Errorf("Expected all 9 power values in 500 cards, saw %d", len(seen))
	}
}

func TestSeededDecksDifferBySide(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DeckSize = 5
	host, guest := SeededDecks("X", cfg)

	if !equalInts(powers(host), []int{3, 5, 2, 3, 2}) {
		t.Errorf("Expected host powers [3 5 2 3 2], got %v", powers(host))
	}
	if !equalInts(powers(guest), []int{2, 4, 8, 9, 6}) {
		t.Errorf("Expected guest powers [2 4 8 9 6], got %v", powers(guest))
	}
}

func TestArtLookup(t *testing.T) {
	slot, ok := LookupArt("jade monk")
	if !ok || slot != 13 {
		t.Fatalf("Expected Jade Monk at slot 13, got %d (%v)", slot, ok)
	}
	if ArtName(slot) != "Jade Monk" {
		t.Errorf("Expected name Jade Monk, got %q", ArtName(slot))
	}
	if ArtImage(len(CardArt)) != ArtImage(0) {
		t.Error("Expected out-of-range slots to wrap")
	}
	if _, ok := LookupArt("Nope"); ok {
		t.Error("Expected unknown art to be missing")
	}
}

func TestMakeDemoDeckConsumesGenerator(t *testing.T) {
	cfg := DefaultConfig()
	rng := NewSeededGenerator("demo")
	first := MakeDemoDeck(rng, 8, cfg)
	second := MakeDemoDeck(rng, 8, cfg)

	if len(first) != 8 || len(second) != 8 {
		t.Fatalf("Expected 8 cards per deck, got %d and %d", len(first), len(second))
	}
	if reflect.DeepEqual(first, second) {
		t.Error("Expected consecutive demo decks to differ")
	}
	if !reflect.DeepEqual(first, MakeDemoDeck(NewSeededGenerator("demo"), 8, cfg)) {
		t.Error("Expected demo deck to be reproducible from the same generator seed")
	}
	for _, c := range append(Hand{}, append(first, second...)...) {
		if c.Power < cfg.MinPower || c.Power > cfg.MaxPower {
			t.Errorf("Card %s has out-of-range power %d", c.ID, c.Power)
		}
	}
}
