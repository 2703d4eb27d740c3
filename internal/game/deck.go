package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck. Art defaults to the
// catalogue entry matching Name when Image is empty.
type CardEntry struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
	Power int    `yaml:"power"`
	Count int    `yaml:"count"`
}

// ParseDeckFileData decodes a YAML deck file.
func ParseDeckFileData(data []byte) (DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return df, fmt.Errorf("parse deck YAML: %w", err)
	}
	return df, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file. Decks
// with cards outside the rules' power bounds are rejected.
func DeckByNumber(path string, n int, rules Config) (string, Hand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	df, err := ParseDeckFileData(data)
	if err != nil {
		return "", nil, err
	}

	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}

	deck := df.Decks[n-1]
	hand := deck.Hand()
	if err := rules.CheckHand(hand); err != nil {
		return "", nil, fmt.Errorf("deck %q: %w", deck.Name, err)
	}
	return deck.Name, hand, nil
}

// Hand expands the entry counts into concrete cards.
func (d DeckEntry) Hand() Hand {
	var cards Hand
	for _, entry := range d.Cards {
		count := entry.Count
		if count == 0 {
			count = 1
		}
		id := entry.ID
		if id == "" {
			id = entry.Name
		}
		image := entry.Image
		if image == "" {
			if slot, ok := LookupArt(entry.Name); ok {
				image = ArtImage(slot)
			}
		}
		for i := 0; i < count; i++ {
			cards = append(cards, Card{
				ID:    fmt.Sprintf("%s#%d", id, i+1),
				Image: image,
				Name:  entry.Name,
				Power: entry.Power,
			})
		}
	}
	return cards
}
