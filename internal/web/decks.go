package web

import (
	"fmt"
	"os"

	"github.com/peterkuimelis/royale/internal/game"
)

// loadDeckInfos summarizes the decks in a YAML deck file for display. Decks
// that fail the power audit are listed but marked unplayable.
func loadDeckInfos(path string, rules game.Config) ([]DeckInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decks file: %w", err)
	}
	df, err := game.ParseDeckFileData(data)
	if err != nil {
		return nil, err
	}

	decks := []DeckInfo{}
	for i, d := range df.Decks {
		hand := d.Hand()
		report := rules.AuditHand(hand)
		di := DeckInfo{
			Number:   i + 1,
			Name:     d.Name,
			Size:     len(hand),
			Cards:    []string{},
			Playable: report.Valid,
		}
		if !report.Valid {
			di.InvalidIDs = report.InvalidIDs
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, c := range d.Cards {
			if !seen[c.Name] {
				di.Cards = append(di.Cards, c.Name)
				seen[c.Name] = true
			}
		}
		decks = append(decks, di)
	}
	return decks, nil
}
