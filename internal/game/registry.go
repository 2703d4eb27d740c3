package game

import (
	"fmt"
	"strings"
)

// ArtBase is the path prefix card images are served from.
const ArtBase = "/assets"

// CardArt lists the art slots generated decks draw from, in index order.
// The order is part of the seeded deck format and must not change.
var CardArt = []string{
	"Ace", "Bakezori", "Black_Solus", "Calligrapher", "Chakri_Avatar",
	"Coalfist", "Desolator", "Dusk_Rigger", "Flamewreath", "Furiosa",
	"Geomancer", "Gore_Horn", "Heartseeker", "Jade_Monk", "Kaido_Expert",
	"Katara", "Ki_Beholder", "Kindling", "Lantern_Fox", "Mizuchi",
	"Orizuru", "Scarlet_Viper", "Storm_Kage", "Suzumebachi", "Tusk_Boar",
	"Twilight_Fox", "Void_Talon", "Whiplash", "Widowmaker", "Xho",
}

// ArtImage returns the image reference for art slot i.
func ArtImage(i int) string {
	return fmt.Sprintf("%s/%s.png", ArtBase, artSlot(i))
}

// ArtName returns the display name for art slot i.
func ArtName(i int) string {
	return strings.ReplaceAll(artSlot(i), "_", " ")
}

// LookupArt returns the slot index for a display or file name.
func LookupArt(name string) (int, bool) {
	key := strings.ReplaceAll(name, " ", "_")
	for i, a := range CardArt {
		if strings.EqualFold(a, key) {
			return i, true
		}
	}
	return -1, false
}

// artSlot wraps out-of-range indices so that generated decks never panic.
func artSlot(i int) string {
	n := len(CardArt)
	return CardArt[((i%n)+n)%n]
}
