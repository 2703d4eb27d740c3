package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxDeckSize bounds the number of cards dealt to one side.
const MaxDeckSize = 52

// Config holds the rule bounds for a match.
type Config struct {
	MinPower      int `yaml:"min_power"`
	MaxPower      int `yaml:"max_power"`
	WarStakeCount int `yaml:"war_stake_count"` // face-down pairs before the decider
	DeckSize      int `yaml:"deck_size"`
	ImageCount    int `yaml:"image_count"` // art slots available to generated decks
	MaxTurns      int `yaml:"max_turns"`   // autoplay safety limit (0 = no limit)
}

// DefaultConfig returns the standard Royale War rules.
func DefaultConfig() Config {
	return Config{
		MinPower:      2,
		MaxPower:      10,
		WarStakeCount: 3,
		DeckSize:      26,
		ImageCount:    len(CardArt),
		MaxTurns:      1000,
	}
}

// Validate reports whether the bounds are usable.
func (c Config) Validate() error {
	var errs []error
	if c.MinPower > c.MaxPower {
		errs = append(errs, fmt.Errorf("min_power %d exceeds max_power %d", c.MinPower, c.MaxPower))
	}
	if c.WarStakeCount < 0 {
		errs = append(errs, fmt.Errorf("war_stake_count must be >= 0, got %d", c.WarStakeCount))
	}
	if c.DeckSize < 1 || c.DeckSize > MaxDeckSize {
		errs = append(errs, fmt.Errorf("deck_size must be in [1,%d], got %d", MaxDeckSize, c.DeckSize))
	}
	if c.ImageCount < 1 || c.ImageCount > len(CardArt) {
		errs = append(errs, fmt.Errorf("image_count must be in [1,%d], got %d", len(CardArt), c.ImageCount))
	}
	if c.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("max_turns must be >= 0, got %d", c.MaxTurns))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML rules file. Keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse rules YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid rules in %s: %w", path, err)
	}
	return cfg, nil
}
