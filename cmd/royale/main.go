package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/peterkuimelis/royale/internal/game"
	"github.com/peterkuimelis/royale/internal/log"
	royalenet "github.com/peterkuimelis/royale/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "local":
		runLocal(os.Args[2:])
	case "join":
		runJoin(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  royale local [--seed S] [--size N] [--demo | --decks FILE --deck N --opp N] [--auto] [--rules FILE]")
	fmt.Println("  royale join  [--url URL] [--room ID] [--rules FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  local   Play both hands in this terminal")
	fmt.Println("  join    Join a relay room and follow its matches")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func loadRules(path string) game.Config {
	if path == "" {
		return game.DefaultConfig()
	}
	cfg, err := game.LoadConfig(path)
	if err != nil {
		fatal(fmt.Errorf("load rules: %w", err))
	}
	return cfg
}

func runLocal(args []string) {
	fs := flag.NewFlagSet("local", flag.ExitOnError)
	seed := fs.String("seed", "", "seed for decks and shuffles (random when empty)")
	size := fs.Int("size", 0, "cards per seeded deck (default from rules)")
	decksFile := fs.String("decks", "", "path to decks file; enables --deck and --opp")
	deck := fs.Int("deck", 1, "player deck number (from the decks file)")
	opp := fs.Int("opp", 2, "opponent deck number (from the decks file)")
	demo := fs.Bool("demo", false, "deal throwaway demo decks from one generator")
	auto := fs.Bool("auto", false, "play the whole match without prompting")
	rulesFile := fs.String("rules", "", "path to a YAML rules file")
	fs.Parse(args)

	rules := loadRules(*rulesFile)
	if *size > 0 {
		rules.DeckSize = *size
	}

	logger := log.NewTextLogger(os.Stdout)
	var m *game.Match
	switch {
	case *demo:
		s := *seed
		if s == "" {
			s = game.NewSeed()
		}
		rng := game.NewSeededGenerator(s)
		m = game.NewMatch(game.MatchConfig{
			Seed:         s,
			PlayerDeck:   game.MakeDemoDeck(rng, rules.DeckSize, rules),
			OpponentDeck: game.MakeDemoDeck(rng, rules.DeckSize, rules),
			Rules:        rules,
			Logger:       logger,
		})
	case *decksFile == "":
		s := *seed
		if s == "" {
			s = game.NewSeed()
		}
		m = game.NewSeededMatch("", s, rules, logger)
	default:
		playerName, player, err := game.DeckByNumber(*decksFile, *deck, rules)
		if err != nil {
			fatal(fmt.Errorf("load player deck: %w", err))
		}
		oppName, opponent, err := game.DeckByNumber(*decksFile, *opp, rules)
		if err != nil {
			fatal(fmt.Errorf("load opponent deck: %w", err))
		}
		fmt.Printf("Player: %s (%d cards)\n", playerName, len(player))
		fmt.Printf("Opponent: %s (%d cards)\n", oppName, len(opponent))
		m = game.NewMatch(game.MatchConfig{
			Seed:         *seed,
			PlayerDeck:   player,
			OpponentDeck: opponent,
			Rules:        rules,
			Logger:       logger,
		})
	}
	fmt.Printf("Seed: %s\n", m.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *auto {
		if _, err := m.Run(ctx); err != nil {
			fatal(err)
		}
	} else if err := playInteractive(ctx, m); err != nil {
		fatal(err)
	}

	if !m.Over() {
		return
	}
	outcome, err := m.Settle(ctx, nil)
	if err != nil {
		fatal(err)
	}
	fmt.Println()
	fmt.Println("═══════════════════════════════════")
	fmt.Println("          GAME OVER")
	fmt.Println("═══════════════════════════════════")
	fmt.Printf("%s wins after %d duels (%d-%d cards)\n",
		outcome.Winner, len(outcome.Duels), outcome.PlayerCards, outcome.OpponentCards)
	fmt.Println("═══════════════════════════════════")
}

func playInteractive(ctx context.Context, m *game.Match) error {
	reader := bufio.NewReader(os.Stdin)
	for !m.Over() {
		s := m.State
		fmt.Printf("\nYou: %d  Opponent: %d  Pile: %d\n", len(s.PlayerHand), len(s.OpponentHand), len(s.Pile))
		fmt.Print("[enter] flip, auto, quit > ")

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "f", "flip":
			m.Flip()
		case "a", "auto":
			_, err := m.Run(ctx)
			return err
		case "q", "quit", "exit":
			return nil
		default:
			fmt.Println("Enter flip, auto or quit")
		}
	}
	return nil
}

func runJoin(args []string) {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	url := fs.String("url", "ws://localhost:8080/ws", "relay WebSocket URL")
	room := fs.String("room", "", "room ID to join (random when empty)")
	rulesFile := fs.String("rules", "", "path to a YAML rules file")
	fs.Parse(args)

	rules := loadRules(*rulesFile)
	roomID := *room
	if roomID == "" {
		roomID = game.NewSeed()[:8]
		fmt.Printf("Created room %s, share it with your opponent\n", roomID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Commands: start, flip, quit")
	if err := royalenet.Connect(ctx, *url, roomID, rules); err != nil {
		fatal(err)
	}
}
