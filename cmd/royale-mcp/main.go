package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/peterkuimelis/royale/internal/game"
	royalemcp "github.com/peterkuimelis/royale/internal/mcp"
)

func main() {
	decks := flag.String("decks", "decks.yaml", "path to decks YAML file")
	rulesFile := flag.String("rules", "", "path to a YAML rules file")
	flag.Parse()

	if *rulesFile != "" {
		rules, err := game.LoadConfig(*rulesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: load rules: %v\n", err)
			os.Exit(1)
		}
		royalemcp.SetRules(rules)
	}
	royalemcp.SetDecksFile(*decks)

	s := server.NewMCPServer("royale", "1.0.0")
	royalemcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
