package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/peterkuimelis/royale/internal/game"
)

// MaxFlipsPerCall bounds the count argument of the flip tool.
const MaxFlipsPerCall = 1000

var (
	// sessionMu guards activeSession.
	sessionMu sync.Mutex
	// activeSession is the singleton match session (one per stdio process).
	activeSession *MatchSession
)

// decksFile is the path to the decks YAML file, set by main.
var decksFile string

// rules are the match rules, set by main.
var rules = game.DefaultConfig()

// SetDecksFile sets the path to the decks YAML file.
func SetDecksFile(path string) {
	decksFile = path
}

// SetRules sets the rules used for new matches.
func SetRules(cfg game.Config) {
	rules = cfg
}

// RegisterTools adds all match tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startMatchTool(), handleStartMatch)
	s.AddTool(flipTool(), handleFlip)
	s.AddTool(getMatchStateTool(), handleGetMatchState)
	s.AddTool(settleMatchTool(), handleSettleMatch)
}

// --- Tool definitions ---

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a new Royale War match. Without deck numbers both decks are derived from the seed, "+
			"exactly as two room clients sharing that seed would build them. A finished match is replaced; "+
			"a match in progress must be played out first."),
		mcp.WithString("seed", mcp.Description("Seed string for decks and shuffles (random when omitted)")),
		mcp.WithNumber("deck_size", mcp.Description("Cards per seeded deck, at most 52 (defaults to the rules deck size)")),
		mcp.WithNumber("player_deck", mcp.Description("Deck number for the player side (1-indexed from decks.yaml)")),
		mcp.WithNumber("opponent_deck", mcp.Description("Deck number for the opponent side (1-indexed from decks.yaml)")),
	)
}

func flipTool() mcp.Tool {
	return mcp.NewTool("flip",
		mcp.WithDescription("Flip the top card of each hand and resolve the duel or Royale War. Returns the events since the last call."),
		mcp.WithNumber("count", mcp.Description("Number of flips to play, stopping early if the match ends (default 1)")),
	)
}

func getMatchStateTool() mcp.Tool {
	return mcp.NewTool("get_match_state",
		mcp.WithDescription("Get the current match state and any events not yet reported. Read-only."),
	)
}

func settleMatchTool() mcp.Tool {
	return mcp.NewTool("settle_match",
		mcp.WithDescription("Hand a finished match to settlement and return its outcome: winner, duel history and final card counts."),
	)
}

// --- Tool handlers ---

func currentSession() *MatchSession {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return activeSession
}

func handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession != nil && !activeSession.Over() {
		return mcp.NewToolResultError("A match is already running. Play it out with flip before starting another."), nil
	}

	deckSize := request.GetInt("deck_size", 0)
	if deckSize < 0 || deckSize > game.MaxDeckSize {
		return mcp.NewToolResultErrorf("Invalid deck_size %d. Must be 1-%d.", deckSize, game.MaxDeckSize), nil
	}

	sess, err := NewMatchSession(SessionConfig{
		Seed:         request.GetString("seed", ""),
		DeckSize:     deckSize,
		DecksFile:    decksFile,
		PlayerDeck:   request.GetInt("player_deck", 0),
		OpponentDeck: request.GetInt("opponent_deck", 0),
		Rules:        rules,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}
	activeSession = sess

	return mcp.NewToolResultText(respondJSON(sess.Snapshot())), nil
}

func handleFlip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	if sess.Over() {
		return mcp.NewToolResultError("The match is over. Use settle_match or start_match."), nil
	}

	count := request.GetInt("count", 1)
	if count < 1 || count > MaxFlipsPerCall {
		return mcp.NewToolResultErrorf("Invalid count %d. Must be 1-%d.", count, MaxFlipsPerCall), nil
	}

	return mcp.NewToolResultText(respondJSON(sess.Flip(count))), nil
}

func handleGetMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.Snapshot())), nil
}

func handleSettleMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	resp, err := sess.Settle(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Settlement failed: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
