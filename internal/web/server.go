package web

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/peterkuimelis/royale/internal/game"
	"github.com/peterkuimelis/royale/internal/net"
)

// Deck size bounds for /api/seeded-deck.
const (
	MinDeck = 6
	MaxDeck = game.MaxDeckSize
)

// CardInfo is the JSON representation of an art slot for the /api/cards endpoint.
type CardInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Image string `json:"imageUri"`
}

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number     int      `json:"number"`
	Name       string   `json:"name"`
	Size       int      `json:"size"`
	Cards      []string `json:"cards"`
	Playable   bool     `json:"playable"`
	InvalidIDs []string `json:"invalidIds,omitempty"`
}

// DeckResponse is returned by /api/seeded-deck.
type DeckResponse struct {
	Seed  string    `json:"seed"`
	Cards game.Hand `json:"cards"`
	Total int       `json:"total"`
}

type errorResponse struct {
	Valid *bool  `json:"valid,omitempty"`
	Error string `json:"error"`
}

// Server is the royale HTTP surface: the relay endpoint plus the deck and
// anti-cheat APIs.
type Server struct {
	artDir    string
	decksFile string
	rules     game.Config
	relay     *net.Relay
	mux       *http.ServeMux
}

// NewServer creates a new web server. An empty artDir disables /assets/.
func NewServer(relay *net.Relay, rules game.Config, decksFile, artDir string) *Server {
	s := &Server{
		artDir:    artDir,
		decksFile: decksFile,
		rules:     rules,
		relay:     relay,
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Card art from filesystem
	if s.artDir != "" {
		s.mux.Handle("GET "+game.ArtBase+"/", http.StripPrefix(game.ArtBase+"/", http.FileServer(http.Dir(s.artDir))))
	}

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/seeded-deck", s.handleSeededDeck)
	s.mux.HandleFunc("POST /api/validate", s.handleValidate)

	// Room relay
	s.mux.Handle("GET /ws", net.NewHandler(s.relay))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := make([]CardInfo, len(game.CardArt))
	for i := range game.CardArt {
		cards[i] = CardInfo{Index: i, Name: game.ArtName(i), Image: game.ArtImage(i)}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := loadDeckInfos(s.decksFile, s.rules)
	if err != nil {
		log.Printf("decks: %v", err)
		http.Error(w, "could not load decks file", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (s *Server) handleSeededDeck(w http.ResponseWriter, r *http.Request) {
	seed := r.URL.Query().Get("seed")
	if seed == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing seed"})
		return
	}

	size := s.rules.DeckSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "size must be an integer"})
			return
		}
		size = n
	}
	size = min(MaxDeck, max(MinDeck, size))

	cards := game.MakeSeededDeck(seed, size, s.rules)
	writeJSON(w, http.StatusOK, DeckResponse{Seed: seed, Cards: cards, Total: len(cards)})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	invalid := false
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Valid: &invalid, Error: "Invalid JSON"})
		return
	}

	var cards []game.CardClaim
	raw, ok := body["cards"]
	if !ok || len(raw) == 0 || raw[0] != '[' || json.Unmarshal(raw, &cards) != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Valid: &invalid, Error: "cards must be an array"})
		return
	}

	report := s.rules.Audit(cards)
	if !report.Valid {
		log.Printf("validate: %d card(s) failed the power check: %v", report.InvalidCount, report.InvalidIDs)
	}
	writeJSON(w, http.StatusOK, report)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
