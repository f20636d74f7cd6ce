package web

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/peterkuimelis/autoduel/internal/cards"
	"github.com/peterkuimelis/autoduel/internal/fight"
	"github.com/peterkuimelis/autoduel/internal/tournament"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card type for the /api/cards endpoint.
type CardInfo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Branches    []string   `json:"branches"`
	MaxLevel    int        `json:"maxLevel"`
	Cost        int        `json:"cost"`
	Levels      [5]float64 `json:"levels"`
}

// HeroInfo is the JSON representation of a hero for the /api/heroes endpoint.
type HeroInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	HP           float64  `json:"hp"`
	Attack       float64  `json:"attack"`
	AttackPeriod float64  `json:"attackPeriod"`
	ManaRegen    float64  `json:"manaRegen"`
	Crit         float64  `json:"crit"`
	Evasion      float64  `json:"evasion"`
	Preferred    []string `json:"preferred"`
}

// RosterInfo is the JSON representation of a roster for the /api/rosters endpoint.
type RosterInfo struct {
	Number  int      `json:"number"`
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

// Options configures a Server.
type Options struct {
	RosterFile string
	FPS        int // replay frames per second
	Logger     zerolog.Logger
}

// Server is the autoduel web API and replay server.
type Server struct {
	rosterFile string
	fps        int
	log        zerolog.Logger
	mux        *http.ServeMux

	// duels deduplicates concurrent simulations of the same request.
	duels singleflight.Group
}

// NewServer creates a new web server.
func NewServer(opts Options) *Server {
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	s := &Server{
		rosterFile: opts.RosterFile,
		fps:        fps,
		log:        opts.Logger,
		mux:        http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/heroes", s.handleHeroes)
	s.mux.HandleFunc("GET /api/rosters", s.handleRosters)
	s.mux.HandleFunc("GET /api/duel", s.handleDuel)

	// Replay stream
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler wraps the routes with request IDs and CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return RequestID(s.log)(c.Handler(s.mux))
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var out []CardInfo
	for _, id := range cards.IDs() {
		t := cards.LookupType(id)
		ci := CardInfo{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			MaxLevel:    t.MaxLevel,
			Cost:        t.Cost,
			Levels:      t.Levels,
		}
		for _, b := range t.Branches {
			ci.Branches = append(ci.Branches, b.String())
		}
		out = append(out, ci)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHeroes(w http.ResponseWriter, r *http.Request) {
	var out []HeroInfo
	for _, id := range fight.HeroIDs() {
		h := fight.LookupHero(id)
		hi := HeroInfo{
			ID:           h.ID,
			Name:         h.Name,
			Description:  h.Description,
			HP:           h.HP,
			Attack:       h.Attack,
			AttackPeriod: h.AttackPeriod,
			ManaRegen:    h.ManaRegen,
			Crit:         h.Crit,
			Evasion:      h.Evasion,
		}
		for _, b := range h.Preferred {
			hi.Preferred = append(hi.Preferred, b.String())
		}
		out = append(out, hi)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRosters(w http.ResponseWriter, r *http.Request) {
	rf, err := tournament.ReadRosterFile(s.rosterFile)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.rosterFile).Msg("roster file unavailable")
		http.Error(w, "could not load roster file", http.StatusInternalServerError)
		return
	}

	out := make([]RosterInfo, 0, len(rf.Rosters))
	for i, ro := range rf.Rosters {
		ri := RosterInfo{Number: i + 1, Name: ro.Name}
		for _, p := range ro.Players {
			ri.Players = append(ri.Players, p.Name+" ("+p.Hero+")")
		}
		out = append(out, ri)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDuel(w http.ResponseWriter, r *http.Request) {
	req, err := duelRequestFromQuery(r.URL.Query())
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	c, err := s.simulate(req)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(c))
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error":      err.Error(),
		"request_id": GetRequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
