package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wricardo/mcp-training/pongserver/game/config"
	"github.com/wricardo/mcp-training/pongserver/game/engine"
	"github.com/wricardo/mcp-training/pongserver/game/match"
)

// MatchReader is the read side of the match owner
type MatchReader interface {
	Snapshot(ctx context.Context) (match.Snapshot, error)
	Arena() engine.Arena
}

// ArenaCatalog lists, loads and re-reads arena profiles
type ArenaCatalog interface {
	ListArenas() ([]*config.ArenaInfo, error)
	LoadArena(name string) (engine.Arena, error)
	RefreshCache() error
}

// Server represents the REST API server
type Server struct {
	match  MatchReader
	arenas ArenaCatalog
	ws     http.Handler
	router *mux.Router
}

// NewServer creates a new API server. ws handles /ws upgrades and may be nil.
func NewServer(m MatchReader, arenas ArenaCatalog, ws http.Handler) *Server {
	s := &Server{
		match:  m,
		arenas: arenas,
		ws:     ws,
		router: mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Match (read-only; players act over the WebSocket)
	api.HandleFunc("/match", s.handleGetMatch).Methods("GET")
	api.HandleFunc("/arena", s.handleGetArena).Methods("GET")

	// Arena profiles
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs/reload", s.handleReloadConfigs).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	// WebSocket
	if s.ws != nil {
		s.router.Handle("/ws", s.ws)
	}

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Match Handlers

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	snap, err := s.match.Snapshot(r.Context())
	if err != nil {
		// stopped manager or abandoned request
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetArena(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.match.Arena())
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	arenas, err := s.arenas.ListArenas()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(arenas),
		"active": s.match.Arena().Name,
		"arenas": arenas,
	})
}

// handleReloadConfigs re-reads profiles from disk. The running match keeps
// the arena it started with.
func (s *Server) handleReloadConfigs(w http.ResponseWriter, r *http.Request) {
	if err := s.arenas.RefreshCache(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.handleListConfigs(w, r)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	arena, err := s.arenas.LoadArena(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, arena)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
