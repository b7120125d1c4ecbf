// internal/httpserver/server.go
//
// HTTP wiring for the fishing game API.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     JSON content type, credentials-friendly CORS).
//   - Route registration for every /api endpoint.
//   - Mapping engine failures to JSON 4xx/5xx responses.
//
// The engine owns all game rules; handlers only translate HTTP to engine
// calls and results back to JSON.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/asavelyev/ribalka/internal/game"
)

// Server bundles the router and the game engine.
type Server struct {
	r      *chi.Mux
	engine *game.Engine
}

// New constructs a Server, installs middleware, and registers routes.
func New(engine *game.Engine) *Server {
	s := &Server{r: chi.NewRouter(), engine: engine}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"ribalka","endpoints":["/api/health","POST /api/init","POST /api/game/fish","/api/shop/*","/api/top"]}`))
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Post("/init", s.handleInit)

		r.Route("/game", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Post("/fish", s.handleFish)
			r.Post("/sell", s.handleSell)
			r.Post("/keep", s.handleKeep)
			r.Post("/sellfish", s.handleSellFromCreel)
		})

		r.Route("/shop", func(r chi.Router) {
			r.Get("/items", s.handleShopItems)
			r.Post("/buy", s.handleBuyItem)
			r.Post("/buy_worms", s.handleBuyWorms)
			r.Post("/buy_bag", s.handleBuyBag)
		})

		r.Route("/equipment", func(r chi.Router) {
			r.Post("/equip", s.handleEquip)
			r.Post("/unequip", s.handleUnequip)
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/inventory", s.handleInventory)
			r.Get("/equipment", s.handleEquipment)
			r.Get("/podsak", s.handleCreel)
		})

		r.Get("/top", s.handleTop)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/health", s.handleHealth)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"users_count": s.engine.UserCount(),
		"message":     "Fishing Game API is running",
	})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:3000.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeEngineError translates an engine failure into an HTTP response:
// unknown users are 404, other rule violations are 400, and anything
// systemic (storage trouble) is 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case game.IsBusinessError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("engine failure")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}
