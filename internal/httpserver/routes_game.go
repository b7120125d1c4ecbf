// internal/httpserver/routes_game.go
//
// Handlers for registration, catch attempts, catch disposition, read-only
// user views, the leaderboard, and achievements.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type initReq struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req initReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}
	if req.Name == "" {
		req.Name = "Рыбак"
	}
	res, err := s.engine.Register(r.Context(), req.UserID, req.Name)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// userIDReq is the common body for user-scoped mutations.
type userIDReq struct {
	UserID string `json:"user_id"`
}

// decodeUserID pulls user_id out of a JSON body, writing a 400 itself on
// bad input.
func decodeUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req userIDReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return "", false
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return "", false
	}
	return req.UserID, true
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.engine.State(r.URL.Query().Get("user_id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleFish(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeUserID(w, r)
	if !ok {
		return
	}
	res, err := s.engine.Catch(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeUserID(w, r)
	if !ok {
		return
	}
	res, err := s.engine.SellPending(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleKeep(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeUserID(w, r)
	if !ok {
		return
	}
	res, err := s.engine.KeepPending(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type sellFromCreelReq struct {
	UserID    string `json:"user_id"`
	FishIndex int    `json:"fish_index"`
}

func (s *Server) handleSellFromCreel(w http.ResponseWriter, r *http.Request) {
	var req sellFromCreelReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	res, err := s.engine.SellFromCreel(r.Context(), req.UserID, req.FishIndex)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// The three /api/user views are subsets of the composed state.

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	state, err := s.engine.State(r.URL.Query().Get("user_id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inventory": state.Inventory})
}

func (s *Server) handleEquipment(w http.ResponseWriter, r *http.Request) {
	state, err := s.engine.State(r.URL.Query().Get("user_id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"equipment": state.Equipped})
}

func (s *Server) handleCreel(w http.ResponseWriter, r *http.Request) {
	state, err := s.engine.State(r.URL.Query().Get("user_id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"podsak": state.Creel})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	// Malformed or non-positive limits fall back to the default.
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"top_players": s.engine.TopPlayers(limit)})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"all_achievements": s.engine.AllAchievements()})
		return
	}
	achievements, err := s.engine.UserAchievements(userID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": achievements})
}
