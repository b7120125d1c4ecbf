// internal/httpserver/routes_shop.go
//
// Handlers for the shop and equipment management.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/asavelyev/ribalka/internal/game"
)

func (s *Server) handleShopItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": game.ShopCatalog()})
}

type buyItemReq struct {
	UserID   string `json:"user_id"`
	ItemName string `json:"item_name"`
}

func (s *Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	var req buyItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	res, err := s.engine.BuyItem(r.Context(), req.UserID, req.ItemName)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type buyWormsReq struct {
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}

func (s *Server) handleBuyWorms(w http.ResponseWriter, r *http.Request) {
	req := buyWormsReq{Count: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	// A non-positive count would turn the purchase into a refund.
	if req.Count < 1 {
		badRequest(w, "count must be positive")
		return
	}
	res, err := s.engine.BuyWorms(r.Context(), req.UserID, req.Count)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBuyBag(w http.ResponseWriter, r *http.Request) {
	id, ok := decodeUserID(w, r)
	if !ok {
		return
	}
	res, err := s.engine.ExtendBag(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type equipReq struct {
	UserID    string `json:"user_id"`
	ItemIndex int    `json:"item_index"`
}

func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	var req equipReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	res, err := s.engine.Equip(r.Context(), req.UserID, req.ItemIndex)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type unequipReq struct {
	UserID string `json:"user_id"`
	Slot   string `json:"slot"`
}

func (s *Server) handleUnequip(w http.ResponseWriter, r *http.Request) {
	var req unequipReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid json")
		return
	}
	res, err := s.engine.Unequip(r.Context(), req.UserID, req.Slot)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
