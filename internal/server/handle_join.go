package server

import (
	"net/http"
	"strings"
)

type JoinRequest struct {
	Player  string   `json:"player"`
	Payment string   `json:"payment"`
	Proof   []string `json:"proof,omitempty"`
}

type JoinResponse struct {
	Token  string `json:"token"`
	Player string `json:"player"`
	GameID string `json:"gameId"`
}

func handleJoin(games *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Player = strings.TrimSpace(req.Player)
		if req.Player == "" || req.Payment == "" {
			writeError(w, http.StatusBadRequest, "player and payment are required")
			return
		}
		payment, err := parseAmount(req.Payment)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		proof, err := parseProof(req.Proof)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		h := gameFrom(r)
		if err := h.Game.Join(r.Context(), req.Player, payment, proof); err != nil {
			writeEngineError(w, err)
			return
		}

		token := newToken()
		sess := sessionInfo{Player: req.Player, GameID: h.ID}
		if err := games.store.CreateSession(r.Context(), token, sess); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(h.ID, SSEEvent{
			Type:   "player_joined",
			Player: req.Player,
			Amount: req.Payment,
		})

		writeJSON(w, http.StatusOK, JoinResponse{
			Token:  token,
			Player: req.Player,
			GameID: h.ID,
		})
	}
}
