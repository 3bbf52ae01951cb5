package server

import (
	"net/http"
)

type DepositRequest struct {
	Payment string   `json:"payment"`
	Proof   []string `json:"proof,omitempty"`
}

type DepositResponse struct {
	Player                string `json:"player"`
	MostRecentSegmentPaid int    `json:"mostRecentSegmentPaid"`
	AmountPaid            string `json:"amountPaid"`
	IsWinner              bool   `json:"isWinner"`
}

func handleDeposit(games *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, games)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid session")
			return
		}
		player := sess.Player

		var req DepositRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
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
		if err := h.Game.Deposit(r.Context(), player, payment, proof); err != nil {
			writeEngineError(w, err)
			return
		}
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		acct := h.Game.Account(player)
		broker.Publish(h.ID, SSEEvent{
			Type:    "deposit",
			Player:  player,
			Segment: acct.MostRecentSegmentPaid,
			Amount:  req.Payment,
		})

		resp := DepositResponse{
			Player:                player,
			MostRecentSegmentPaid: acct.MostRecentSegmentPaid,
			AmountPaid:            formatAmount(acct.AmountPaid),
			IsWinner:              acct.IsWinner,
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
