package server

import (
	"net/http"
)

type ExitResponse struct {
	Player string `json:"player"`
	Refund string `json:"refund"`
}

func handleEarlyExit(games *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, games)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid session")
			return
		}
		player := sess.Player

		h := gameFrom(r)
		refund, err := h.Game.EarlyExit(r.Context(), player)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(h.ID, SSEEvent{
			Type:   "early_exit",
			Player: player,
			Amount: formatAmount(refund),
		})

		writeJSON(w, http.StatusOK, ExitResponse{
			Player: player,
			Refund: formatAmount(refund),
		})
	}
}
