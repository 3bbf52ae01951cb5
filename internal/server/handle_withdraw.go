package server

import (
	"net/http"
)

type WithdrawResponse struct {
	Player    string `json:"player"`
	Principal string `json:"principal"`
	Interest  string `json:"interest"`
	Reward    string `json:"reward"`
	Incentive string `json:"incentive"`
	Total     string `json:"total"`
}

func handleWithdraw(games *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := playerFromRequest(r, games)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing or invalid session")
			return
		}
		player := sess.Player

		h := gameFrom(r)
		receipt, err := h.Game.Withdraw(r.Context(), player)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(h.ID, SSEEvent{
			Type:   "withdrawal",
			Player: player,
			Amount: formatAmount(receipt.Total),
		})

		writeJSON(w, http.StatusOK, WithdrawResponse{
			Player:    receipt.Player,
			Principal: formatAmount(receipt.Principal),
			Interest:  formatAmount(receipt.Interest),
			Reward:    formatAmount(receipt.Reward),
			Incentive: formatAmount(receipt.Incentive),
			Total:     formatAmount(receipt.Total),
		})
	}
}
