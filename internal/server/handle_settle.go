package server

import (
	"net/http"
)

type SettleResponse struct {
	PrincipalReturned string   `json:"principalReturned"`
	GrossBalance      string   `json:"grossBalance"`
	GrossInterest     string   `json:"grossInterest"`
	AdminFee          string   `json:"adminFee"`
	TotalInterest     string   `json:"totalInterest"`
	RewardPerWinner   string   `json:"rewardPerWinner"`
	IncentiveAmount   string   `json:"incentiveAmount"`
	LossShareBps      int64    `json:"lossShareBps"`
	WinnerCount       int      `json:"winnerCount"`
	Winners           []string `json:"winners"`
}

// Settlement is permissionless: any caller may trigger it once the schedule
// has run out, so a stalled operator cannot trap player funds.
func handleSettle(games *Registry, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := gameFrom(r)
		report, err := h.Game.Settle(r.Context())
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(h.ID, SSEEvent{
			Type:   "settled",
			Amount: formatAmount(report.GrossBalance),
		})

		writeJSON(w, http.StatusOK, SettleResponse{
			PrincipalReturned: formatAmount(report.PrincipalReturned),
			GrossBalance:      formatAmount(report.GrossBalance),
			GrossInterest:     formatAmount(report.GrossInterest),
			AdminFee:          formatAmount(report.AdminFee),
			TotalInterest:     formatAmount(report.TotalInterest),
			RewardPerWinner:   formatAmount(report.RewardPerWinner),
			IncentiveAmount:   formatAmount(report.IncentiveAmount),
			LossShareBps:      report.LossShareBps,
			WinnerCount:       report.WinnerCount,
			Winners:           report.Winners,
		})
	}
}
