package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/playperu/junta/internal/junta"
)

// AdminCreateGameRequest is the request body for creating a game. Amounts
// are decimal strings in token base units; segmentLength is a Go duration
// string such as "24h".
type AdminCreateGameRequest struct {
	Name                  string `json:"name"`
	SegmentCount          int    `json:"segmentCount"`
	SegmentLength         string `json:"segmentLength"`
	SegmentPayment        string `json:"segmentPayment"`
	EarlyWithdrawalFeeBps int64  `json:"earlyWithdrawalFeeBps"`
	AdminFeeBps           int64  `json:"adminFeeBps"`
	MaxPlayers            int    `json:"maxPlayers"`
	StartTime             string `json:"startTime,omitempty"`
	GateRoot              string `json:"gateRoot,omitempty"`
}

func (req *AdminCreateGameRequest) config(now time.Time) (junta.Config, string) {
	cfg := junta.Config{
		SegmentCount:          req.SegmentCount,
		EarlyWithdrawalFeeBps: req.EarlyWithdrawalFeeBps,
		AdminFeeBps:           req.AdminFeeBps,
		MaxPlayers:            req.MaxPlayers,
		StartTime:             now,
	}

	length, err := time.ParseDuration(req.SegmentLength)
	if err != nil {
		return cfg, "segmentLength must be a duration such as 24h"
	}
	cfg.SegmentLength = length

	payment, err := parseAmount(req.SegmentPayment)
	if err != nil {
		return cfg, "segmentPayment " + err.Error()
	}
	cfg.SegmentPayment = payment

	if req.StartTime != "" {
		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return cfg, "startTime must be RFC 3339"
		}
		cfg.StartTime = start
	}
	return cfg, ""
}

func handleAdminCreateGame(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminCreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		cfg, msg := req.config(time.Now().UTC())
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if err := cfg.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		h, err := games.Create(r.Context(), req.Name, cfg, req.GateRoot)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, gameView(h))
	}
}

func handleAdminListGames(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := games.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]GameSummary, 0, len(docs))
		for _, doc := range docs {
			out = append(out, summarize(doc))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// AdminGameDetail adds the operator-only figures to the public view.
type AdminGameDetail struct {
	GameView
	GateRoot           string `json:"gateRoot,omitempty"`
	AdminFeeAmount     string `json:"adminFeeAmount"`
	AdminFeeWithdrawn  bool   `json:"adminFeeWithdrawn"`
	OwnershipRenounced bool   `json:"ownershipRenounced"`
	PoolBalance        string `json:"poolBalance"`
}

func handleAdminGetGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := gameFrom(r)
		writeJSON(w, http.StatusOK, AdminGameDetail{
			GameView:           gameView(h),
			GateRoot:           h.GateRoot,
			AdminFeeAmount:     formatAmount(h.Game.AdminFeeAmount()),
			AdminFeeWithdrawn:  h.Game.AdminFeeWithdrawn(),
			OwnershipRenounced: h.Game.OwnershipRenounced(),
			PoolBalance:        formatAmount(h.Pool.Pool()),
		})
	}
}

func handleAdminPause(games *Registry, pause bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := gameFrom(r)
		var err error
		if pause {
			err = h.Game.Pause()
		} else {
			err = h.Game.Unpause()
		}
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, gameView(h))
	}
}

func handleAdminAllowRenounce(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := gameFrom(r)
		if err := h.Game.AllowRenounceOwnership(); err != nil {
			writeEngineError(w, err)
			return
		}
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleAdminRenounce(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := gameFrom(r)
		if err := h.Game.RenounceOwnership(); err != nil {
			writeEngineError(w, err)
			return
		}
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func handleAdminFeeWithdraw(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := gameFrom(r)
		amount, err := h.Game.WithdrawAdminFee(r.Context())
		if err != nil {
			writeEngineError(w, err)
			return
		}
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"amount": formatAmount(amount)})
	}
}

// AdminFundRequest carries a single amount in token base units.
type AdminFundRequest struct {
	Amount string `json:"amount"`
}

// handleAdminFundIncentive donates a bonus balance to the game's yield
// pool. The donation is split among winners at settlement.
func handleAdminFundIncentive(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminFundRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		amount, err := parseAmount(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		h := gameFrom(r)
		if h.Game.Settled() {
			writeError(w, http.StatusConflict, "game already settled")
			return
		}
		h.Pool.DonateIncentive(amount)
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// AdminValueShareRequest sets the simulated pool's redemption value, in
// basis points of deposited principal. 10000 is par; below par simulates
// impermanent loss, above par simulates interest.
type AdminValueShareRequest struct {
	ValueShareBps int64 `json:"valueShareBps"`
}

func handleAdminSetValueShare(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminValueShareRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ValueShareBps <= 0 {
			writeError(w, http.StatusBadRequest, "valueShareBps must be positive")
			return
		}

		h := gameFrom(r)
		if h.Game.Settled() {
			writeError(w, http.StatusConflict, "game already settled")
			return
		}
		h.Pool.SetValueShareBps(req.ValueShareBps)
		if err := games.Save(r.Context(), h); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
