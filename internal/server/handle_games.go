package server

import (
	"net/http"
	"time"

	"github.com/playperu/junta/internal/junta"
)

// GameSummary is the public listing view of a game, rendered straight from
// the persisted snapshot without rehydrating the engine.
type GameSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CreatedAt      string `json:"createdAt"`
	Gated          bool   `json:"gated"`
	SegmentCount   int    `json:"segmentCount"`
	SegmentLength  string `json:"segmentLength"`
	SegmentPayment string `json:"segmentPayment"`
	StartTime      string `json:"startTime"`
	MaxPlayers     int    `json:"maxPlayers"`
	Players        int    `json:"players"`
	Settled        bool   `json:"settled"`
}

// GameView is the per-game public view served from the live instance.
type GameView struct {
	GameSummary
	Phase                 string `json:"phase"`
	CurrentSegment        int    `json:"currentSegment"`
	ActivePlayers         int    `json:"activePlayers"`
	TotalPrincipal        string `json:"totalPrincipal"`
	WinnerCount           int    `json:"winnerCount"`
	EarlyWithdrawalFeeBps int64  `json:"earlyWithdrawalFeeBps"`
	AdminFeeBps           int64  `json:"adminFeeBps"`
	Paused                bool   `json:"paused"`
}

func summarize(doc gameDoc) GameSummary {
	s := GameSummary{
		ID:        doc.ID,
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		Gated:     doc.GateRoot != "",
	}
	if doc.Game != nil {
		cfg := doc.Game.Config
		s.SegmentCount = cfg.SegmentCount
		s.SegmentLength = cfg.SegmentLength.String()
		s.SegmentPayment = formatAmount(cfg.SegmentPayment)
		s.StartTime = cfg.StartTime.UTC().Format(time.RFC3339)
		s.MaxPlayers = cfg.MaxPlayers
		s.Players = len(doc.Game.Accounts)
		s.Settled = doc.Game.Settled
	}
	return s
}

func handleListGames(games *Registry) http.HandlerFunc {
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

func handleGetGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := gameFrom(r)
		writeJSON(w, http.StatusOK, gameView(h))
	}
}

func gameView(h *GameHandle) GameView {
	cfg := h.Game.Config()
	return GameView{
		GameSummary: GameSummary{
			ID:             h.ID,
			Name:           h.Name,
			CreatedAt:      h.CreatedAt,
			Gated:          h.GateRoot != "",
			SegmentCount:   cfg.SegmentCount,
			SegmentLength:  cfg.SegmentLength.String(),
			SegmentPayment: formatAmount(cfg.SegmentPayment),
			StartTime:      cfg.StartTime.UTC().Format(time.RFC3339),
			MaxPlayers:     cfg.MaxPlayers,
			Players:        len(h.Game.Accounts()),
			Settled:        h.Game.Settled(),
		},
		Phase:                 string(h.Game.Phase()),
		CurrentSegment:        h.Game.CurrentSegment(),
		ActivePlayers:         h.Game.ActivePlayers(),
		TotalPrincipal:        formatAmount(h.Game.TotalPrincipal()),
		WinnerCount:           h.Game.WinnerCount(),
		EarlyWithdrawalFeeBps: cfg.EarlyWithdrawalFeeBps,
		AdminFeeBps:           cfg.AdminFeeBps,
		Paused:                h.Game.Paused(),
	}
}

// AccountView is the wire form of one player's payment record.
type AccountView struct {
	Player                string `json:"player"`
	MostRecentSegmentPaid int    `json:"mostRecentSegmentPaid"`
	AmountPaid            string `json:"amountPaid"`
	IsWinner              bool   `json:"isWinner"`
	Withdrawn             bool   `json:"withdrawn"`
	EligibleToRejoin      bool   `json:"eligibleToRejoin"`
}

// GameStateResponse is the full public state dump: the game view plus every
// account and the settlement figures once they exist.
type GameStateResponse struct {
	GameView
	Accounts        []AccountView `json:"accounts"`
	Winners         []string      `json:"winners"`
	TotalInterest   string        `json:"totalInterest"`
	RewardPerWinner string        `json:"rewardPerWinner"`
	IncentiveAmount string        `json:"incentiveAmount"`
	LossShareBps    int64         `json:"lossShareBps"`
}

func handleGameState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := gameFrom(r)

		accounts := h.Game.Accounts()
		views := make([]AccountView, 0, len(accounts))
		for _, a := range accounts {
			views = append(views, accountView(a))
		}

		writeJSON(w, http.StatusOK, GameStateResponse{
			GameView:        gameView(h),
			Accounts:        views,
			Winners:         h.Game.Winners(),
			TotalInterest:   formatAmount(h.Game.TotalInterest()),
			RewardPerWinner: formatAmount(h.Game.RewardPerWinner()),
			IncentiveAmount: formatAmount(h.Game.TotalIncentiveAmount()),
			LossShareBps:    h.Game.ImpermanentLossShareBps(),
		})
	}
}

func accountView(a junta.PlayerAccount) AccountView {
	return AccountView{
		Player:                a.Player,
		MostRecentSegmentPaid: a.MostRecentSegmentPaid,
		AmountPaid:            formatAmount(a.AmountPaid),
		IsWinner:              a.IsWinner,
		Withdrawn:             a.Withdrawn,
		EligibleToRejoin:      a.EligibleToRejoin,
	}
}
