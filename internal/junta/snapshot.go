package junta

import "math/big"

// Snapshot is the full serializable state of a game, taken after every
// successful mutation so a restarted server can rehydrate live games.
type Snapshot struct {
	Config   Config          `json:"config"`
	Accounts []PlayerAccount `json:"accounts"`
	// WinnerSlots preserves tombstones; removed winners hold the empty
	// string so slot indexes stay stable across restarts.
	WinnerSlots []string `json:"winnerSlots"`

	OriginalTotalPrincipal *big.Int `json:"originalTotalPrincipal"`
	GrossInterest          *big.Int `json:"grossInterest"`
	TotalInterest          *big.Int `json:"totalInterest"`
	TotalIncentiveAmount   *big.Int `json:"totalIncentiveAmount"`
	RewardPerWinner        *big.Int `json:"rewardPerWinner"`
	AdminFeeAmount         *big.Int `json:"adminFeeAmount"`
	AdminRewards           *big.Int `json:"adminRewards"`
	AdminIncentive         *big.Int `json:"adminIncentive"`
	LossShareBps           int64    `json:"lossShareBps"`

	Settled           bool `json:"settled"`
	AdminFeeWithdrawn bool `json:"adminFeeWithdrawn"`
	IncentiveClaimed  bool `json:"incentiveClaimed"`
	Paused            bool `json:"paused"`
	RenounceUnlocked  bool `json:"renounceUnlocked"`
	Renounced         bool `json:"renounced"`
}

// Snapshot captures the game's state. The copy shares nothing with the
// live game.
func (g *Game) Snapshot() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := &Snapshot{
		Config:                 g.cfg,
		WinnerSlots:            append([]string(nil), g.winners.slots...),
		OriginalTotalPrincipal: new(big.Int).Set(g.originalPrincipal),
		GrossInterest:          new(big.Int).Set(g.grossInterest),
		TotalInterest:          new(big.Int).Set(g.totalInterest),
		TotalIncentiveAmount:   new(big.Int).Set(g.totalIncentive),
		RewardPerWinner:        new(big.Int).Set(g.rewardPerWinner),
		AdminFeeAmount:         new(big.Int).Set(g.adminFee),
		AdminRewards:           new(big.Int).Set(g.adminRewards),
		AdminIncentive:         new(big.Int).Set(g.adminIncentive),
		LossShareBps:           g.lossShareBps,
		Settled:                g.settled,
		AdminFeeWithdrawn:      g.adminFeeWithdrawn,
		IncentiveClaimed:       g.incentiveClaimed,
		Paused:                 g.paused,
		RenounceUnlocked:       g.renounceUnlocked,
		Renounced:              g.renounced,
	}
	s.Config.SegmentPayment = new(big.Int).Set(g.cfg.SegmentPayment)
	for _, player := range g.players.order {
		acct := g.players.accounts[player]
		cp := *acct
		cp.AmountPaid = new(big.Int).Set(acct.AmountPaid)
		s.Accounts = append(s.Accounts, cp)
	}
	return s
}

// Restore rebuilds a game from a snapshot. The adapter, gate, vault, and
// clock are supplied fresh; they are not part of the snapshot.
func Restore(s *Snapshot, adapter YieldAdapter, gate MembershipGate, vault IncentiveVault, clock Clock) (*Game, error) {
	g, err := New(s.Config, adapter, gate, vault, clock)
	if err != nil {
		return nil, err
	}

	for i := range s.Accounts {
		src := s.Accounts[i]
		acct := &PlayerAccount{
			Player:                src.Player,
			MostRecentSegmentPaid: src.MostRecentSegmentPaid,
			AmountPaid:            new(big.Int).Set(src.AmountPaid),
			IsWinner:              src.IsWinner,
			WinnerIndex:           src.WinnerIndex,
			Withdrawn:             src.Withdrawn,
			EligibleToRejoin:      src.EligibleToRejoin,
		}
		g.players.accounts[acct.Player] = acct
		g.players.order = append(g.players.order, acct.Player)
		if !acct.Withdrawn {
			g.players.active++
			g.players.total.Add(g.players.total, acct.AmountPaid)
		}
	}

	g.winners.slots = append([]string(nil), s.WinnerSlots...)
	for _, p := range s.WinnerSlots {
		if p != tombstone {
			g.winners.live++
		}
	}

	setBig := func(dst **big.Int, src *big.Int) {
		if src != nil {
			*dst = new(big.Int).Set(src)
		}
	}
	setBig(&g.originalPrincipal, s.OriginalTotalPrincipal)
	setBig(&g.grossInterest, s.GrossInterest)
	setBig(&g.totalInterest, s.TotalInterest)
	setBig(&g.totalIncentive, s.TotalIncentiveAmount)
	setBig(&g.rewardPerWinner, s.RewardPerWinner)
	setBig(&g.adminFee, s.AdminFeeAmount)
	setBig(&g.adminRewards, s.AdminRewards)
	setBig(&g.adminIncentive, s.AdminIncentive)
	if s.LossShareBps != 0 {
		g.lossShareBps = s.LossShareBps
	}
	g.settled = s.Settled
	g.adminFeeWithdrawn = s.AdminFeeWithdrawn
	g.incentiveClaimed = s.IncentiveClaimed
	g.paused = s.Paused
	g.renounceUnlocked = s.RenounceUnlocked
	g.renounced = s.Renounced
	return g, nil
}
