package junta

import "math/big"

// Read-only accessors. Big integers are returned as copies so callers can't
// alias into the ledger.

func (g *Game) Config() Config {
	cfg := g.cfg
	cfg.SegmentPayment = new(big.Int).Set(g.cfg.SegmentPayment)
	return cfg
}

// CurrentSegment is the segment index derived from elapsed time, clamped to
// SegmentCount once the game is over.
func (g *Game) CurrentSegment() int {
	return g.sched.segmentAt(g.clock.Now())
}

// Phase derives the lifecycle phase from the clock and the settled latch.
func (g *Game) Phase() Phase {
	g.mu.Lock()
	settled := g.settled
	g.mu.Unlock()
	if settled {
		return PhaseSettled
	}
	switch seg := g.sched.segmentAt(g.clock.Now()); {
	case seg == 0:
		return PhaseOpen
	case seg < g.cfg.SegmentCount:
		return PhaseInProgress
	default:
		return PhaseCompleted
	}
}

// Account returns a copy of the player's account, or nil if the player
// never joined.
func (g *Game) Account(player string) *PlayerAccount {
	g.mu.Lock()
	defer g.mu.Unlock()
	acct := g.players.account(player)
	if acct == nil {
		return nil
	}
	cp := *acct
	cp.AmountPaid = new(big.Int).Set(acct.AmountPaid)
	return &cp
}

// Accounts returns copies of every account in first-joined order.
func (g *Game) Accounts() []PlayerAccount {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]PlayerAccount, 0, len(g.players.order))
	for _, player := range g.players.order {
		acct := g.players.accounts[player]
		cp := *acct
		cp.AmountPaid = new(big.Int).Set(acct.AmountPaid)
		out = append(out, cp)
	}
	return out
}

func (g *Game) ActivePlayers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players.active
}

func (g *Game) TotalPrincipal() *big.Int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return new(big.Int).Set(g.players.total)
}

func (g *Game) OriginalTotalPrincipal() *big.Int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return new(big.Int).Set(g.originalPrincipal)
}

func (g *Game) TotalInterest() *big.Int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return new(big.Int).Set(g.totalInterest)
}

func (g *Game) TotalIncentiveAmount() *big.Int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return new(big.Int).Set(g.totalIncentive)
}

func (g *Game) RewardPerWinner() *big.Int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return new(big.Int).Set(g.rewardPerWinner)
}

func (g *Game) AdminFeeAmount() *big.Int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return new(big.Int).Set(g.adminFee)
}

// ImpermanentLossShareBps is 10000 when the pool returned full value, lower
// when every principal payout is being scaled down.
func (g *Game) ImpermanentLossShareBps() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lossShareBps
}

func (g *Game) WinnerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winners.count()
}

// Winners returns the live winners in completion order.
func (g *Game) Winners() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winners.players()
}

func (g *Game) Settled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settled
}

func (g *Game) AdminFeeWithdrawn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.adminFeeWithdrawn
}

func (g *Game) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

func (g *Game) OwnershipRenounced() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.renounced
}
