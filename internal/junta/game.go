package junta

import (
	"context"
	"errors"
	"math/big"
	"sync"
)

// Game is a single game instance: the façade gluing the segment schedule,
// the player ledger, the winner registry, and the settlement math into the
// public operation set. State is never shared across games.
//
// Methods are safe for concurrent use. The external adapter boundary is a
// suspension point: the game's lock is never held across an adapter call,
// so a hostile adapter calling back into the game mid-operation observes a
// consistent ledger and is stopped by the one-shot guards, not by deadlock.
type Game struct {
	mu      sync.Mutex
	cfg     Config
	sched   schedule
	clock   Clock
	adapter YieldAdapter
	gate    MembershipGate
	vault   IncentiveVault

	players *ledger
	winners winnerRegistry

	// Settlement results. Zero-valued until settled.
	originalPrincipal *big.Int
	grossInterest     *big.Int
	totalInterest     *big.Int
	totalIncentive    *big.Int
	rewardPerWinner   *big.Int
	adminFee          *big.Int
	adminRewards      *big.Int
	adminIncentive    *big.Int
	lossShareBps      int64

	settling          bool
	settled           bool
	adminFeeWithdrawn bool
	incentiveClaimed  bool
	paused            bool
	renounceUnlocked  bool
	renounced         bool
}

// New constructs a game. gate and vault may be nil: without a gate every
// join is allowed, without a vault the incentive amount is zero.
func New(cfg Config, adapter YieldAdapter, gate MembershipGate, vault IncentiveVault, clock Clock) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Game{
		cfg:               cfg,
		sched:             newSchedule(cfg),
		clock:             clock,
		adapter:           adapter,
		gate:              gate,
		vault:             vault,
		players:           newLedger(),
		originalPrincipal: new(big.Int),
		grossInterest:     new(big.Int),
		totalInterest:     new(big.Int),
		totalIncentive:    new(big.Int),
		rewardPerWinner:   new(big.Int),
		adminFee:          new(big.Int),
		adminRewards:      new(big.Int),
		adminIncentive:    new(big.Int),
		lossShareBps:      bpsDenominator,
	}, nil
}

// Join admits a player during segment 0. The payment is forwarded to the
// yield source before the ledger is credited; an adapter failure aborts the
// join with no state change.
func (g *Game) Join(ctx context.Context, player string, payment *big.Int, proof [][]byte) error {
	g.mu.Lock()
	err := g.checkJoinLocked(player, payment, proof)
	g.mu.Unlock()
	if err != nil {
		return err
	}

	if err := g.adapter.Deposit(ctx, payment); err != nil {
		return errf(ErrAdapter, "forwarding join payment: %v", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// The adapter call is a suspension point; revalidate before crediting.
	// If the window closed meanwhile the forwarded payment stays in the
	// pool and surfaces as interest at settlement.
	if err := g.checkJoinLocked(player, payment, proof); err != nil {
		return err
	}
	acct := g.players.join(player, payment)
	if g.cfg.SegmentCount == 1 {
		// Single-segment game: the join payment is the only payment due.
		acct.IsWinner = true
		acct.WinnerIndex = g.winners.add(player)
	}
	return nil
}

func (g *Game) checkJoinLocked(player string, payment *big.Int, proof [][]byte) error {
	if g.paused {
		return ErrPaused
	}
	if g.sched.segmentAt(g.clock.Now()) != 0 {
		return ErrGameStarted
	}
	if g.gate != nil && !g.gate.Verify(player, proof) {
		return ErrInvalidProof
	}
	return g.players.checkJoin(player, payment, g.cfg.SegmentPayment, g.cfg.MaxPlayers)
}

// Deposit records the payment due for the current segment. Deposits are
// accepted in segments 1 through SegmentCount-1 only; the segment after the
// last accepted deposit is reserved for yield accrual. The deposit that
// completes the schedule marks the player a winner.
func (g *Game) Deposit(ctx context.Context, player string, payment *big.Int, proof [][]byte) error {
	g.mu.Lock()
	_, err := g.checkDepositLocked(player, payment, proof)
	g.mu.Unlock()
	if err != nil {
		return err
	}

	if err := g.adapter.Deposit(ctx, payment); err != nil {
		return errf(ErrAdapter, "forwarding deposit: %v", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	segment, err := g.checkDepositLocked(player, payment, proof)
	if err != nil {
		return err
	}
	acct := g.players.deposit(player, payment, segment)
	if segment == g.sched.lastDepositSegment() && !acct.IsWinner {
		acct.IsWinner = true
		acct.WinnerIndex = g.winners.add(player)
	}
	return nil
}

func (g *Game) checkDepositLocked(player string, payment *big.Int, proof [][]byte) (int, error) {
	if g.paused {
		return 0, ErrPaused
	}
	segment := g.sched.segmentAt(g.clock.Now())
	if segment < 1 || segment > g.sched.lastDepositSegment() {
		return 0, ErrDepositWindowClosed
	}
	if g.gate != nil && !g.gate.Verify(player, proof) {
		return 0, ErrInvalidProof
	}
	return segment, g.players.checkDeposit(player, payment, g.cfg.SegmentPayment, segment)
}

// EarlyExit withdraws a player before the game completes, minus the early
// withdrawal fee. The ledger is debited before the adapter releases funds,
// and a shortfall or failure on the adapter side is absorbed: the exit
// stands and the refund is whatever the source actually released. An exit
// during segment 0 leaves the player eligible to rejoin the same game.
func (g *Game) EarlyExit(ctx context.Context, player string) (*big.Int, error) {
	g.mu.Lock()
	if g.paused {
		g.mu.Unlock()
		return nil, ErrPaused
	}
	acct := g.players.account(player)
	if acct == nil {
		g.mu.Unlock()
		return nil, ErrNotPlayer
	}
	if acct.Withdrawn {
		g.mu.Unlock()
		return nil, ErrAlreadyWithdrawn
	}
	segment := g.sched.segmentAt(g.clock.Now())
	if segment >= g.cfg.SegmentCount {
		g.mu.Unlock()
		return nil, ErrGameCompleted
	}
	_, refund := g.players.exit(acct, g.cfg.EarlyWithdrawalFeeBps, segment == 0)
	if acct.IsWinner {
		g.winners.removeAt(acct.WinnerIndex)
		acct.IsWinner = false
		acct.WinnerIndex = -1
	}
	g.mu.Unlock()

	actual, err := g.adapter.Withdraw(ctx, refund)
	if err != nil {
		// Absorbed, never retried: the exit already happened and the
		// player must not be blocked by the yield source.
		return new(big.Int), nil
	}
	return actual, nil
}

// Settle redeems the whole position from the yield source and fixes the
// interest, reward, fee, and loss-adjustment figures. Callable once, by
// anyone, after the final segment has elapsed. An adapter error leaves the
// game unsettled and retryable; a shortfall in the amounts returned is
// absorbed through the impermanent-loss adjustment instead.
func (g *Game) Settle(ctx context.Context) (*SettlementReport, error) {
	g.mu.Lock()
	if g.settled || g.settling {
		g.mu.Unlock()
		return nil, ErrAlreadySettled
	}
	if !g.sched.completedAt(g.clock.Now()) {
		g.mu.Unlock()
		return nil, ErrGameNotCompleted
	}
	g.settling = true
	g.mu.Unlock()

	principal, gross, rewards, err := g.adapter.RedeemAll(ctx)
	if err != nil {
		g.mu.Lock()
		g.settling = false
		g.mu.Unlock()
		return nil, errf(ErrAdapter, "redeeming position: %v", err)
	}

	incentive := new(big.Int)
	if g.vault != nil {
		if bal, err := g.vault.Drain(ctx); err == nil {
			incentive = bal
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.originalPrincipal.Set(g.players.total)
	out := settleFunds(g.originalPrincipal, gross, rewards, incentive, g.cfg.AdminFeeBps, g.winners.count())
	g.grossInterest = out.grossInterest
	g.totalInterest = out.totalInterest
	g.totalIncentive = incentive
	g.rewardPerWinner = out.rewardPerWinner
	g.adminFee = out.adminFee
	g.adminRewards = out.adminRewards
	g.adminIncentive = out.adminIncentive
	g.lossShareBps = out.lossShareBps
	g.settled = true
	g.settling = false

	return &SettlementReport{
		PrincipalReturned: principal,
		GrossBalance:      gross,
		RewardBalance:     rewards,
		GrossInterest:     new(big.Int).Set(out.grossInterest),
		AdminFee:          new(big.Int).Set(out.adminFee),
		TotalInterest:     new(big.Int).Set(out.totalInterest),
		RewardPerWinner:   new(big.Int).Set(out.rewardPerWinner),
		IncentiveAmount:   new(big.Int).Set(incentive),
		LossShareBps:      out.lossShareBps,
		WinnerCount:       g.winners.count(),
		Winners:           g.winners.players(),
	}, nil
}

// WithdrawalReceipt breaks down a player's final payout.
type WithdrawalReceipt struct {
	Player    string   `json:"player"`
	Principal *big.Int `json:"principal"`
	Interest  *big.Int `json:"interest"`
	Reward    *big.Int `json:"reward"`
	Incentive *big.Int `json:"incentive"`
	Total     *big.Int `json:"total"`
}

// Withdraw pays a player out after the game ends, settling first if nobody
// has. Winners receive their (loss-adjusted) principal plus an equal share
// of interest and rewards; the first winner to withdraw also takes the whole
// donated incentive balance. Everyone else receives principal only. The
// account is marked withdrawn before any funds move, and never pays twice.
func (g *Game) Withdraw(ctx context.Context, player string) (*WithdrawalReceipt, error) {
	g.mu.Lock()
	needSettle := !g.settled
	g.mu.Unlock()
	if needSettle {
		if _, err := g.Settle(ctx); err != nil && !errors.Is(err, ErrAlreadySettled) {
			return nil, err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.settled {
		// A concurrent settlement is still in flight.
		return nil, ErrGameNotCompleted
	}
	acct := g.players.account(player)
	if acct == nil {
		return nil, ErrNotPlayer
	}
	if acct.Withdrawn {
		return nil, ErrAlreadyWithdrawn
	}

	r := &WithdrawalReceipt{
		Player:    player,
		Principal: scaledPrincipal(acct.AmountPaid, g.lossShareBps),
		Interest:  new(big.Int),
		Reward:    new(big.Int),
		Incentive: new(big.Int),
	}
	if acct.IsWinner && g.winners.count() > 0 {
		r.Interest.Quo(g.totalInterest, big.NewInt(int64(g.winners.count())))
		r.Reward.Set(g.rewardPerWinner)
		if !g.incentiveClaimed && g.totalIncentive.Sign() > 0 {
			// The whole incentive balance goes to whichever winner gets
			// here first.
			r.Incentive.Set(g.totalIncentive)
			g.incentiveClaimed = true
		}
	}
	r.Total = new(big.Int).Add(r.Principal, r.Interest)
	r.Total.Add(r.Total, r.Reward)
	r.Total.Add(r.Total, r.Incentive)

	acct.Withdrawn = true
	return r, nil
}

// WithdrawAdminFee pays the operator's share once the game is settled: the
// admin fee, plus the full reward and incentive balances when the game ended
// with no winners.
func (g *Game) WithdrawAdminFee(ctx context.Context) (*big.Int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.settled {
		return nil, ErrGameNotCompleted
	}
	if g.adminFeeWithdrawn {
		return nil, ErrAdminFeeClaimed
	}
	total := new(big.Int).Add(g.adminFee, g.adminRewards)
	total.Add(total, g.adminIncentive)
	if total.Sign() == 0 {
		return nil, ErrNothingToClaim
	}
	g.adminFeeWithdrawn = true
	return total, nil
}

// Pause freezes join, deposit, and early exit. Withdrawals are never
// paused, so players can always leave a frozen game once it ends.
func (g *Game) Pause() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.renounced {
		return ErrOwnershipRenounced
	}
	g.paused = true
	return nil
}

func (g *Game) Unpause() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.renounced {
		return ErrOwnershipRenounced
	}
	g.paused = false
	return nil
}

// AllowRenounceOwnership unlocks RenounceOwnership. The two-step dance
// exists so that admin control cannot be lost by a single slip.
func (g *Game) AllowRenounceOwnership() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.renounced {
		return ErrOwnershipRenounced
	}
	g.renounceUnlocked = true
	return nil
}

func (g *Game) RenounceOwnership() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.renounced {
		return ErrOwnershipRenounced
	}
	if !g.renounceUnlocked {
		return ErrRenounceLocked
	}
	g.renounced = true
	return nil
}
