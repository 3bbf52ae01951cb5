package junta

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/playperu/junta/internal/gate"
	"github.com/playperu/junta/internal/yield"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// Amounts are in tenths of a token so fee splits stay integral.
func units(tokens int64) *big.Int {
	return big.NewInt(tokens * 10)
}

func testConfig(segments int) Config {
	return Config{
		SegmentCount:          segments,
		SegmentLength:         time.Hour,
		SegmentPayment:        units(10),
		EarlyWithdrawalFeeBps: 1000, // 10%
		AdminFeeBps:           500,  // 5%
		MaxPlayers:            8,
		StartTime:             testStart,
	}
}

func newTestGame(t *testing.T, segments int) (*Game, *clockwork.FakeClock, *yield.Sim) {
	t.Helper()
	sim := yield.NewSim()
	clk := clockwork.NewFakeClockAt(testStart)
	g, err := New(testConfig(segments), sim, nil, sim, clk)
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	return g, clk, sim
}

func nextSegment(clk *clockwork.FakeClock) {
	clk.Advance(time.Hour)
}

// completeSchedule joins and makes every deposit for the given player.
func completeSchedule(t *testing.T, g *Game, clk *clockwork.FakeClock, player string) {
	t.Helper()
	if err := g.Join(context.Background(), player, units(10), nil); err != nil {
		t.Fatalf("%s join: %v", player, err)
	}
	for seg := 1; seg < g.cfg.SegmentCount; seg++ {
		nextSegment(clk)
		if err := g.Deposit(context.Background(), player, units(10), nil); err != nil {
			t.Fatalf("%s deposit segment %d: %v", player, seg, err)
		}
	}
	nextSegment(clk) // into the accrual window
}

// Scenario: one player completes six segments of 10 tokens, the pool
// returns 66 on 60, admin fee 5%. Gross interest 6, admin fee 0.3, winner
// interest 5.7, payout 65.7.
func TestSinglePlayerFullCycle(t *testing.T) {
	g, clk, sim := newTestGame(t, 6)
	ctx := context.Background()

	completeSchedule(t, g, clk, "alice")

	if got := g.TotalPrincipal(); got.Cmp(units(60)) != 0 {
		t.Fatalf("total principal = %s, want %s", got, units(60))
	}
	if g.WinnerCount() != 1 {
		t.Fatalf("winner count = %d, want 1", g.WinnerCount())
	}
	if g.Phase() != PhaseCompleted {
		t.Fatalf("phase = %s, want %s", g.Phase(), PhaseCompleted)
	}

	sim.SetValueShareBps(11000) // 60 -> 66

	report, err := g.Settle(ctx)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if report.GrossInterest.Cmp(units(6)) != 0 {
		t.Errorf("gross interest = %s, want %s", report.GrossInterest, units(6))
	}
	if report.AdminFee.Int64() != 3 { // 0.3 tokens
		t.Errorf("admin fee = %s, want 3", report.AdminFee)
	}
	if report.TotalInterest.Int64() != 57 { // 5.7 tokens
		t.Errorf("total interest = %s, want 57", report.TotalInterest)
	}

	receipt, err := g.Withdraw(ctx, "alice")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if receipt.Principal.Cmp(units(60)) != 0 {
		t.Errorf("principal payout = %s, want %s", receipt.Principal, units(60))
	}
	if receipt.Interest.Int64() != 57 {
		t.Errorf("interest payout = %s, want 57", receipt.Interest)
	}
	if receipt.Total.Int64() != 657 { // 65.7 tokens
		t.Errorf("total payout = %s, want 657", receipt.Total)
	}

	fee, err := g.WithdrawAdminFee(ctx)
	if err != nil {
		t.Fatalf("admin fee withdraw: %v", err)
	}
	if fee.Int64() != 3 {
		t.Errorf("admin fee paid = %s, want 3", fee)
	}
}

// Scenario: player A misses a deposit and is permanently disqualified; all
// interest routes to the lone winner, A gets back exactly what A paid in.
func TestMissedSegmentDisqualifies(t *testing.T) {
	g, clk, sim := newTestGame(t, 4)
	ctx := context.Background()

	for _, p := range []string{"alice", "bob"} {
		if err := g.Join(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s join: %v", p, err)
		}
	}

	// Segments 1 and 2: both pay.
	for seg := 1; seg <= 2; seg++ {
		nextSegment(clk)
		for _, p := range []string{"alice", "bob"} {
			if err := g.Deposit(ctx, p, units(10), nil); err != nil {
				t.Fatalf("%s deposit segment %d: %v", p, seg, err)
			}
		}
	}

	// Segment 3: only bob pays. Alice's later attempt has a gap.
	nextSegment(clk)
	if err := g.Deposit(ctx, "bob", units(10), nil); err != nil {
		t.Fatalf("bob deposit segment 3: %v", err)
	}
	nextSegment(clk) // game completed

	aliceBefore := g.Account("alice").AmountPaid
	err := g.Deposit(ctx, "alice", units(10), nil)
	if !errors.Is(err, ErrDepositWindowClosed) {
		t.Fatalf("late deposit error = %v, want deposit window closed", err)
	}
	if got := g.Account("alice").AmountPaid; got.Cmp(aliceBefore) != 0 {
		t.Errorf("failed deposit mutated amountPaid: %s -> %s", aliceBefore, got)
	}

	sim.SetValueShareBps(10500)

	if _, err := g.Settle(ctx); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if g.WinnerCount() != 1 {
		t.Fatalf("winner count = %d, want 1", g.WinnerCount())
	}

	ra, err := g.Withdraw(ctx, "alice")
	if err != nil {
		t.Fatalf("alice withdraw: %v", err)
	}
	if ra.Total.Cmp(units(30)) != 0 {
		t.Errorf("alice payout = %s, want exactly %s", ra.Total, units(30))
	}
	if ra.Interest.Sign() != 0 || ra.Reward.Sign() != 0 {
		t.Errorf("non-winner received interest %s reward %s", ra.Interest, ra.Reward)
	}

	rb, err := g.Withdraw(ctx, "bob")
	if err != nil {
		t.Fatalf("bob withdraw: %v", err)
	}
	if rb.Interest.Cmp(g.TotalInterest()) != 0 {
		t.Errorf("bob interest = %s, want all of %s", rb.Interest, g.TotalInterest())
	}
}

// Scenario: an early exit during segment 0 pays the fee, zeroes the pool,
// and leaves the player free to rejoin the same game.
func TestSegmentZeroExitAndRejoin(t *testing.T) {
	g, _, _ := newTestGame(t, 6)
	ctx := context.Background()

	if err := g.Join(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("join: %v", err)
	}
	refund, err := g.EarlyExit(ctx, "alice")
	if err != nil {
		t.Fatalf("early exit: %v", err)
	}
	if refund.Cmp(units(9)) != 0 { // 10 minus the 10% fee
		t.Errorf("refund = %s, want %s", refund, units(9))
	}
	if got := g.TotalPrincipal(); got.Sign() != 0 {
		t.Errorf("total principal after exit = %s, want 0", got)
	}
	if g.ActivePlayers() != 0 {
		t.Errorf("active players = %d, want 0", g.ActivePlayers())
	}

	if err := g.Join(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("rejoin in segment 0: %v", err)
	}
	if got := g.TotalPrincipal(); got.Cmp(units(10)) != 0 {
		t.Errorf("total principal after rejoin = %s, want %s", got, units(10))
	}
}

// Scenario: the pool returns 95 against 100 principal. Every principal
// payout scales by 0.95 and interest is zero.
func TestImpermanentLoss(t *testing.T) {
	g, clk, sim := newTestGame(t, 5)
	ctx := context.Background()

	for _, p := range []string{"alice", "bob"} {
		if err := g.Join(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s join: %v", p, err)
		}
	}
	for seg := 1; seg <= 4; seg++ {
		nextSegment(clk)
		for _, p := range []string{"alice", "bob"} {
			if err := g.Deposit(ctx, p, units(10), nil); err != nil {
				t.Fatalf("%s deposit segment %d: %v", p, seg, err)
			}
		}
	}
	nextSegment(clk)

	sim.SetValueShareBps(9500) // 100 -> 95

	report, err := g.Settle(ctx)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if report.LossShareBps != 9500 {
		t.Fatalf("loss share = %d, want 9500", report.LossShareBps)
	}
	if report.TotalInterest.Sign() != 0 {
		t.Errorf("total interest under loss = %s, want 0", report.TotalInterest)
	}

	for _, p := range []string{"alice", "bob"} {
		r, err := g.Withdraw(ctx, p)
		if err != nil {
			t.Fatalf("%s withdraw: %v", p, err)
		}
		want := bpsOf(units(50), 9500)
		if r.Principal.Cmp(want) != 0 {
			t.Errorf("%s principal = %s, want %s", p, r.Principal, want)
		}
		if r.Interest.Sign() != 0 {
			t.Errorf("%s interest under loss = %s, want 0", p, r.Interest)
		}
	}
}

func TestContiguityGapAlwaysFails(t *testing.T) {
	g, clk, _ := newTestGame(t, 6)
	ctx := context.Background()

	if err := g.Join(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("join: %v", err)
	}
	nextSegment(clk)
	if err := g.Deposit(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("deposit segment 1: %v", err)
	}
	nextSegment(clk) // segment 2, skipped
	nextSegment(clk) // segment 3

	before := g.Account("alice").AmountPaid
	err := g.Deposit(ctx, "alice", units(10), nil)
	if !errors.Is(err, ErrMissedSegment) {
		t.Fatalf("gapped deposit error = %v, want missed segment", err)
	}
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("missed segment should classify as a precondition violation")
	}
	if got := g.Account("alice").AmountPaid; got.Cmp(before) != 0 {
		t.Errorf("failed deposit mutated amountPaid")
	}

	// The disqualification is permanent: the next segment fails too.
	nextSegment(clk)
	if err := g.Deposit(ctx, "alice", units(10), nil); !errors.Is(err, ErrMissedSegment) {
		t.Errorf("deposit after gap error = %v, want missed segment", err)
	}
}

func TestDepositPreconditions(t *testing.T) {
	g, clk, _ := newTestGame(t, 6)
	ctx := context.Background()

	if err := g.Join(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("join: %v", err)
	}

	// No deposits in the join segment.
	if err := g.Deposit(ctx, "alice", units(10), nil); !errors.Is(err, ErrDepositWindowClosed) {
		t.Errorf("segment-0 deposit error = %v, want deposit window closed", err)
	}

	nextSegment(clk)
	if err := g.Deposit(ctx, "mallory", units(10), nil); !errors.Is(err, ErrNotPlayer) {
		t.Errorf("stranger deposit error = %v, want not a player", err)
	}
	if err := g.Deposit(ctx, "alice", units(11), nil); !errors.Is(err, ErrInvalidPayment) {
		t.Errorf("wrong amount error = %v, want invalid payment", err)
	}
	if err := g.Deposit(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := g.Deposit(ctx, "alice", units(10), nil); !errors.Is(err, ErrAlreadyPaidSegment) {
		t.Errorf("double deposit error = %v, want already paid", err)
	}
}

func TestJoinPreconditions(t *testing.T) {
	g, clk, _ := newTestGame(t, 6)
	ctx := context.Background()

	if err := g.Join(ctx, "alice", units(9), nil); !errors.Is(err, ErrInvalidPayment) {
		t.Errorf("underpaid join error = %v, want invalid payment", err)
	}
	if err := g.Join(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := g.Join(ctx, "alice", units(10), nil); !errors.Is(err, ErrAlreadyJoined) {
		t.Errorf("double join error = %v, want already joined", err)
	}

	for _, p := range []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"} {
		if err := g.Join(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s join: %v", p, err)
		}
	}
	if err := g.Join(ctx, "late", units(10), nil); !errors.Is(err, ErrPoolFull) {
		t.Errorf("ninth join error = %v, want pool full", err)
	}

	nextSegment(clk)
	if err := g.Join(ctx, "later", units(10), nil); !errors.Is(err, ErrGameStarted) {
		t.Errorf("post-start join error = %v, want game started", err)
	}
}

// Conservation: totalPrincipal always equals the sum over active accounts.
func TestPrincipalConservation(t *testing.T) {
	g, clk, _ := newTestGame(t, 6)
	ctx := context.Background()

	check := func(when string) {
		t.Helper()
		g.mu.Lock()
		total := new(big.Int).Set(g.players.total)
		sum := g.players.sumActive()
		g.mu.Unlock()
		if total.Cmp(sum) != 0 {
			t.Errorf("%s: totalPrincipal %s != active sum %s", when, total, sum)
		}
	}

	for _, p := range []string{"alice", "bob", "carol"} {
		if err := g.Join(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s join: %v", p, err)
		}
		check("after " + p + " joined")
	}

	nextSegment(clk)
	for _, p := range []string{"alice", "bob", "carol"} {
		if err := g.Deposit(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s deposit: %v", p, err)
		}
		check("after " + p + " deposited")
	}

	if _, err := g.EarlyExit(ctx, "bob"); err != nil {
		t.Fatalf("bob exit: %v", err)
	}
	check("after bob exited")

	// Failed calls leave the invariant intact.
	g.Deposit(ctx, "bob", units(10), nil)
	g.Deposit(ctx, "alice", units(10), nil)
	g.Join(ctx, "dave", units(7), nil)
	check("after rejected calls")
}

func TestOneShotGuards(t *testing.T) {
	g, clk, sim := newTestGame(t, 2)
	ctx := context.Background()

	completeSchedule(t, g, clk, "alice")
	sim.SetValueShareBps(11000)

	if _, err := g.Settle(ctx); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if _, err := g.Settle(ctx); !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("second settle error = %v, want already settled", err)
	}
	if _, err := g.Settle(ctx); !errors.Is(err, ErrOneShot) {
		t.Errorf("second settle should classify as one-shot violation")
	}

	if _, err := g.Withdraw(ctx, "alice"); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := g.Withdraw(ctx, "alice"); !errors.Is(err, ErrAlreadyWithdrawn) {
		t.Errorf("second withdraw error = %v, want already withdrawn", err)
	}

	if _, err := g.WithdrawAdminFee(ctx); err != nil {
		t.Fatalf("admin fee withdraw: %v", err)
	}
	if _, err := g.WithdrawAdminFee(ctx); !errors.Is(err, ErrAdminFeeClaimed) {
		t.Errorf("second admin fee withdraw error = %v, want already claimed", err)
	}
}

// Winner-exclusivity: interest paid across winners sums to totalInterest
// within rounding dust, and non-winners get none.
func TestWinnerExclusivityOfInterest(t *testing.T) {
	g, clk, sim := newTestGame(t, 3)
	ctx := context.Background()

	players := []string{"alice", "bob", "carol"}
	for _, p := range players {
		if err := g.Join(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s join: %v", p, err)
		}
	}
	nextSegment(clk)
	for _, p := range players {
		if err := g.Deposit(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s deposit 1: %v", p, err)
		}
	}
	nextSegment(clk)
	// Carol stops paying; alice and bob finish.
	for _, p := range []string{"alice", "bob"} {
		if err := g.Deposit(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s deposit 2: %v", p, err)
		}
	}
	nextSegment(clk)

	sim.SetValueShareBps(10700)
	if _, err := g.Settle(ctx); err != nil {
		t.Fatalf("settle: %v", err)
	}

	total := g.TotalInterest()
	paid := new(big.Int)
	for _, p := range players {
		r, err := g.Withdraw(ctx, p)
		if err != nil {
			t.Fatalf("%s withdraw: %v", p, err)
		}
		if p == "carol" && r.Interest.Sign() != 0 {
			t.Errorf("non-winner carol received interest %s", r.Interest)
		}
		paid.Add(paid, r.Interest)
	}

	dust := new(big.Int).Sub(total, paid)
	if dust.Sign() < 0 || dust.Cmp(big.NewInt(2)) > 0 { // < winner count
		t.Errorf("interest paid %s vs total %s, dust %s out of range", paid, total, dust)
	}
}

// No-winner sweep: with zero winners the admin claim is the full gross
// interest plus reward and incentive balances, and division never panics.
func TestNoWinnerSweep(t *testing.T) {
	g, clk, sim := newTestGame(t, 3)
	ctx := context.Background()

	if err := g.Join(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("join: %v", err)
	}
	// Alice never deposits again: no winners.
	nextSegment(clk)
	nextSegment(clk)
	nextSegment(clk)

	sim.SetValueShareBps(11000)
	sim.AccrueRewards(units(4))
	sim.DonateIncentive(units(2))

	report, err := g.Settle(ctx)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if report.WinnerCount != 0 {
		t.Fatalf("winner count = %d, want 0", report.WinnerCount)
	}

	r, err := g.Withdraw(ctx, "alice")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if r.Interest.Sign() != 0 || r.Reward.Sign() != 0 || r.Incentive.Sign() != 0 {
		t.Errorf("no-winner player payout includes bonus: %+v", r)
	}

	fee, err := g.WithdrawAdminFee(ctx)
	if err != nil {
		t.Fatalf("admin fee withdraw: %v", err)
	}
	// 1 token interest + 4 reward + 2 incentive.
	want := new(big.Int).Add(units(1), units(6))
	if fee.Cmp(want) != 0 {
		t.Errorf("admin sweep = %s, want %s", fee, want)
	}
}

// The donated incentive balance goes in full to the first winner who
// withdraws, not pro-rata.
func TestIncentiveGoesToFirstWithdrawer(t *testing.T) {
	g, clk, sim := newTestGame(t, 2)
	ctx := context.Background()

	for _, p := range []string{"alice", "bob"} {
		if err := g.Join(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s join: %v", p, err)
		}
	}
	nextSegment(clk)
	for _, p := range []string{"alice", "bob"} {
		if err := g.Deposit(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s deposit: %v", p, err)
		}
	}
	nextSegment(clk)

	sim.DonateIncentive(units(5))

	rb, err := g.Withdraw(ctx, "bob") // implicit settle
	if err != nil {
		t.Fatalf("bob withdraw: %v", err)
	}
	if rb.Incentive.Cmp(units(5)) != 0 {
		t.Errorf("first withdrawer incentive = %s, want %s", rb.Incentive, units(5))
	}

	ra, err := g.Withdraw(ctx, "alice")
	if err != nil {
		t.Fatalf("alice withdraw: %v", err)
	}
	if ra.Incentive.Sign() != 0 {
		t.Errorf("second withdrawer incentive = %s, want 0", ra.Incentive)
	}
}

// A winner who exits early after the final deposit loses the winner slot;
// the slot is tombstoned and shares divide among the remaining winners.
func TestWinnerEarlyExitTombstones(t *testing.T) {
	g, clk, sim := newTestGame(t, 2)
	ctx := context.Background()

	for _, p := range []string{"alice", "bob"} {
		if err := g.Join(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s join: %v", p, err)
		}
	}
	nextSegment(clk)
	for _, p := range []string{"alice", "bob"} {
		if err := g.Deposit(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s deposit: %v", p, err)
		}
	}
	if g.WinnerCount() != 2 {
		t.Fatalf("winner count = %d, want 2", g.WinnerCount())
	}

	// Alice bails during the accrual window, before completion.
	if _, err := g.EarlyExit(ctx, "alice"); err != nil {
		t.Fatalf("alice exit: %v", err)
	}
	if g.WinnerCount() != 1 {
		t.Fatalf("winner count after exit = %d, want 1", g.WinnerCount())
	}
	if acct := g.Account("alice"); acct.IsWinner {
		t.Error("exited player still marked winner")
	}

	nextSegment(clk)
	sim.SetValueShareBps(11000)
	if _, err := g.Settle(ctx); err != nil {
		t.Fatalf("settle: %v", err)
	}

	r, err := g.Withdraw(ctx, "bob")
	if err != nil {
		t.Fatalf("bob withdraw: %v", err)
	}
	if r.Interest.Cmp(g.TotalInterest()) != 0 {
		t.Errorf("sole winner interest = %s, want %s", r.Interest, g.TotalInterest())
	}
}

func TestEarlyExitAfterCompletionRejected(t *testing.T) {
	g, clk, _ := newTestGame(t, 2)
	ctx := context.Background()

	completeSchedule(t, g, clk, "alice")

	if _, err := g.EarlyExit(ctx, "alice"); !errors.Is(err, ErrGameCompleted) {
		t.Errorf("post-completion exit error = %v, want game completed", err)
	}
}

func TestPartialLiquidityExit(t *testing.T) {
	g, clk, sim := newTestGame(t, 6)
	ctx := context.Background()

	if err := g.Join(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("join: %v", err)
	}
	nextSegment(clk)
	if err := g.Deposit(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// The source can only release 5 tokens right now.
	sim.SetLiquidity(units(5))

	refund, err := g.EarlyExit(ctx, "alice")
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	if refund.Cmp(units(5)) != 0 {
		t.Errorf("refund = %s, want the available %s", refund, units(5))
	}
	if !g.Account("alice").Withdrawn {
		t.Error("exit with shortfall did not complete")
	}
}

func TestPauseGatesEntryNotExit(t *testing.T) {
	g, clk, sim := newTestGame(t, 2)
	ctx := context.Background()

	for _, p := range []string{"alice", "bob"} {
		if err := g.Join(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s join: %v", p, err)
		}
	}

	if err := g.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := g.Join(ctx, "carol", units(10), nil); !errors.Is(err, ErrPaused) {
		t.Errorf("paused join error = %v, want paused", err)
	}
	if _, err := g.EarlyExit(ctx, "alice"); !errors.Is(err, ErrPaused) {
		t.Errorf("paused exit error = %v, want paused", err)
	}
	nextSegment(clk)
	if err := g.Deposit(ctx, "bob", units(10), nil); !errors.Is(err, ErrPaused) {
		t.Errorf("paused deposit error = %v, want paused", err)
	}

	// Withdrawals are never paused.
	nextSegment(clk)
	sim.SetValueShareBps(10200)
	if _, err := g.Withdraw(ctx, "alice"); err != nil {
		t.Fatalf("withdraw while paused: %v", err)
	}
}

func TestRenounceOwnershipTwoStep(t *testing.T) {
	g, _, _ := newTestGame(t, 6)

	if err := g.RenounceOwnership(); !errors.Is(err, ErrRenounceLocked) {
		t.Errorf("locked renounce error = %v, want renounce locked", err)
	}
	if err := g.AllowRenounceOwnership(); err != nil {
		t.Fatalf("allow renounce: %v", err)
	}
	if err := g.RenounceOwnership(); err != nil {
		t.Fatalf("renounce: %v", err)
	}
	if err := g.Pause(); !errors.Is(err, ErrOwnershipRenounced) {
		t.Errorf("pause after renounce error = %v, want ownership renounced", err)
	}
	if err := g.RenounceOwnership(); !errors.Is(err, ErrOwnershipRenounced) {
		t.Errorf("double renounce error = %v, want ownership renounced", err)
	}
}

func TestSingleSegmentGameJoinIsWinning(t *testing.T) {
	g, clk, sim := newTestGame(t, 1)
	ctx := context.Background()

	if err := g.Join(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("join: %v", err)
	}
	if g.WinnerCount() != 1 {
		t.Fatalf("winner count = %d, want 1", g.WinnerCount())
	}

	nextSegment(clk)
	sim.SetValueShareBps(11000)
	r, err := g.Withdraw(ctx, "alice")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if r.Interest.Sign() <= 0 {
		t.Errorf("single-segment winner interest = %s, want positive", r.Interest)
	}
}

// failingAdapter rejects every outbound deposit.
type failingAdapter struct {
	*yield.Sim
}

func (f failingAdapter) Deposit(context.Context, *big.Int) error {
	return errors.New("pool rejected funds")
}

func TestAdapterDepositFailureAbortsJoin(t *testing.T) {
	sim := yield.NewSim()
	clk := clockwork.NewFakeClockAt(testStart)
	g, err := New(testConfig(6), failingAdapter{sim}, nil, sim, clk)
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}

	err = g.Join(context.Background(), "alice", units(10), nil)
	if !errors.Is(err, ErrAdapter) {
		t.Fatalf("join error = %v, want adapter failure", err)
	}
	if g.Account("alice") != nil {
		t.Error("failed join created an account")
	}
	if g.TotalPrincipal().Sign() != 0 {
		t.Error("failed join mutated total principal")
	}
}

// reentrantAdapter calls back into the game mid-withdrawal, as a hostile
// foreign pool could.
type reentrantAdapter struct {
	*yield.Sim
	game     *Game
	player   string
	innerErr error
}

func (r *reentrantAdapter) Withdraw(ctx context.Context, amount *big.Int) (*big.Int, error) {
	_, r.innerErr = r.game.EarlyExit(ctx, r.player)
	return r.Sim.Withdraw(ctx, amount)
}

func TestHostileAdapterCannotDoublePay(t *testing.T) {
	sim := yield.NewSim()
	clk := clockwork.NewFakeClockAt(testStart)
	hostile := &reentrantAdapter{Sim: sim, player: "alice"}
	g, err := New(testConfig(6), hostile, nil, sim, clk)
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	hostile.game = g
	ctx := context.Background()

	if err := g.Join(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := g.EarlyExit(ctx, "alice"); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if !errors.Is(hostile.innerErr, ErrAlreadyWithdrawn) {
		t.Errorf("re-entrant exit error = %v, want already withdrawn", hostile.innerErr)
	}
	if g.TotalPrincipal().Sign() != 0 {
		t.Errorf("total principal = %s, want 0", g.TotalPrincipal())
	}
}

func TestSettleAdapterErrorIsRetryable(t *testing.T) {
	sim := yield.NewSim()
	clk := clockwork.NewFakeClockAt(testStart)

	fail := &redeemOnceAdapter{Sim: sim}
	g, err := New(testConfig(2), fail, nil, sim, clk)
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	ctx := context.Background()

	completeSchedule(t, g, clk, "alice")

	fail.failNext = true
	if _, err := g.Settle(ctx); !errors.Is(err, ErrAdapter) {
		t.Fatalf("settle error = %v, want adapter failure", err)
	}
	if g.Settled() {
		t.Fatal("failed settle latched the settled flag")
	}

	if _, err := g.Settle(ctx); err != nil {
		t.Fatalf("retried settle: %v", err)
	}
}

type redeemOnceAdapter struct {
	*yield.Sim
	failNext bool
}

func (r *redeemOnceAdapter) RedeemAll(ctx context.Context) (*big.Int, *big.Int, *big.Int, error) {
	if r.failNext {
		r.failNext = false
		return nil, nil, nil, errors.New("temporarily unavailable")
	}
	return r.Sim.RedeemAll(ctx)
}

func TestGatedGameRequiresProof(t *testing.T) {
	sim := yield.NewSim()
	clk := clockwork.NewFakeClockAt(testStart)
	tree := gate.BuildTree([]string{"alice", "bob", "carol"})
	g, err := New(testConfig(6), sim, gate.NewMerkle(tree.Root), sim, clk)
	if err != nil {
		t.Fatalf("creating game: %v", err)
	}
	ctx := context.Background()

	if err := g.Join(ctx, "alice", units(10), nil); !errors.Is(err, ErrInvalidProof) {
		t.Errorf("proofless join error = %v, want invalid proof", err)
	}
	if err := g.Join(ctx, "mallory", units(10), tree.Proof("alice")); !errors.Is(err, ErrInvalidProof) {
		t.Errorf("stolen proof join error = %v, want invalid proof", err)
	}
	if err := g.Join(ctx, "alice", units(10), tree.Proof("alice")); err != nil {
		t.Fatalf("valid join: %v", err)
	}

	nextSegment(clk)
	if err := g.Deposit(ctx, "alice", units(10), nil); !errors.Is(err, ErrInvalidProof) {
		t.Errorf("proofless deposit error = %v, want invalid proof", err)
	}
	if err := g.Deposit(ctx, "alice", units(10), tree.Proof("alice")); err != nil {
		t.Fatalf("valid deposit: %v", err)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	g, clk, sim := newTestGame(t, 4)
	ctx := context.Background()

	for _, p := range []string{"alice", "bob"} {
		if err := g.Join(ctx, p, units(10), nil); err != nil {
			t.Fatalf("%s join: %v", p, err)
		}
	}
	nextSegment(clk)
	if err := g.Deposit(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := g.EarlyExit(ctx, "bob"); err != nil {
		t.Fatalf("exit: %v", err)
	}

	restored, err := Restore(g.Snapshot(), sim, nil, sim, clk)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if got, want := restored.TotalPrincipal(), g.TotalPrincipal(); got.Cmp(want) != 0 {
		t.Errorf("restored total principal = %s, want %s", got, want)
	}
	if restored.ActivePlayers() != g.ActivePlayers() {
		t.Errorf("restored active players = %d, want %d", restored.ActivePlayers(), g.ActivePlayers())
	}
	acct := restored.Account("alice")
	if acct == nil || acct.MostRecentSegmentPaid != 1 {
		t.Fatalf("restored alice account = %+v", acct)
	}
	if !restored.Account("bob").Withdrawn {
		t.Error("restored bob not marked withdrawn")
	}

	// The restored game keeps working.
	nextSegment(clk)
	if err := restored.Deposit(ctx, "alice", units(10), nil); err != nil {
		t.Fatalf("deposit on restored game: %v", err)
	}
}
