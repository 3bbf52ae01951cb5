// Package junta implements the accounting core of a pooled no-loss savings
// game. A cohort of players commits to a fixed payment every segment; funds
// are forwarded to an external yield source for the duration of the game.
// Players who make every required payment split the accrued yield at
// settlement, players who miss a payment keep only their principal, and
// players who exit early pay a penalty fee that stays in the pool.
//
// The package owns the per-player ledger, the winner set, the segment clock,
// and the settlement math. Everything that actually moves tokens lives
// behind the YieldAdapter interface.
package junta

import (
	"math/big"
	"time"
)

// Phase is the lifecycle phase of a game, derived from the clock except for
// the terminal Settled phase, which is latched by Settle.
type Phase string

const (
	PhaseOpen       Phase = "open"        // segment 0, joins allowed
	PhaseInProgress Phase = "in_progress" // deposit segments
	PhaseCompleted  Phase = "completed"   // all segments elapsed, awaiting settlement
	PhaseSettled    Phase = "settled"     // redeemed from the yield source
)

const bpsDenominator = 10000

// Caps on the configurable fees, in basis points.
const (
	MaxEarlyWithdrawalFeeBps = 1000 // 10%
	MaxAdminFeeBps           = 2000 // 20%
)

// Config is the immutable configuration of a single game.
type Config struct {
	// SegmentCount is the number of payment segments, including the join
	// segment. The final segment is a pure yield-accrual window: the last
	// accepted deposit happens in segment SegmentCount-1.
	SegmentCount int `json:"segmentCount"`
	// SegmentLength is the duration of one segment.
	SegmentLength time.Duration `json:"segmentLength"`
	// SegmentPayment is the exact payment due each segment, in token base
	// units.
	SegmentPayment *big.Int `json:"segmentPayment"`
	// EarlyWithdrawalFeeBps is the penalty on early exits, in basis points
	// of the player's paid-in amount.
	EarlyWithdrawalFeeBps int64 `json:"earlyWithdrawalFeeBps"`
	// AdminFeeBps is the operator's cut of gross interest, in basis points.
	AdminFeeBps int64 `json:"adminFeeBps"`
	// MaxPlayers caps the number of simultaneously active players.
	MaxPlayers int `json:"maxPlayers"`
	// StartTime is the beginning of segment 0.
	StartTime time.Time `json:"startTime"`
}

// Validate reports the first configuration problem, if any.
func (c Config) Validate() error {
	switch {
	case c.SegmentCount < 1:
		return errf(ErrPrecondition, "segment count must be at least 1")
	case c.SegmentLength <= 0:
		return errf(ErrPrecondition, "segment length must be positive")
	case c.SegmentPayment == nil || c.SegmentPayment.Sign() <= 0:
		return errf(ErrPrecondition, "segment payment must be positive")
	case c.EarlyWithdrawalFeeBps <= 0 || c.EarlyWithdrawalFeeBps > MaxEarlyWithdrawalFeeBps:
		return errf(ErrPrecondition, "early withdrawal fee must be in (0, %d] bps", MaxEarlyWithdrawalFeeBps)
	case c.AdminFeeBps < 0 || c.AdminFeeBps > MaxAdminFeeBps:
		return errf(ErrPrecondition, "admin fee must be in [0, %d] bps", MaxAdminFeeBps)
	case c.MaxPlayers < 1:
		return errf(ErrPrecondition, "max players must be at least 1")
	case c.StartTime.IsZero():
		return errf(ErrPrecondition, "start time is required")
	}
	return nil
}

// PlayerAccount is the per-player payment record. Accounts are created on
// first successful join and never deleted; once Withdrawn is set the account
// is permanently inert, except that a segment-0 early exit re-arms it for a
// same-cycle rejoin.
type PlayerAccount struct {
	Player                string   `json:"player"`
	MostRecentSegmentPaid int      `json:"mostRecentSegmentPaid"`
	AmountPaid            *big.Int `json:"amountPaid"`
	IsWinner              bool     `json:"isWinner"`
	WinnerIndex           int      `json:"winnerIndex"`
	Withdrawn             bool     `json:"withdrawn"`
	EligibleToRejoin      bool     `json:"eligibleToRejoin"`
}

func bpsOf(amount *big.Int, bps int64) *big.Int {
	v := new(big.Int).Mul(amount, big.NewInt(bps))
	return v.Quo(v, big.NewInt(bpsDenominator))
}
