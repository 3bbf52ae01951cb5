package junta

import (
	"context"
	"math/big"
)

// YieldAdapter forwards deposits to, and pulls funds back from, an external
// yield source. Implementations may call back into the game (a foreign
// contract or service invoking a webhook), so the engine never holds its
// lock across an adapter call.
type YieldAdapter interface {
	// Deposit forwards amount to the yield source. A failure aborts the
	// calling operation with no ledger change.
	Deposit(ctx context.Context, amount *big.Int) error

	// Withdraw pulls amount back out, returning the amount actually
	// released. The engine tolerates actual < amount when the source's
	// liquid balance is short, propagating the shortfall to the player
	// rather than failing the exit.
	Withdraw(ctx context.Context, amount *big.Int) (actual *big.Int, err error)

	// RedeemAll liquidates the whole position. principal is the source's
	// own principal accounting, grossBalance the total token amount
	// returned (principal plus interest), rewardBalance any bonus reward
	// tokens accrued. Called at most once per game; the engine enforces
	// the one-shot guard.
	RedeemAll(ctx context.Context) (principal, grossBalance, rewardBalance *big.Int, err error)
}

// IncentiveVault holds an externally donated bonus-token balance, observed
// once at settlement and paid in full to the first winner who withdraws.
type IncentiveVault interface {
	// Drain returns the vault's entire balance and zeroes it.
	Drain(ctx context.Context) (*big.Int, error)
}

// MembershipGate verifies a player's allow-list proof. When a game is
// constructed with a gate, join and deposit require a verifying proof.
type MembershipGate interface {
	Verify(player string, proof [][]byte) bool
}
