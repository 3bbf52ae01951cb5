// Package yield provides the yield-source side of the game: the adapter
// interfaces live in internal/junta, this package implements them with an
// in-memory simulated pool. The real lending-market integration is a
// deployment concern and stays outside this repository.
package yield

import (
	"context"
	"errors"
	"math/big"
	"sync"
)

const bpsDenominator = 10000

var errRedeemed = errors.New("position already redeemed")

// Sim is a simulated yield source. Deposits accumulate in a pool; at
// redemption the pool pays out scaled by ValueShareBps (10000 = par, above
// par models accrued interest, below par models impermanent loss) plus any
// reward balance accrued. A liquidity cap below the pool balance makes
// withdrawals partial, which the engine must tolerate.
type Sim struct {
	mu sync.Mutex

	// ValueShareBps scales the pool at redemption. 10000 returns exactly
	// the principal.
	ValueShareBps int64

	pool      *big.Int
	rewards   *big.Int
	incentive *big.Int
	// liquidity caps how much a single withdrawal can release, when set.
	liquidity *big.Int
	redeemed  bool
}

func NewSim() *Sim {
	return &Sim{
		ValueShareBps: bpsDenominator,
		pool:          new(big.Int),
		rewards:       new(big.Int),
		incentive:     new(big.Int),
	}
}

func (s *Sim) Deposit(_ context.Context, amount *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.redeemed {
		return errRedeemed
	}
	s.pool.Add(s.pool, amount)
	return nil
}

func (s *Sim) Withdraw(_ context.Context, amount *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.redeemed {
		return nil, errRedeemed
	}
	actual := new(big.Int).Set(amount)
	if actual.Cmp(s.pool) > 0 {
		actual.Set(s.pool)
	}
	if s.liquidity != nil && actual.Cmp(s.liquidity) > 0 {
		actual.Set(s.liquidity)
	}
	s.pool.Sub(s.pool, actual)
	return actual, nil
}

func (s *Sim) RedeemAll(_ context.Context) (principal, grossBalance, rewardBalance *big.Int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.redeemed {
		return nil, nil, nil, errRedeemed
	}
	principal = new(big.Int).Set(s.pool)
	grossBalance = new(big.Int).Mul(s.pool, big.NewInt(s.ValueShareBps))
	grossBalance.Quo(grossBalance, big.NewInt(bpsDenominator))
	rewardBalance = new(big.Int).Set(s.rewards)
	s.pool.SetInt64(0)
	s.rewards.SetInt64(0)
	s.redeemed = true
	return principal, grossBalance, rewardBalance, nil
}

// Drain implements the incentive vault: it empties the donated bonus
// balance.
func (s *Sim) Drain(_ context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := new(big.Int).Set(s.incentive)
	s.incentive.SetInt64(0)
	return out, nil
}

// AccrueRewards adds bonus reward tokens to the position, as a liquidity
// gauge would over time.
func (s *Sim) AccrueRewards(amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rewards.Add(s.rewards, amount)
}

// DonateIncentive adds to the external bonus-token balance observed at
// settlement.
func (s *Sim) DonateIncentive(amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incentive.Add(s.incentive, amount)
}

// SetValueShareBps adjusts the redemption ratio, e.g. 9500 to simulate a 5%
// impermanent loss or 11000 to simulate 10% interest.
func (s *Sim) SetValueShareBps(bps int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ValueShareBps = bps
}

// SetLiquidity caps how much a single withdrawal can release. nil removes
// the cap.
func (s *Sim) SetLiquidity(amount *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount == nil {
		s.liquidity = nil
		return
	}
	s.liquidity = new(big.Int).Set(amount)
}

// Pool reports the current principal held by the source.
func (s *Sim) Pool() *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return new(big.Int).Set(s.pool)
}

// Snapshot is the serializable state of a Sim.
type Snapshot struct {
	ValueShareBps int64    `json:"valueShareBps"`
	Pool          *big.Int `json:"pool"`
	Rewards       *big.Int `json:"rewards"`
	Incentive     *big.Int `json:"incentive"`
	Liquidity     *big.Int `json:"liquidity,omitempty"`
	Redeemed      bool     `json:"redeemed"`
}

func (s *Sim) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &Snapshot{
		ValueShareBps: s.ValueShareBps,
		Pool:          new(big.Int).Set(s.pool),
		Rewards:       new(big.Int).Set(s.rewards),
		Incentive:     new(big.Int).Set(s.incentive),
		Redeemed:      s.redeemed,
	}
	if s.liquidity != nil {
		snap.Liquidity = new(big.Int).Set(s.liquidity)
	}
	return snap
}

func RestoreSim(snap *Snapshot) *Sim {
	s := NewSim()
	if snap == nil {
		return s
	}
	if snap.ValueShareBps != 0 {
		s.ValueShareBps = snap.ValueShareBps
	}
	if snap.Pool != nil {
		s.pool.Set(snap.Pool)
	}
	if snap.Rewards != nil {
		s.rewards.Set(snap.Rewards)
	}
	if snap.Incentive != nil {
		s.incentive.Set(snap.Incentive)
	}
	if snap.Liquidity != nil {
		s.liquidity = new(big.Int).Set(snap.Liquidity)
	}
	s.redeemed = snap.Redeemed
	return s
}
