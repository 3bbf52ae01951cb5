package junta

import "math/big"

// SettlementReport is the redemption record produced by Settle.
type SettlementReport struct {
	PrincipalReturned *big.Int `json:"principalReturned"`
	GrossBalance      *big.Int `json:"grossBalance"`
	RewardBalance     *big.Int `json:"rewardBalance"`
	GrossInterest     *big.Int `json:"grossInterest"`
	AdminFee          *big.Int `json:"adminFee"`
	TotalInterest     *big.Int `json:"totalInterest"`
	RewardPerWinner   *big.Int `json:"rewardPerWinner"`
	IncentiveAmount   *big.Int `json:"incentiveAmount"`
	LossShareBps      int64    `json:"lossShareBps"`
	WinnerCount       int      `json:"winnerCount"`
	Winners           []string `json:"winners"`
}

// settlementOutcome is the split of gross interest and rewards decided at
// settlement time. All divisions floor; the dust stays with the contract.
type settlementOutcome struct {
	lossShareBps    int64
	grossInterest   *big.Int
	adminFee        *big.Int
	totalInterest   *big.Int
	rewardPerWinner *big.Int
	// adminRewards and adminIncentive are nonzero only in the zero-winner
	// sweep, where the whole reward and incentive balances default to the
	// operator.
	adminRewards   *big.Int
	adminIncentive *big.Int
}

// settleFunds computes the interest/reward/fee split against what the yield
// source actually returned. originalPrincipal is the ledger total at the
// moment settlement begins; grossBalance and rewardBalance come from
// RedeemAll; incentive is the donated bonus balance observed now.
func settleFunds(originalPrincipal, grossBalance, rewardBalance, incentive *big.Int, adminFeeBps int64, winnerCount int) settlementOutcome {
	out := settlementOutcome{
		lossShareBps:    bpsDenominator,
		grossInterest:   new(big.Int),
		adminFee:        new(big.Int),
		totalInterest:   new(big.Int),
		rewardPerWinner: new(big.Int),
		adminRewards:    new(big.Int),
		adminIncentive:  new(big.Int),
	}

	if originalPrincipal.Sign() > 0 && grossBalance.Cmp(originalPrincipal) < 0 {
		// Impermanent loss: every principal payout is scaled down and no
		// winner bonus is possible.
		loss := new(big.Int).Mul(grossBalance, big.NewInt(bpsDenominator))
		out.lossShareBps = loss.Quo(loss, originalPrincipal).Int64()
	} else {
		out.grossInterest.Sub(grossBalance, originalPrincipal)
	}

	if winnerCount == 0 {
		// Nobody finished the game: risk-adjusted yield defaults to the
		// house, rewards and incentive included.
		out.totalInterest.Set(out.grossInterest)
		out.adminFee.Set(out.grossInterest)
		out.adminRewards.Set(rewardBalance)
		out.adminIncentive.Set(incentive)
		return out
	}

	out.adminFee = bpsOf(out.grossInterest, adminFeeBps)
	out.totalInterest.Sub(out.grossInterest, out.adminFee)
	out.rewardPerWinner.Quo(rewardBalance, big.NewInt(int64(winnerCount)))
	return out
}

// scaledPrincipal is the player's principal payout, scaled down when an
// impermanent-loss adjustment is active.
func scaledPrincipal(paid *big.Int, lossShareBps int64) *big.Int {
	if lossShareBps == bpsDenominator {
		return new(big.Int).Set(paid)
	}
	return bpsOf(paid, lossShareBps)
}
