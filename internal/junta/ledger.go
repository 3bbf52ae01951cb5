package junta

import "math/big"

// ledger owns the per-player accounts, the set of active players, and the
// running principal total. It enforces the join/deposit/exit preconditions;
// the Game façade is responsible for phase and pause checks.
type ledger struct {
	accounts map[string]*PlayerAccount
	// order records every player in first-seen iteration order, exactly
	// once, for enumeration only.
	order  []string
	active int
	total  *big.Int
}

func newLedger() *ledger {
	return &ledger{
		accounts: make(map[string]*PlayerAccount),
		total:    new(big.Int),
	}
}

func (l *ledger) account(player string) *PlayerAccount {
	return l.accounts[player]
}

func (l *ledger) checkJoin(player string, payment, want *big.Int, maxPlayers int) error {
	if acct, ok := l.accounts[player]; ok && !(acct.Withdrawn && acct.EligibleToRejoin) {
		return ErrAlreadyJoined
	}
	if l.active >= maxPlayers {
		return ErrPoolFull
	}
	if payment == nil || payment.Cmp(want) != 0 {
		return ErrInvalidPayment
	}
	return nil
}

// join creates or re-arms the player's account. Callers must have passed
// checkJoin and confirmed receipt of the payment.
func (l *ledger) join(player string, payment *big.Int) *PlayerAccount {
	acct, ok := l.accounts[player]
	if !ok {
		acct = &PlayerAccount{Player: player, WinnerIndex: -1}
		l.accounts[player] = acct
		l.order = append(l.order, player)
	}
	acct.MostRecentSegmentPaid = 0
	acct.AmountPaid = new(big.Int).Set(payment)
	acct.IsWinner = false
	acct.WinnerIndex = -1
	acct.Withdrawn = false
	acct.EligibleToRejoin = false
	l.active++
	l.total.Add(l.total, payment)
	return acct
}

func (l *ledger) checkDeposit(player string, payment, want *big.Int, segment int) error {
	acct, ok := l.accounts[player]
	if !ok || acct.Withdrawn {
		return ErrNotPlayer
	}
	if payment == nil || payment.Cmp(want) != 0 {
		return ErrInvalidPayment
	}
	switch {
	case acct.MostRecentSegmentPaid == segment:
		return ErrAlreadyPaidSegment
	case acct.MostRecentSegmentPaid < segment-1:
		// A gap is a protocol violation, not a late payment: the player is
		// permanently out of the running.
		return ErrMissedSegment
	}
	return nil
}

func (l *ledger) deposit(player string, payment *big.Int, segment int) *PlayerAccount {
	acct := l.accounts[player]
	acct.AmountPaid.Add(acct.AmountPaid, payment)
	acct.MostRecentSegmentPaid = segment
	l.total.Add(l.total, payment)
	return acct
}

// exit flips the account to withdrawn and removes its paid-in amount from
// the principal total. The forfeited fee stays in the pool economically and
// is folded into interest at settlement. Returns the fee and the refund due.
func (l *ledger) exit(acct *PlayerAccount, feeBps int64, rejoinable bool) (fee, refund *big.Int) {
	fee = bpsOf(acct.AmountPaid, feeBps)
	refund = new(big.Int).Sub(acct.AmountPaid, fee)
	l.total.Sub(l.total, acct.AmountPaid)
	l.active--
	acct.Withdrawn = true
	acct.EligibleToRejoin = rejoinable
	return fee, refund
}

// sumActive recomputes the principal total from scratch. Used by invariant
// checks in tests; the running total is authoritative.
func (l *ledger) sumActive() *big.Int {
	sum := new(big.Int)
	for _, acct := range l.accounts {
		if !acct.Withdrawn {
			sum.Add(sum, acct.AmountPaid)
		}
	}
	return sum
}
