package junta

import (
	"errors"
	"fmt"
)

// The error taxonomy has three categories. Every sentinel below wraps one of
// them, so callers can classify with errors.Is(err, ErrPrecondition) and
// friends, or match the specific sentinel.
var (
	// ErrPrecondition marks calls rejected before any state change.
	ErrPrecondition = errors.New("precondition violation")
	// ErrOneShot marks a second invocation of a once-only operation.
	ErrOneShot = errors.New("one-shot violation")
	// ErrAdapter marks a failed call to the external yield source.
	ErrAdapter = errors.New("yield adapter failure")
)

var (
	ErrGameStarted         = errf(ErrPrecondition, "game already started")
	ErrAlreadyJoined       = errf(ErrPrecondition, "player already joined")
	ErrPoolFull            = errf(ErrPrecondition, "pool full")
	ErrInvalidPayment      = errf(ErrPrecondition, "payment must equal the segment payment")
	ErrNotPlayer           = errf(ErrPrecondition, "not a player in this game")
	ErrDepositWindowClosed = errf(ErrPrecondition, "deposit window closed")
	ErrAlreadyPaidSegment  = errf(ErrPrecondition, "already paid this segment")
	ErrMissedSegment       = errf(ErrPrecondition, "missed a previous segment, disqualified")
	ErrGameCompleted       = errf(ErrPrecondition, "game already completed")
	ErrGameNotCompleted    = errf(ErrPrecondition, "game not yet completed")
	ErrInvalidProof        = errf(ErrPrecondition, "membership proof did not verify")
	ErrPaused              = errf(ErrPrecondition, "game is paused")
	ErrNothingToClaim      = errf(ErrPrecondition, "nothing to claim")
	ErrOwnershipRenounced  = errf(ErrPrecondition, "ownership has been renounced")
	ErrRenounceLocked      = errf(ErrPrecondition, "renounce has not been unlocked")

	ErrAlreadySettled   = errf(ErrOneShot, "game already settled")
	ErrAlreadyWithdrawn = errf(ErrOneShot, "player already withdrew")
	ErrAdminFeeClaimed  = errf(ErrOneShot, "admin fee already withdrawn")
)

func errf(category error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", category, fmt.Sprintf(format, args...))
}
