package types

// OutcomeStatus records what happened to one intent during a turn
type OutcomeStatus string

const (
	// OutcomeExecuted means the tool ran and reported success
	OutcomeExecuted OutcomeStatus = "executed"
	// OutcomeRejected means the tool ran but declined the request (e.g. duplicate email)
	OutcomeRejected OutcomeStatus = "rejected"
	// OutcomeDeferred means the intent was parked in PendingIntents without running
	OutcomeDeferred OutcomeStatus = "deferred"
	// OutcomeFailed means the tool raised an unexpected error; the intent is also deferred
	OutcomeFailed OutcomeStatus = "failed"
	// OutcomeAwaitingSlots means the intent opened a slot-filling dialog
	OutcomeAwaitingSlots OutcomeStatus = "awaiting_slots"
)

func (s OutcomeStatus) String() string {
	return string(s)
}
