package types

import "github.com/m-mizutani/goerr/v2"

// CaseStatus is the lifecycle state of a conversation case. A case stays
// in_progress while a slot dialog is open or intents are pending.
type CaseStatus string

// ErrInvalidCaseStatus is returned by ParseCaseStatus for unknown values
var ErrInvalidCaseStatus = goerr.New("invalid case status")

const (
	CaseStatusOpen       CaseStatus = "open"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusResolved   CaseStatus = "resolved"
	CaseStatusEscalated  CaseStatus = "escalated"
)

// AllCaseStatuses lists every status in lifecycle order
func AllCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusOpen,
		CaseStatusInProgress,
		CaseStatusResolved,
		CaseStatusEscalated,
	}
}

// IsValid reports whether s is a known status
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusOpen,
		CaseStatusInProgress,
		CaseStatusResolved,
		CaseStatusEscalated:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further turns may mutate a case in this status.
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusResolved || s == CaseStatusEscalated
}

// Normalize returns the status, treating empty as CaseStatusOpen.
func (s CaseStatus) Normalize() CaseStatus {
	if s == "" {
		return CaseStatusOpen
	}
	return s
}

func (s CaseStatus) String() string {
	return string(s)
}

// ParseCaseStatus converts a stored value. Matching is exact.
func ParseCaseStatus(s string) (CaseStatus, error) {
	status := CaseStatus(s)
	if !status.IsValid() {
		return "", goerr.Wrap(ErrInvalidCaseStatus, "cannot parse case status", goerr.V("status", s))
	}
	return status, nil
}
