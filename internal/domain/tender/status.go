package tender

// Status represents the lifecycle state of a tender.
type Status string

const (
	StatusInquiry          Status = "inquiry"
	StatusSent             Status = "sent"
	StatusAwaitingApproval Status = "awaiting_approval"
	StatusFinalized        Status = "finalized"
	StatusOrdered          Status = "ordered"
	StatusArchived         Status = "archived"
)

// IsValid checks if the status is a known Status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusInquiry, StatusSent, StatusAwaitingApproval, StatusFinalized, StatusOrdered, StatusArchived:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// RequiresNumber reports whether a tender in this status must carry an
// assigned tender number. The switch is exhaustive over the closed enum so
// a new status forces this site to be revisited.
func (s Status) RequiresNumber() bool {
	switch s {
	case StatusSent, StatusFinalized, StatusOrdered:
		return true
	case StatusInquiry, StatusAwaitingApproval, StatusArchived:
		return false
	}
	return false
}

// CanTransitionTo checks if the status can move to the target status.
// Archived is a terminal side branch reachable from any other state.
func (s Status) CanTransitionTo(target Status) bool {
	if !target.IsValid() || s == target {
		return false
	}
	if target == StatusArchived {
		return s != StatusArchived
	}
	switch s {
	case StatusInquiry:
		return target == StatusSent
	case StatusSent:
		return target == StatusAwaitingApproval
	case StatusAwaitingApproval:
		return target == StatusFinalized
	case StatusFinalized:
		return target == StatusOrdered
	case StatusOrdered, StatusArchived:
		return false
	}
	return false
}
