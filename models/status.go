package models

// Project lifecycle. Pending is the only initial state; approve/reject are
// admin actions and only valid from pending. Approved projects transition to
// completed automatically once funding reaches the goal. There is no path
// back to pending.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// CanTransition reports whether a project may move from one status to
// another. Re-approving a rejected project (or any transition out of a
// terminal state) is an explicit error at the handler level, not a no-op.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusCompleted
	default:
		return false
	}
}
