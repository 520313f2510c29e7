package types

type DonationStatus string

const (
	DonationStatusPending    DonationStatus = "pending"
	DonationStatusProcessing DonationStatus = "processing"
	DonationStatusCompleted  DonationStatus = "completed"
	DonationStatusFailed     DonationStatus = "failed"
	DonationStatusRefunded   DonationStatus = "refunded"
)

// statusEdges enumerates the allowed lifecycle transitions:
// pending -> processing -> completed | failed, completed -> refunded.
// A succeeded/failed provider event may also skip processing entirely.
var statusEdges = map[DonationStatus][]DonationStatus{
	DonationStatusPending:    {DonationStatusProcessing, DonationStatusCompleted, DonationStatusFailed},
	DonationStatusProcessing: {DonationStatusCompleted, DonationStatusFailed},
	DonationStatusCompleted:  {DonationStatusRefunded},
}

// Terminal reports whether no further transition is possible out of the
// status, except completed -> refunded.
func (s DonationStatus) Terminal() bool {
	return s == DonationStatusCompleted || s == DonationStatusFailed || s == DonationStatusRefunded
}

// CanTransitionTo reports whether moving from s to next follows an allowed
// lifecycle edge. Anything else is treated by callers as a no-op, not an error.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	for _, to := range statusEdges[s] {
		if to == next {
			return true
		}
	}
	return false
}
