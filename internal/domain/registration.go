package domain

import "time"

const (
	RegistrationPending   = "pending"
	RegistrationApproved  = "approved"
	RegistrationRejected  = "rejected"
	RegistrationCheckedIn = "checked_in"
)

// CheckpointCheckIn is one recorded visit. A registration holds at most
// one per checkpoint name, in event order.
type CheckpointCheckIn struct {
	Checkpoint string    `json:"checkpoint"`
	OperatorID uint      `json:"operator_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type Registration struct {
	ID            uint   `json:"id"`
	EventID       uint   `json:"event_id"`
	ParticipantID uint   `json:"participant_id"`
	Status        string `json:"status"`

	// Credential is the signed opaque token issued on approval. It is
	// also the lookup key for scans.
	Credential string `json:"credential,omitempty"`

	CheckIns []CheckpointCheckIn `json:"check_ins"`

	// Version guards concurrent check-in appends (compare-and-swap).
	Version int `json:"-"`

	ApprovedBy     *uint      `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	RejectedReason string     `json:"rejected_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckInFor returns the recorded visit for the named checkpoint, if any.
func (r Registration) CheckInFor(checkpoint string) (CheckpointCheckIn, bool) {
	for _, c := range r.CheckIns {
		if c.Checkpoint == checkpoint {
			return c, true
		}
	}

	return CheckpointCheckIn{}, false
}

// IsScannable reports whether the registration may record further
// check-ins. Rejected and still-pending registrations cannot be scanned.
func (r Registration) IsScannable() bool {
	return r.Status == RegistrationApproved || r.Status == RegistrationCheckedIn
}
