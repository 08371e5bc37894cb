package domain

import "time"

type ScanOutcome string

const (
	ScanSuccess           ScanOutcome = "success"
	ScanError             ScanOutcome = "error"
	ScanInvalidCredential ScanOutcome = "invalid_credential"
	ScanNotFound          ScanOutcome = "not_found"
	ScanWrongCheckpoint   ScanOutcome = "wrong_checkpoint"
	ScanAlreadyCheckedIn  ScanOutcome = "already_checked_in"
	ScanNotApproved       ScanOutcome = "not_approved"
	ScanCheckpointLocked  ScanOutcome = "checkpoint_locked"
)

// ScanLog is one audit entry. Entries are append-only: they are written
// for every scan attempt, successful or not, and never mutated.
type ScanLog struct {
	ID             uint        `json:"id"`
	EventID        uint        `json:"event_id"`
	OperatorID     uint        `json:"operator_id"`
	Credential     string      `json:"credential"`
	Checkpoint     string      `json:"checkpoint"`
	Outcome        ScanOutcome `json:"outcome"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	ParticipantID  *uint       `json:"participant_id,omitempty"`
	RegistrationID *uint       `json:"registration_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
