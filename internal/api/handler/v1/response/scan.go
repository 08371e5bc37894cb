package response

import (
	"time"

	"github.com/venuepass/checkin-api/internal/domain"
)

type CheckInEntry struct {
	Checkpoint string    `json:"checkpoint"`
	OperatorID uint      `json:"operator_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// ScanResponse is returned on success (200) and on duplicate scans
// (409). The conflict case carries the original visit so the operator
// sees who scanned the participant, and when.
type ScanResponse struct {
	Outcome         string         `json:"outcome"`
	ParticipantID   uint           `json:"participant_id,omitempty"`
	ParticipantName string         `json:"participant_name,omitempty"`
	RegistrationID  uint           `json:"registration_id,omitempty"`
	Status          string         `json:"status,omitempty"`
	CheckIns        []CheckInEntry `json:"check_ins,omitempty"`

	// MissingCheckpoint is set for wrong_checkpoint rejections.
	MissingCheckpoint string `json:"missing_checkpoint,omitempty"`

	// Existing is set for already_checked_in rejections.
	Existing *CheckInEntry `json:"existing_check_in,omitempty"`
}

func NewScanResponse(result domain.ScanResult) ScanResponse {
	resp := ScanResponse{
		Outcome:           string(result.Outcome),
		MissingCheckpoint: result.MissingCheckpoint,
	}

	if result.Registration.ID != 0 {
		resp.RegistrationID = result.Registration.ID
		resp.Status = result.Registration.Status
		resp.CheckIns = newCheckInEntries(result.Registration.CheckIns)
	}

	if result.Participant.ID != 0 {
		resp.ParticipantID = result.Participant.ID
		resp.ParticipantName = result.Participant.Name
	}

	if result.Existing != nil {
		resp.Existing = &CheckInEntry{
			Checkpoint: result.Existing.Checkpoint,
			OperatorID: result.Existing.OperatorID,
			Timestamp:  result.Existing.Timestamp,
		}
	}

	return resp
}

func newCheckInEntries(checkIns []domain.CheckpointCheckIn) []CheckInEntry {
	entries := make([]CheckInEntry, len(checkIns))
	for i, c := range checkIns {
		entries[i] = CheckInEntry{
			Checkpoint: c.Checkpoint,
			OperatorID: c.OperatorID,
			Timestamp:  c.Timestamp,
		}
	}

	return entries
}
