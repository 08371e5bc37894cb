package request

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanRequestValidate(t *testing.T) {
	valid := ScanRequest{Credential: "vp1.payload.signature", Checkpoint: "Registration"}
	require.NoError(t, valid.Validate())

	require.Error(t, (&ScanRequest{Checkpoint: "Registration"}).Validate())
	require.Error(t, (&ScanRequest{Credential: "vp1.payload.signature"}).Validate())
}

func TestCheckpointToggleRequestValidate(t *testing.T) {
	valid := CheckpointToggleRequest{Checkpoint: "Lunch", Action: CheckpointActionUnlock}
	require.NoError(t, valid.Validate())

	require.NoError(t, (&CheckpointToggleRequest{Checkpoint: "Lunch", Action: CheckpointActionLock}).Validate())
	require.Error(t, (&CheckpointToggleRequest{Checkpoint: "", Action: CheckpointActionLock}).Validate())
	require.Error(t, (&CheckpointToggleRequest{Checkpoint: "Lunch", Action: "open"}).Validate())
}

func TestCreateEventRequestValidate(t *testing.T) {
	valid := CreateEventRequest{Name: "Spring Gala", Checkpoints: []string{"Registration", "Lunch"}}
	require.NoError(t, valid.Validate())

	require.Error(t, (&CreateEventRequest{Name: "", Checkpoints: []string{"Registration"}}).Validate())
	require.Error(t, (&CreateEventRequest{Name: "Spring Gala"}).Validate())
}

func TestRejectRegistrationRequestValidate(t *testing.T) {
	require.NoError(t, (&RejectRegistrationRequest{Reason: "no seats left"}).Validate())
	require.Error(t, (&RejectRegistrationRequest{Reason: ""}).Validate())
}
