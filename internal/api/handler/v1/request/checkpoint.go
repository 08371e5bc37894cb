package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	CheckpointActionLock   = "lock"
	CheckpointActionUnlock = "unlock"
)

type CheckpointToggleRequest struct {
	Checkpoint string `json:"checkpoint"`
	Action     string `json:"action"`
}

func (req *CheckpointToggleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Checkpoint, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Action, validation.Required, validation.In(CheckpointActionLock, CheckpointActionUnlock)),
	)
}
