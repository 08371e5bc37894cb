package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ScanRequest struct {
	Credential string `json:"credential"`
	Checkpoint string `json:"checkpoint"`
}

func (req *ScanRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Credential, validation.Required),
		validation.Field(&req.Checkpoint, validation.Required, validation.Length(1, 100)),
	)
}
