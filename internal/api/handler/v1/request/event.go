package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name        string   `json:"name"`
	Checkpoints []string `json:"checkpoints"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Checkpoints, validation.Required, validation.Length(1, 50)),
	)
}
