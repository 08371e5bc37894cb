package request

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignupRequestValidate(t *testing.T) {
	valid := SignupRequest{
		Email:           "alice@example.com",
		Password:        "passw0rd",
		ConfirmPassword: "passw0rd",
		Name:            "Alice",
		Role:            "participant",
	}

	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(req *SignupRequest)
	}{
		{
			name:   "missing email",
			mutate: func(req *SignupRequest) { req.Email = "" },
		},
		{
			name:   "invalid email",
			mutate: func(req *SignupRequest) { req.Email = "not-an-email" },
		},
		{
			name:   "password too short",
			mutate: func(req *SignupRequest) { req.Password = "pw1"; req.ConfirmPassword = "pw1" },
		},
		{
			name:   "password without digit",
			mutate: func(req *SignupRequest) { req.Password = "password"; req.ConfirmPassword = "password" },
		},
		{
			name:   "password without letter",
			mutate: func(req *SignupRequest) { req.Password = "12345678"; req.ConfirmPassword = "12345678" },
		},
		{
			name:   "confirm password mismatch",
			mutate: func(req *SignupRequest) { req.ConfirmPassword = "different1" },
		},
		{
			name:   "unknown role",
			mutate: func(req *SignupRequest) { req.Role = "superuser" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			require.Error(t, req.Validate())
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	valid := LoginRequest{Email: "alice@example.com", Password: "passw0rd"}
	require.NoError(t, valid.Validate())

	require.Error(t, (&LoginRequest{Email: "", Password: "passw0rd"}).Validate())
	require.Error(t, (&LoginRequest{Email: "alice@example.com", Password: ""}).Validate())
}
