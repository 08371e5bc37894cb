package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegistrationCheckInFor(t *testing.T) {
	visit := CheckpointCheckIn{Checkpoint: "Lunch", OperatorID: 20, Timestamp: time.Now()}
	reg := Registration{CheckIns: []CheckpointCheckIn{visit}}

	got, ok := reg.CheckInFor("Lunch")
	require.True(t, ok)
	require.Equal(t, visit, got)

	_, ok = reg.CheckInFor("Dinner")
	require.False(t, ok)
}

func TestRegistrationIsScannable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: RegistrationPending, want: false},
		{status: RegistrationApproved, want: true},
		{status: RegistrationRejected, want: false},
		{status: RegistrationCheckedIn, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			require.Equal(t, tt.want, Registration{Status: tt.status}.IsScannable())
		})
	}
}

func TestUserPermissions(t *testing.T) {
	require.False(t, User{Role: RoleParticipant}.CanScan())
	require.True(t, User{Role: RoleVolunteer}.CanScan())
	require.True(t, User{Role: RoleOrganizer}.CanScan())
	require.True(t, User{Role: RoleAdmin}.CanScan())

	require.False(t, User{Role: RoleVolunteer}.CanManageEvent())
	require.True(t, User{Role: RoleOrganizer}.CanManageEvent())
	require.True(t, User{Role: RoleAdmin}.CanManageEvent())
}
