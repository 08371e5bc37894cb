package domain

import "time"

const (
	RoleParticipant = "participant"
	RoleVolunteer   = "volunteer"
	RoleOrganizer   = "organizer"
	RoleAdmin       = "admin"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanScan reports whether the user may operate a checkpoint scanner.
func (u User) CanScan() bool {
	return u.Role == RoleVolunteer || u.Role == RoleOrganizer || u.Role == RoleAdmin
}

// CanManageEvent reports whether the user may create events, approve
// registrations and toggle checkpoints.
func (u User) CanManageEvent() bool {
	return u.Role == RoleOrganizer || u.Role == RoleAdmin
}
