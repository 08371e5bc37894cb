package domain

import "time"

// CheckpointRegistration is the distinguished first checkpoint of every
// event. It may stay unlocked alongside one other checkpoint; all other
// checkpoints are mutually exclusive in the unlocked set.
const CheckpointRegistration = "Registration"

type Event struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`

	// Checkpoints is the ordered participant flow. It is fixed once the
	// event is created; scanning order is validated against it verbatim.
	Checkpoints []string `json:"checkpoints"`

	// UnlockedCheckpoints is the subset currently accepting scans.
	UnlockedCheckpoints []string `json:"unlocked_checkpoints"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCheckpoint reports whether name belongs to the event's flow.
func (e Event) HasCheckpoint(name string) bool {
	return e.CheckpointIndex(name) >= 0
}

// CheckpointIndex returns the position of name in the event's flow,
// or -1 if it is not part of it.
func (e Event) CheckpointIndex(name string) int {
	for i, cp := range e.Checkpoints {
		if cp == name {
			return i
		}
	}

	return -1
}

// IsUnlocked reports whether name is currently scannable.
func (e Event) IsUnlocked(name string) bool {
	for _, cp := range e.UnlockedCheckpoints {
		if cp == name {
			return true
		}
	}

	return false
}
