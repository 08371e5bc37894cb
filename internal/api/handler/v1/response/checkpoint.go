package response

type CheckpointToggleResponse struct {
	EventID             uint     `json:"event_id"`
	Checkpoints         []string `json:"checkpoints"`
	UnlockedCheckpoints []string `json:"unlocked_checkpoints"`
}
