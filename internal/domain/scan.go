package domain

// ScanResult is the outcome of one scan attempt. Business rejections
// (bad credential, out-of-order checkpoint, duplicate scan) are outcomes,
// not errors; only infrastructure failures surface as errors alongside a
// ScanError result.
type ScanResult struct {
	Outcome      ScanOutcome
	Registration Registration
	Participant  User

	// Existing carries the original visit when Outcome is
	// ScanAlreadyCheckedIn, for operator feedback.
	Existing *CheckpointCheckIn

	// MissingCheckpoint names the first unvisited earlier checkpoint
	// when Outcome is ScanWrongCheckpoint.
	MissingCheckpoint string
}
