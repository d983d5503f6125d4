package model

// JobState represents the state of a server-side download job as reported by polling
type JobState string

const (
	// JobStatePending means the job is queued on the server but not started
	JobStatePending JobState = "pending"

	// JobStateProcessing means the server is downloading or converting the video
	JobStateProcessing JobState = "processing"

	// JobStateCompleted means the file is ready and a download token was issued
	JobStateCompleted JobState = "completed"

	// JobStateFailed means the job ended with an error
	JobStateFailed JobState = "failed"
)

// String returns the string representation of JobState
func (js JobState) String() string {
	return string(js)
}

// IsTerminal returns true if no further polling is needed
func (js JobState) IsTerminal() bool {
	return js == JobStateCompleted || js == JobStateFailed
}

// IsKnown returns true for the four states the server is documented to send
func (js JobState) IsKnown() bool {
	switch js {
	case JobStatePending, JobStateProcessing, JobStateCompleted, JobStateFailed:
		return true
	}
	return false
}

// JobStatus is the latest status of a job. Only the fields relevant to State are set:
// Progress while pending/processing, Token when completed, Error when failed.
type JobStatus struct {
	State    JobState
	Progress float64 // 0 to 100, fractional values allowed
	Token    string  // download token, completed only
	Error    string  // server message, failed only
}

// ClampProgress bounds p to 0..100
func ClampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
