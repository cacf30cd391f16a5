package models

// JobState is the video job lifecycle state.
type JobState string

const (
	JobPending JobState = "PENDING"
	JobDone    JobState = "DONE"
)

// Job tracks one long-running video generation. It only moves forward
// through explicit polls.
type Job struct {
	Name          string  `json:"name"`
	Done          bool    `json:"done"`
	ResultLocator *string `json:"resultLocator,omitempty"`
	Attempts      int     `json:"attempts"`
	Failure       string  `json:"failure,omitempty"`

	// Handle is the backend's operation object, opaque to callers.
	Handle any `json:"-"`
}

func (j *Job) State() JobState {
	if j.Done {
		return JobDone
	}
	return JobPending
}

// Succeeded reports a terminal job that produced a locator.
func (j *Job) Succeeded() bool {
	return j.Done && j.ResultLocator != nil && *j.ResultLocator != ""
}
