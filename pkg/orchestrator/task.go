package orchestrator

import "time"

// Status is the lifecycle state of an orchestration run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// StepRecord captures one completed stage.
type StepRecord struct {
	Agent     string    `json:"agent"`
	Model     string    `json:"model"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskState is the accumulated record of one orchestration run. Steps
// are append-only within a run; once the status is terminal the state
// is never mutated again.
type TaskState struct {
	ID        string       `json:"id"`
	Status    Status       `json:"status"`
	Steps     []StepRecord `json:"steps"`
	Result    string       `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Clone returns a deep copy safe to hand across goroutines.
func (t *TaskState) Clone() *TaskState {
	if t == nil {
		return nil
	}
	out := *t
	out.Steps = make([]StepRecord, len(t.Steps))
	copy(out.Steps, t.Steps)
	return &out
}
