package models

import "time"

// StepResult records the outcome of one scenario step
type StepResult struct {
	Name     string        `json:"name"`
	Action   string        `json:"action"`
	Passed   bool          `json:"passed"`
	Error    string        `json:"error,omitempty"`
	Kind     string        `json:"kind,omitempty"`
	Duration time.Duration `json:"duration"`
	Snapshot string        `json:"snapshot,omitempty"` // report-relative snapshot base name
}

// RunResult is a full scenario run
type RunResult struct {
	ID        string        `json:"id"`
	Scenario  string        `json:"scenario"`
	Backend   string        `json:"backend"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Steps     []StepResult  `json:"steps"`
}

// Passed reports whether every step passed
func (r *RunResult) Passed() bool {
	for _, s := range r.Steps {
		if !s.Passed {
			return false
		}
	}
	return true
}

// Failures counts failed steps
func (r *RunResult) Failures() int {
	n := 0
	for _, s := range r.Steps {
		if !s.Passed {
			n++
		}
	}
	return n
}
