package domain

import "time"

// StepStatus is the outcome of one workflow step.
type StepStatus string

const (
	StepApplied StepStatus = "applied" // the step's action ran and was validated
	StepSkipped StepStatus = "skipped" // the precondition showed the goal already holds
	StepHalted  StepStatus = "halted"  // the run stopped here without failing
	StepFailed  StepStatus = "failed"  // the run stopped here with an error
)

// StepRecord captures what happened at one step.
type StepRecord struct {
	Name     string         `json:"name"`
	Status   StepStatus     `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Results  []SubmitResult `json:"results,omitempty"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
}

// Report summarizes a finished run.
type Report struct {
	RunID    string       `json:"run_id"`
	Issuer   string       `json:"issuer"`
	Receiver string       `json:"receiver"`
	Steps    []StepRecord `json:"steps"`
	// Halted is set when the run stopped early without an error (e.g. already finalized).
	Halted bool   `json:"halted"`
	Reason string `json:"reason,omitempty"`
}

// Submitted returns every result recorded across steps, in submission order.
func (r Report) Submitted() []SubmitResult {
	var out []SubmitResult
	for _, s := range r.Steps {
		out = append(out, s.Results...)
	}
	return out
}

// Step returns the record for name, if the run reached it.
func (r Report) Step(name string) (StepRecord, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepRecord{}, false
}
