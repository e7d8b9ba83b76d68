package models

import (
	"time"
)

// Outcome is the terminal state of a step or scenario
type Outcome string

// Outcomes
const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// StepKind classifies a harness operation
type StepKind string

// Step kinds
const (
	StepNavigate  StepKind = "navigate"
	StepLocate    StepKind = "locate"
	StepAssert    StepKind = "assert"
	StepIntercept StepKind = "intercept"
	StepAct       StepKind = "act"
	StepCapture   StepKind = "capture"
	StepCompare   StepKind = "compare"
	StepProbe     StepKind = "probe"
	StepWait      StepKind = "wait"
)

// StepResult records the execution of a single step
type StepResult struct {
	Name     string        `json:"name"`
	Kind     StepKind      `json:"kind"`
	Target   string        `json:"target,omitempty"`
	Outcome  Outcome       `json:"outcome"`
	Soft     bool          `json:"soft,omitempty"`
	Variant  string        `json:"variant,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"-"`
	// DurationMS mirrors Duration for the JSON report.
	DurationMS int64 `json:"duration_ms"`
}

// ScenarioResult is the aggregated outcome of one scenario run
type ScenarioResult struct {
	Name       string        `json:"name"`
	Outcome    Outcome       `json:"outcome"`
	Reason     string        `json:"reason,omitempty"`
	FailedStep string        `json:"failed_step,omitempty"`
	Steps      []StepResult  `json:"steps"`
	Artifact   string        `json:"artifact,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
}

// SoftFailures returns the steps that failed without terminating the scenario
func (r *ScenarioResult) SoftFailures() []StepResult {
	var soft []StepResult
	for _, s := range r.Steps {
		if s.Soft && s.Outcome == OutcomeFailed {
			soft = append(soft, s)
		}
	}
	return soft
}

// Summary counts scenario outcomes for a run
type Summary struct {
	Total        int `json:"total"`
	Passed       int `json:"passed"`
	Failed       int `json:"failed"`
	Skipped      int `json:"skipped"`
	SoftFailures int `json:"soft_failures"`
}

// Add folds a scenario result into the summary
func (s *Summary) Add(r ScenarioResult) {
	s.Total++
	switch r.Outcome {
	case OutcomePassed:
		s.Passed++
	case OutcomeFailed:
		s.Failed++
	case OutcomeSkipped:
		s.Skipped++
	}
	s.SoftFailures += len(r.SoftFailures())
}

// ExitCode returns the process exit indicator for the run
func (s Summary) ExitCode() int {
	if s.Failed > 0 {
		return 1
	}
	return 0
}
