// Package task defines the task model and its lifecycle status machine.
package task

import (
	"fmt"
	"time"
)

// Status is a task's position in its lifecycle.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusMerged     Status = "MERGED"
	StatusPushed     Status = "PUSHED"
	StatusFailed     Status = "FAILED"
)

// transitions lists the allowed forward transitions. Reset-to-NEW is the
// single escape hatch and is allowed from every state.
var transitions = map[Status][]Status{
	StatusNew:        {StatusInProgress},
	StatusInProgress: {StatusCompleted, StatusFailed},
	StatusCompleted:  {StatusMerged, StatusPushed},
	StatusMerged:     {StatusPushed},
	StatusPushed:     {StatusMerged},
	StatusFailed:     {StatusInProgress},
}

// CanTransition reports whether from → to is an allowed forward move.
// A self-transition is always allowed; re-finishing an already-finished
// task is a no-op, not an error.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	if to == StatusNew {
		return true // explicit reset escape hatch
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Task is one unit of AI-agent-driven work.
type Task struct {
	ID           string            `yaml:"id"`
	IssueNumber  int               `yaml:"issue_number,omitempty"` // external tracker issue, 0 = not synced
	Tracker      string            `yaml:"tracker,omitempty"`
	Title        string            `yaml:"title"`
	Description  string            `yaml:"description,omitempty"`
	Status       Status            `yaml:"status"`
	Workflow     string            `yaml:"workflow"`
	Agent        string            `yaml:"agent,omitempty"` // provider id, empty = workspace default
	SourceBranch string            `yaml:"source_branch,omitempty"`
	Inputs       map[string]string `yaml:"inputs,omitempty"`
	InputOrder   []string          `yaml:"input_order,omitempty"`
	StepOutputs  map[string]string `yaml:"step_outputs,omitempty"`
	DoneSteps    []string          `yaml:"done_steps,omitempty"`
	FailReason   string            `yaml:"fail_reason,omitempty"`
	CreatedAt    time.Time         `yaml:"created_at"`
	UpdatedAt    time.Time         `yaml:"updated_at"`
	CompletedAt  time.Time         `yaml:"completed_at,omitempty"`
}

// New creates a task in the NEW state.
func New(id, title, workflow string) *Task {
	now := time.Now()
	return &Task{
		ID:        id,
		Title:     title,
		Status:    StatusNew,
		Workflow:  workflow,
		Inputs:    make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the task to a new status, enforcing the allowed moves.
// CompletedAt is set exactly once, on first entry to COMPLETED; marking a
// task merged or pushed afterwards never alters it.
func (t *Task) Transition(to Status) error {
	if to == t.Status {
		t.UpdatedAt = time.Now()
		return nil
	}
	if !CanTransition(t.Status, to) {
		return fmt.Errorf("invalid status transition: %s -> %s", t.Status, to)
	}

	t.Status = to
	t.UpdatedAt = time.Now()

	if to == StatusCompleted && t.CompletedAt.IsZero() {
		t.CompletedAt = t.UpdatedAt
	}
	if to != StatusFailed {
		t.FailReason = ""
	}
	return nil
}

// Start marks the task in progress.
func (t *Task) Start() error {
	return t.Transition(StatusInProgress)
}

// Complete marks the task completed.
func (t *Task) Complete() error {
	return t.Transition(StatusCompleted)
}

// Fail marks the task failed with a human-readable reason. Partial
// progress (done steps, outputs) is retained for resume or inspection.
func (t *Task) Fail(reason string) error {
	if err := t.Transition(StatusFailed); err != nil {
		return err
	}
	t.FailReason = reason
	return nil
}

// ResetToNew returns the task to NEW from any status. Recorded progress is
// cleared; this is the explicit escape hatch in an otherwise monotonic
// lifecycle.
func (t *Task) ResetToNew() {
	t.Status = StatusNew
	t.StepOutputs = nil
	t.DoneSteps = nil
	t.FailReason = ""
	t.UpdatedAt = time.Now()
}

// IsNew reports whether the task is in the NEW state.
func (t *Task) IsNew() bool {
	return t.Status == StatusNew
}

// IsTerminal reports whether the task reached a terminal-success state.
func (t *Task) IsTerminal() bool {
	switch t.Status {
	case StatusCompleted, StatusMerged, StatusPushed:
		return true
	}
	return false
}

// Synced reports whether the task has been correlated with an external
// issue.
func (t *Task) Synced() bool {
	return t.IssueNumber > 0
}

// Key returns the registry key: the issue number once synced, the local id
// before that.
func (t *Task) Key() string {
	if t.Synced() {
		return fmt.Sprintf("%d", t.IssueNumber)
	}
	return t.ID
}

// SetInput records an input value, preserving first-set order.
func (t *Task) SetInput(name, value string) {
	if t.Inputs == nil {
		t.Inputs = make(map[string]string)
	}
	if _, exists := t.Inputs[name]; !exists {
		t.InputOrder = append(t.InputOrder, name)
	}
	t.Inputs[name] = value
}

// RecordStep marks a step done and stores its outputs.
func (t *Task) RecordStep(stepID string, outputs map[string]string) {
	for _, done := range t.DoneSteps {
		if done == stepID {
			return
		}
	}
	t.DoneSteps = append(t.DoneSteps, stepID)
	if len(outputs) > 0 && t.StepOutputs == nil {
		t.StepOutputs = make(map[string]string)
	}
	for k, v := range outputs {
		t.StepOutputs[k] = v
	}
	t.UpdatedAt = time.Now()
}

// StepDone reports whether a step has already been recorded.
func (t *Task) StepDone(stepID string) bool {
	for _, done := range t.DoneSteps {
		if done == stepID {
			return true
		}
	}
	return false
}
