package task

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	tk := New("1", "Fix bug", "implement")
	if tk.Status != StatusNew {
		t.Errorf("Status = %s, want NEW", tk.Status)
	}
	if !tk.IsNew() || tk.IsTerminal() || tk.Synced() {
		t.Errorf("fresh task flags wrong: new=%v terminal=%v synced=%v",
			tk.IsNew(), tk.IsTerminal(), tk.Synced())
	}
	if tk.Key() != "1" {
		t.Errorf("Key() = %q, want local id", tk.Key())
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusNew, StatusInProgress, true},
		{StatusNew, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusFailed, true},
		{StatusInProgress, StatusMerged, false},
		{StatusCompleted, StatusMerged, true},
		{StatusCompleted, StatusPushed, true},
		{StatusCompleted, StatusInProgress, false},
		{StatusMerged, StatusPushed, true},
		{StatusPushed, StatusMerged, true},
		{StatusMerged, StatusCompleted, false},
		{StatusFailed, StatusInProgress, true},
		{StatusFailed, StatusCompleted, false},
		// self-transitions are no-ops, never errors
		{StatusPushed, StatusPushed, true},
		{StatusMerged, StatusMerged, true},
		// reset escape hatch
		{StatusMerged, StatusNew, true},
		{StatusFailed, StatusNew, true},
		{StatusPushed, StatusNew, true},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTransitionRejectsInvalid(t *testing.T) {
	tk := New("1", "x", "implement")
	if err := tk.Transition(StatusMerged); err == nil {
		t.Error("Transition(NEW -> MERGED) succeeded, want error")
	}
	if tk.Status != StatusNew {
		t.Errorf("failed transition mutated status to %s", tk.Status)
	}
}

func TestTransitionToSameStatusIsNoOp(t *testing.T) {
	tk := New("1", "x", "implement")
	mustTransition(t, tk, StatusInProgress, StatusCompleted, StatusPushed)

	// Repeating a push leaves the task PUSHED instead of failing.
	if err := tk.Transition(StatusPushed); err != nil {
		t.Fatalf("Transition(PUSHED -> PUSHED) error = %v", err)
	}
	if tk.Status != StatusPushed {
		t.Errorf("Status = %s, want PUSHED", tk.Status)
	}
}

func TestCompletedAtSetOnce(t *testing.T) {
	tk := New("1", "x", "implement")
	mustTransition(t, tk, StatusInProgress, StatusCompleted)

	first := tk.CompletedAt
	if first.IsZero() {
		t.Fatal("CompletedAt not set on COMPLETED")
	}

	time.Sleep(5 * time.Millisecond)
	mustTransition(t, tk, StatusMerged, StatusPushed, StatusMerged)
	if !tk.CompletedAt.Equal(first) {
		t.Errorf("CompletedAt changed by merge/push: %v -> %v", first, tk.CompletedAt)
	}
}

func TestFailKeepsProgress(t *testing.T) {
	tk := New("1", "x", "implement")
	mustTransition(t, tk, StatusInProgress)
	tk.RecordStep("plan", map[string]string{"plan": "the plan"})

	if err := tk.Fail("agent exploded"); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}
	if tk.Status != StatusFailed || tk.FailReason != "agent exploded" {
		t.Errorf("status=%s reason=%q", tk.Status, tk.FailReason)
	}
	if !tk.StepDone("plan") || tk.StepOutputs["plan"] != "the plan" {
		t.Error("failure cleared recorded progress")
	}

	// Retry path clears the reason.
	if err := tk.Start(); err != nil {
		t.Fatalf("Start() after FAILED error = %v", err)
	}
	if tk.FailReason != "" {
		t.Errorf("FailReason = %q after restart, want empty", tk.FailReason)
	}
}

func TestResetToNew(t *testing.T) {
	tk := New("1", "x", "implement")
	mustTransition(t, tk, StatusInProgress, StatusCompleted, StatusMerged)
	tk.RecordStep("s1", map[string]string{"out": "v"})

	tk.ResetToNew()
	if !tk.IsNew() {
		t.Errorf("Status = %s, want NEW", tk.Status)
	}
	if tk.StepOutputs != nil || tk.DoneSteps != nil || tk.FailReason != "" {
		t.Error("ResetToNew did not clear progress")
	}
}

func TestSyncedIdentity(t *testing.T) {
	tk := New("3", "x", "implement")
	tk.Tracker = "github"
	tk.IssueNumber = 42
	tk.ID = "42"

	if !tk.Synced() {
		t.Error("Synced() = false")
	}
	if tk.Key() != "42" {
		t.Errorf("Key() = %q, want issue number", tk.Key())
	}
}

func TestSetInputPreservesOrder(t *testing.T) {
	tk := New("1", "x", "implement")
	tk.SetInput("b", "1")
	tk.SetInput("a", "2")
	tk.SetInput("b", "3") // overwrite keeps position

	if len(tk.InputOrder) != 2 || tk.InputOrder[0] != "b" || tk.InputOrder[1] != "a" {
		t.Errorf("InputOrder = %v, want [b a]", tk.InputOrder)
	}
	if tk.Inputs["b"] != "3" {
		t.Errorf("Inputs[b] = %q, want 3", tk.Inputs["b"])
	}
}

func TestRecordStepIdempotent(t *testing.T) {
	tk := New("1", "x", "implement")
	tk.RecordStep("s1", map[string]string{"out": "v"})
	tk.RecordStep("s1", map[string]string{"out": "other"})

	if len(tk.DoneSteps) != 1 {
		t.Errorf("DoneSteps = %v, want single entry", tk.DoneSteps)
	}
	if tk.StepOutputs["out"] != "v" {
		t.Errorf("StepOutputs[out] = %q, second record should be ignored", tk.StepOutputs["out"])
	}
}

func mustTransition(t *testing.T, tk *Task, states ...Status) {
	t.Helper()
	for _, s := range states {
		if err := tk.Transition(s); err != nil {
			t.Fatalf("Transition(%s) error = %v", s, err)
		}
	}
}
