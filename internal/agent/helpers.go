package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/valksor/go-taktwerk/internal/log"
)

// Best-effort semantic operations. Every function here degrades to its
// zero result on any failure (invocation error, malformed output, refusal)
// and never returns an error. Callers proceed with a documented fallback.

// Expansion is a task description expanded from a short brief.
type Expansion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Plan        string `json:"plan,omitempty"`
}

// ExpandTask asks the agent to turn a one-line brief into a titled task
// description. Returns nil when the agent could not produce one.
func ExpandTask(ctx context.Context, a Agent, brief string) *Expansion {
	prompt := fmt.Sprintf(`Expand this short task brief into a development task.
Respond with a JSON object: {"title": one line, "description": a few sentences, "plan": optional outline}.

Brief: %s`, brief)

	var exp Expansion
	if !invokeJSON(ctx, a, prompt, &exp) || exp.Title == "" {
		return nil
	}
	return &exp
}

// ExpandIterationInstructions expands follow-up instructions for a task
// that already ran, incorporating the previous plan and summary when
// available. Returns nil when undetermined.
func ExpandIterationInstructions(ctx context.Context, a Agent, instructions, previousPlan, previousSummary string) *Expansion {
	var sb strings.Builder
	sb.WriteString("Expand these follow-up instructions for an existing development task.\n")
	sb.WriteString(`Respond with a JSON object: {"title": one line, "description": a few sentences, "plan": optional outline}.` + "\n\n")
	if previousPlan != "" {
		sb.WriteString("Previous plan:\n" + previousPlan + "\n\n")
	}
	if previousSummary != "" {
		sb.WriteString("Previous result summary:\n" + previousSummary + "\n\n")
	}
	sb.WriteString("Instructions: " + instructions)

	var exp Expansion
	if !invokeJSON(ctx, a, sb.String(), &exp) || exp.Title == "" {
		return nil
	}
	return &exp
}

// GenerateCommitMessage asks the agent for a single-line commit message.
// Returns "" when undetermined; callers fall back to the task title.
func GenerateCommitMessage(ctx context.Context, a Agent, title, description string, recentCommits, stepSummaries []string) string {
	var sb strings.Builder
	sb.WriteString("Write a single-line git commit message for this change.\n")
	sb.WriteString(`Respond with a JSON object: {"message": "the commit message"}.` + "\n\n")
	sb.WriteString("Task: " + title + "\n")
	if description != "" {
		sb.WriteString("Description: " + description + "\n")
	}
	if len(recentCommits) > 0 {
		sb.WriteString("Recent commits for style reference:\n")
		for _, c := range recentCommits {
			sb.WriteString("  " + c + "\n")
		}
	}
	if len(stepSummaries) > 0 {
		sb.WriteString("What was done:\n")
		for _, s := range stepSummaries {
			sb.WriteString("  " + s + "\n")
		}
	}

	var out struct {
		Message string `json:"message"`
	}
	if !invokeJSON(ctx, a, sb.String(), &out) {
		return ""
	}
	// A multi-line answer is a malformed one for this operation.
	msg := strings.TrimSpace(out.Message)
	if msg == "" || strings.Contains(msg, "\n") {
		return ""
	}
	return msg
}

// ResolveMergeConflicts asks the agent to resolve one conflicted file.
// Returns the proposed full file content, or "" when the agent could not
// resolve it; the caller then leaves the conflict for manual resolution.
func ResolveMergeConflicts(ctx context.Context, a Agent, filePath, diffContext, conflictedContent string) string {
	prompt := fmt.Sprintf(`Resolve the merge conflicts in the file below.
Output the complete resolved file content and nothing else. No markdown fences, no commentary.
Keep the intent of both sides where possible.

File: %s

Change context:
%s

Conflicted content:
%s`, filePath, diffContext, conflictedContent)

	out, err := a.Invoke(ctx, prompt, false)
	if err != nil {
		log.Debug("conflict resolution failed", log.Err(err), "file", filePath)
		return ""
	}

	resolved := stripFences(strings.TrimSpace(out))
	if resolved == "" || strings.Contains(resolved, "<<<<<<<") {
		return ""
	}
	return resolved
}

// ExtractStructuredInputs maps free text onto the declared workflow input
// names. Returns nil when undetermined.
func ExtractStructuredInputs(ctx context.Context, a Agent, freeText string, declaredInputs []string) map[string]string {
	if len(declaredInputs) == 0 {
		return nil
	}

	prompt := fmt.Sprintf(`Extract values for these input names from the text below.
Respond with a JSON object mapping input name to string value. Omit inputs the text does not cover.

Inputs: %s

Text:
%s`, strings.Join(declaredInputs, ", "), freeText)

	var values map[string]string
	if !invokeJSON(ctx, a, prompt, &values) || len(values) == 0 {
		return nil
	}

	// Drop anything the workflow never declared.
	declared := make(map[string]bool, len(declaredInputs))
	for _, name := range declaredInputs {
		declared[name] = true
	}
	for name := range values {
		if !declared[name] {
			delete(values, name)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// invokeJSON invokes the agent expecting JSON and decodes the first object
// in its output. Returns false on any failure.
func invokeJSON(ctx context.Context, a Agent, prompt string, out any) bool {
	output, err := a.Invoke(ctx, prompt, true)
	if err != nil {
		log.Debug("agent invocation failed", "agent", a.Name(), log.Err(err))
		return false
	}
	if err := ExtractJSON(output, out); err != nil {
		log.Debug("agent output not parseable", "agent", a.Name(), log.Err(err))
		return false
	}
	return true
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:] // opening fence with optional language tag
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
