// Package conductor orchestrates the task lifecycle end to end: register,
// isolate, execute workflow steps, commit, and finish by merge or push.
//
// Every status change is persisted before the next action starts, so an
// interrupted run resumes from its last durable state instead of replaying
// finished steps.
package conductor

import (
	"context"
	"fmt"
	"strings"

	"github.com/valksor/go-taktwerk/internal/agent"
	"github.com/valksor/go-taktwerk/internal/config"
	"github.com/valksor/go-taktwerk/internal/log"
	"github.com/valksor/go-taktwerk/internal/storage"
	"github.com/valksor/go-taktwerk/internal/task"
	"github.com/valksor/go-taktwerk/internal/tracker"
	"github.com/valksor/go-taktwerk/internal/vcs"
	"github.com/valksor/go-taktwerk/internal/workflow"
)

// Conductor drives tasks through their lifecycle.
type Conductor struct {
	ws       *storage.Workspace
	cfg      *config.Config
	git      *vcs.Git
	isolator *vcs.Isolator
	agents   *agent.Registry
	trackers *tracker.Registry
}

// New assembles a conductor over an opened workspace and repository.
func New(ws *storage.Workspace, cfg *config.Config, git *vcs.Git, agents *agent.Registry, trackers *tracker.Registry) *Conductor {
	return &Conductor{
		ws:       ws,
		cfg:      cfg,
		git:      git,
		isolator: vcs.NewIsolator(git, cfg.Git.BranchPrefix),
		agents:   agents,
		trackers: trackers,
	}
}

// StartOptions configures task registration.
type StartOptions struct {
	Title       string
	Description string
	Workflow    string // empty = workspace default
	Agent       string // provider id, empty = workspace default
	Inputs      map[string]string

	// Expand asks an agent to flesh out a bare title into a description
	// and to pull declared workflow inputs out of the free text before
	// validation. Expansion is best-effort; when the agent produces
	// nothing usable, registration proceeds with what was given.
	Expand bool
}

// Register creates a task in the NEW state with a fresh local id. Inputs
// are validated against the workflow before anything is persisted; a
// validation failure reports every error at once.
func (c *Conductor) Register(ctx context.Context, opts StartOptions) (*task.Task, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	wfName := opts.Workflow
	if wfName == "" {
		wfName = c.cfg.Workflow.Default
	}
	doc, err := c.ResolveWorkflow(wfName)
	if err != nil {
		return nil, err
	}

	if opts.Expand {
		c.expandBrief(ctx, &opts, doc)
	}

	result := doc.ValidateInputs(opts.Inputs)
	for _, w := range result.Warnings {
		log.Warn(w)
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid inputs for workflow %q:\n  %s",
			wfName, strings.Join(result.Errors, "\n  "))
	}

	if err := c.ws.EnsureInitialized(); err != nil {
		return nil, err
	}
	id, err := c.ws.NextID()
	if err != nil {
		return nil, err
	}

	t := task.New(id, opts.Title, wfName)
	t.Description = opts.Description
	t.Agent = opts.Agent
	for _, in := range doc.Inputs {
		if v, ok := opts.Inputs[in.Name]; ok {
			t.SetInput(in.Name, v)
		}
	}
	// Keep undeclared inputs too; they were warned about, not rejected.
	for name, v := range opts.Inputs {
		t.SetInput(name, v)
	}

	if branch, err := c.git.CurrentBranch(ctx); err == nil {
		t.SourceBranch = branch
	}

	if err := c.ws.SaveTask(t); err != nil {
		return nil, err
	}
	log.Info("task registered", log.Task(t.ID), "workflow", wfName)
	return t, nil
}

// Start registers a task and immediately runs it.
func (c *Conductor) Start(ctx context.Context, opts StartOptions) (*task.Task, error) {
	t, err := c.Register(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Run(ctx, t); err != nil {
		return t, err
	}
	return t, nil
}

// Load finds a task by local id or issue number.
func (c *Conductor) Load(ref string) (*task.Task, error) {
	return c.ws.LoadTask(ref)
}

// List returns all tasks sorted by creation time.
func (c *Conductor) List() ([]*task.Task, error) {
	return c.ws.ListTasks()
}

// WorkflowsDir returns the workspace workflow directory.
func (c *Conductor) WorkflowsDir() string {
	return c.ws.WorkflowsDir()
}

// ResolveWorkflow finds a workflow document by name: workspace documents
// first, built-ins second.
func (c *Conductor) ResolveWorkflow(name string) (*workflow.Document, error) {
	found, err := workflow.Discover(c.ws.WorkflowsDir())
	if err != nil {
		return nil, err
	}
	if path, ok := found[name]; ok {
		return workflow.Load(path)
	}
	if doc := workflow.BuiltIn(name); doc != nil {
		return doc, nil
	}
	return nil, fmt.Errorf("workflow not found: %s", name)
}

// expandBrief fills in what the caller left out: an empty description is
// generated from the title, and missing declared inputs are extracted from
// the combined free text. Explicitly given values are never overwritten.
func (c *Conductor) expandBrief(ctx context.Context, opts *StartOptions, doc *workflow.Document) {
	a, err := c.agentFor(opts.Agent, "", "")
	if err != nil {
		log.Debug("expansion skipped, no agent", log.Err(err))
		return
	}

	brief := opts.Title
	if opts.Description != "" {
		brief += "\n\n" + opts.Description
	}

	if opts.Description == "" {
		if exp := agent.ExpandTask(ctx, a, brief); exp != nil && exp.Description != "" {
			opts.Description = exp.Description
			if exp.Plan != "" {
				opts.Description += "\n\n" + exp.Plan
			}
		}
	}

	var missing []string
	for _, in := range doc.Inputs {
		if _, ok := opts.Inputs[in.Name]; !ok {
			missing = append(missing, in.Name)
		}
	}
	extracted := agent.ExtractStructuredInputs(ctx, a, brief, missing)
	if len(extracted) == 0 {
		return
	}
	if opts.Inputs == nil {
		opts.Inputs = make(map[string]string)
	}
	for name, v := range extracted {
		opts.Inputs[name] = v
	}
}

// Reset returns a task to NEW, clearing recorded progress. The isolated
// branch and worktree are left in place. Non-empty instructions are
// recorded as the "instructions" input for the next run, expanded against
// the previous description and step outputs when an agent is available.
func (c *Conductor) Reset(ctx context.Context, ref, instructions string) (*task.Task, error) {
	t, err := c.ws.LoadTask(ref)
	if err != nil {
		return nil, err
	}
	if instructions != "" {
		c.expandIteration(ctx, t, instructions)
		t.SetInput("instructions", instructions)
	}
	t.ResetToNew()
	if err := c.ws.SaveTask(t); err != nil {
		return nil, err
	}
	log.Info("task reset", log.Task(t.ID))
	return t, nil
}

// expandIteration folds follow-up instructions into the task description
// before the reset wipes the step outputs they draw on.
func (c *Conductor) expandIteration(ctx context.Context, t *task.Task, instructions string) {
	a, err := c.agentFor(t.Agent, "", "")
	if err != nil {
		log.Debug("iteration expansion skipped, no agent", log.Err(err))
		return
	}

	var summary strings.Builder
	for _, id := range t.DoneSteps {
		if out, ok := t.StepOutputs[id]; ok && len(out) < 500 {
			if summary.Len() > 0 {
				summary.WriteString("\n")
			}
			summary.WriteString(out)
		}
	}

	exp := agent.ExpandIterationInstructions(ctx, a, instructions, t.Description, summary.String())
	if exp != nil && exp.Description != "" {
		t.Description = exp.Description
	}
}

// Delete removes a task record and, when destroyWorkspace is set, its
// branch and worktree.
func (c *Conductor) Delete(ctx context.Context, ref string, destroyWorkspace bool) error {
	t, err := c.ws.LoadTask(ref)
	if err != nil {
		return err
	}

	if destroyWorkspace {
		ec, err := c.isolator.EnsureContext(ctx, t.Key(), t.Title)
		if err == nil {
			if err := c.isolator.DestroyContext(ctx, ec); err != nil {
				return err
			}
		}
	}

	if err := c.ws.DeleteTask(t.Key()); err != nil {
		return err
	}
	log.Info("task deleted", log.Task(t.ID))
	return nil
}

// Sync correlates a task with the external tracker by creating an issue
// and renaming the task record to the issue-number identity.
func (c *Conductor) Sync(ctx context.Context, ref, trackerName string) (*task.Task, error) {
	t, err := c.ws.LoadTask(ref)
	if err != nil {
		return nil, err
	}
	if t.Synced() {
		return nil, fmt.Errorf("task %s already synced to issue %d", t.ID, t.IssueNumber)
	}

	if trackerName == "" {
		trackerName = c.cfg.Tracker.Name
	}
	if trackerName == "" {
		return nil, fmt.Errorf("no tracker configured")
	}
	tr, err := c.trackers.Get(trackerName)
	if err != nil {
		return nil, err
	}

	number, err := tr.CreateIssue(ctx, t.Title, t.Description)
	if err != nil {
		return nil, err
	}
	if err := c.ws.SyncTask(t, trackerName, number); err != nil {
		return nil, err
	}
	log.Info("task synced", log.Task(t.ID), "tracker", trackerName, "issue", number)
	return t, nil
}

// agentFor resolves the agent for a task step: step provider, else the
// task's pinned provider, else the workspace default. The returned agent
// is configured for the model and worktree directory.
func (c *Conductor) agentFor(provider, model, dir string) (agent.Agent, error) {
	name := provider
	if name == "" {
		name = c.cfg.Agent.Default
	}
	a, err := c.agents.Resolve(name)
	if err != nil {
		return nil, err
	}
	if err := a.CheckAvailable(); err != nil {
		return nil, err
	}
	if model == "" {
		model = c.cfg.Agent.Model
	}
	return agent.Configure(a, model, dir), nil
}
