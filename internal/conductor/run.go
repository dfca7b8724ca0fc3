package conductor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/valksor/go-taktwerk/internal/agent"
	"github.com/valksor/go-taktwerk/internal/log"
	"github.com/valksor/go-taktwerk/internal/task"
	"github.com/valksor/go-taktwerk/internal/template"
	"github.com/valksor/go-taktwerk/internal/vcs"
	"github.com/valksor/go-taktwerk/internal/workflow"
)

// Run executes a task's workflow inside its isolated context. A NEW or
// FAILED task moves to IN_PROGRESS first; steps already recorded as done
// are skipped, so Run doubles as resume. On step failure the task moves to
// FAILED with the reason and partial progress stays recorded.
func (c *Conductor) Run(ctx context.Context, t *task.Task) error {
	doc, err := c.ResolveWorkflow(t.Workflow)
	if err != nil {
		return err
	}

	ec, err := c.isolate(ctx, t)
	if err != nil {
		return err
	}

	if t.Status == task.StatusNew || t.Status == task.StatusFailed {
		if err := t.Start(); err != nil {
			return err
		}
		if err := c.ws.SaveTask(t); err != nil {
			return err
		}
	} else if t.Status != task.StatusInProgress {
		return fmt.Errorf("task %s is %s, nothing to run", t.ID, t.Status)
	}

	vars := doc.ResolveInputs(t.Inputs)
	for k, v := range t.StepOutputs {
		vars[k] = v
	}

	for i := range doc.Steps {
		step := &doc.Steps[i]
		if t.StepDone(step.ID) {
			log.Debug("step already done", log.Task(t.ID), log.Step(step.ID))
			continue
		}

		outputs, err := c.runStep(ctx, t, doc, step, vars, ec)
		if err != nil {
			if doc.Config.ContinueOnError {
				log.Warn("step failed, continuing", log.Task(t.ID), log.Step(step.ID), log.Err(err))
				continue
			}
			reason := fmt.Sprintf("step %s: %v", step.ID, err)
			if ferr := t.Fail(reason); ferr != nil {
				return ferr
			}
			if serr := c.ws.SaveTask(t); serr != nil {
				return serr
			}
			return fmt.Errorf("%s", reason)
		}

		t.RecordStep(step.ID, outputs)
		for k, v := range outputs {
			vars[k] = v
		}
		if err := c.ws.SaveTask(t); err != nil {
			return err
		}
	}

	if err := c.commitWork(ctx, t, ec); err != nil {
		return err
	}

	if err := t.Complete(); err != nil {
		return err
	}
	if err := c.ws.SaveTask(t); err != nil {
		return err
	}
	log.Info("task completed", log.Task(t.ID))
	return nil
}

// Resume loads a task by reference and continues its run.
func (c *Conductor) Resume(ctx context.Context, ref string) (*task.Task, error) {
	t, err := c.ws.LoadTask(ref)
	if err != nil {
		return nil, err
	}
	if t.IsTerminal() {
		return nil, fmt.Errorf("task %s is already %s", t.ID, t.Status)
	}
	if err := c.Run(ctx, t); err != nil {
		return t, err
	}
	return t, nil
}

// isolate returns the task's execution context, creating it on first run
// and attaching on later runs. A task that has been started before must
// still have its worktree; a workspace deleted out-of-band fails hard.
func (c *Conductor) isolate(ctx context.Context, t *task.Task) (*vcs.Context, error) {
	var ec *vcs.Context
	var err error
	if t.IsNew() {
		ec, err = c.isolator.CreateContext(ctx, t.Key(), t.Title, c.cfg.Git.BaseBranch)
	} else {
		ec, err = c.isolator.EnsureContext(ctx, t.Key(), t.Title)
	}
	if err != nil {
		return nil, err
	}
	if err := c.attachCredentials(ec, t); err != nil {
		return nil, err
	}
	return ec, nil
}

// attachCredentials resolves the task agent's credential mounts and env
// allowlist onto the context. A missing required credential fails here,
// before any step runs.
func (c *Conductor) attachCredentials(ec *vcs.Context, t *task.Task) error {
	name := t.Agent
	if name == "" {
		name = c.cfg.Agent.Default
	}
	a, err := c.agents.Resolve(name)
	if err != nil {
		return err
	}
	desc := a.Descriptor()

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	mounts, err := agent.ResolveMounts(desc, home)
	if err != nil {
		return err
	}

	ec.Mounts = ec.Mounts[:0]
	for _, m := range mounts {
		ec.Mounts = append(ec.Mounts, m.Target)
	}
	ec.EnvVars = agent.EnvNames(desc, os.Environ())
	return nil
}

// runStep renders the step prompt, invokes the agent with the resolved
// timeout, and retries on invocation failure up to the resolved count.
func (c *Conductor) runStep(ctx context.Context, t *task.Task, doc *workflow.Document, step *workflow.Step, vars map[string]string, ec *vcs.Context) (map[string]string, error) {
	provider := step.Provider
	if provider == "" {
		provider = doc.Defaults.Provider
	}
	if provider == "" {
		provider = t.Agent
	}
	model, err := doc.StepModel(step.ID)
	if err != nil {
		return nil, err
	}
	timeout, err := doc.StepTimeout(step.ID)
	if err != nil {
		return nil, err
	}
	retries, err := doc.StepRetries(step.ID)
	if err != nil {
		return nil, err
	}

	a, err := c.agentFor(provider, model, ec.WorktreePath)
	if err != nil {
		return nil, err
	}

	prompt := template.Render(step.Prompt, vars)
	if missing := template.Unresolved(prompt, nil); len(missing) > 0 {
		log.Warn("prompt has unresolved placeholders",
			log.Task(t.ID), log.Step(step.ID), "placeholders", missing)
	}

	log.Info("running step", log.Task(t.ID), log.Step(step.ID), "agent", a.Name())

	var output string
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			log.Warn("retrying step", log.Task(t.ID), log.Step(step.ID),
				"attempt", attempt+1, log.Err(lastErr))
		}
		output, lastErr = c.invokeWithTimeout(ctx, a, prompt, timeout)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	return stepOutputs(step, output), nil
}

func (c *Conductor) invokeWithTimeout(ctx context.Context, a agent.Agent, prompt string, timeout time.Duration) (string, error) {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return a.Invoke(stepCtx, prompt, false)
}

// stepOutputs binds agent output to the step's declared outputs. The whole
// output goes to every declared name; a step without declarations records
// under its own id so later steps can still reference it.
func stepOutputs(step *workflow.Step, output string) map[string]string {
	outputs := make(map[string]string)
	if len(step.Outputs) == 0 {
		outputs[step.ID] = output
		return outputs
	}
	for _, out := range step.Outputs {
		outputs[out.Name] = output
	}
	return outputs
}

// commitWork stages and commits whatever the agent changed in the
// worktree. A clean worktree is not an error; agents legitimately answer
// without touching files. The commit message comes from the agent when it
// can produce one and falls back to the task title.
func (c *Conductor) commitWork(ctx context.Context, t *task.Task, ec *vcs.Context) error {
	dirty, err := c.git.HasChanges(ctx, ec.WorktreePath)
	if err != nil {
		return err
	}
	if !dirty {
		log.Debug("no changes to commit", log.Task(t.ID))
		return nil
	}

	if err := c.git.AddAll(ctx, ec.WorktreePath); err != nil {
		return err
	}

	message := c.commitMessage(ctx, t)
	hash, err := c.git.Commit(ctx, ec.WorktreePath, message)
	if err != nil {
		return err
	}
	log.Info("work committed", log.Task(t.ID), "commit", hash[:min(12, len(hash))])
	return nil
}

func (c *Conductor) commitMessage(ctx context.Context, t *task.Task) string {
	a, err := c.agentFor(t.Agent, "", "")
	if err == nil {
		recent, _ := c.git.RecentCommits(ctx, "HEAD", 10)
		var summaries []string
		for _, id := range t.DoneSteps {
			if out, ok := t.StepOutputs[id]; ok && len(out) < 500 {
				summaries = append(summaries, out)
			}
		}
		if msg := agent.GenerateCommitMessage(ctx, a, t.Title, t.Description, recent, summaries); msg != "" {
			return msg
		}
	}
	return t.Title
}
