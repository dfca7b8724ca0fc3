package workflow

// BuiltIn returns the built-in workflow for a name, or nil. Built-ins are
// used when the workspace has no document of that name on disk.
func BuiltIn(name string) *Document {
	switch name {
	case "implement":
		return builtinImplement()
	default:
		return nil
	}
}

// BuiltInNames lists the available built-in workflows.
func BuiltInNames() []string {
	return []string{"implement"}
}

func builtinImplement() *Document {
	return &Document{
		Version:     CurrentVersion,
		Name:        "implement",
		Description: "Plan and implement a task, then summarize the result",
		Inputs: []Input{
			{Name: "prompt", Type: "string", Required: true},
		},
		Outputs: []Output{
			{Name: "summary", Type: "string"},
		},
		Defaults: Defaults{Provider: DefaultProvider},
		Config:   DocConfig{TimeoutSeconds: DefaultTimeoutSeconds},
		Steps: []Step{
			{
				ID:     "plan",
				Type:   StepTypeAgent,
				Name:   "Plan",
				Prompt: "Create a short implementation plan for the following task. Do not write code yet.\n\nTask: {{prompt}}",
				Outputs: []Output{
					{Name: "plan", Type: "string"},
				},
			},
			{
				ID:     "implement",
				Type:   StepTypeAgent,
				Name:   "Implement",
				Prompt: "Implement the following task in the current repository. Follow the plan.\n\nTask: {{prompt}}\n\nPlan:\n{{plan}}",
				Outputs: []Output{
					{Name: "summary", Type: "string"},
				},
			},
		},
	}
}
