package agent

import (
	"fmt"
	"sync"
)

// Registry manages available agent providers, keyed by provider id.
type Registry struct {
	mu       sync.RWMutex
	agents   map[string]Agent
	fallback string
}

// NewRegistry creates an agent registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]Agent),
	}
}

// Register adds an agent to the registry. The first registered agent
// becomes the fallback default.
func (r *Registry) Register(a Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.agents[name]; exists {
		return fmt.Errorf("agent already registered: %s", name)
	}

	r.agents[name] = a
	if r.fallback == "" {
		r.fallback = name
	}
	return nil
}

// Get returns an agent by provider id.
func (r *Registry) Get(name string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("agent not found: %s", name)
	}
	return a, nil
}

// SetDefault sets the default agent.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[name]; !ok {
		return fmt.Errorf("agent not found: %s", name)
	}
	r.fallback = name
	return nil
}

// Default returns the default agent.
func (r *Registry) Default() (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.fallback == "" {
		return nil, fmt.Errorf("no agents registered")
	}
	return r.agents[r.fallback], nil
}

// Resolve returns the named agent, or the default when name is empty.
func (r *Registry) Resolve(name string) (Agent, error) {
	if name == "" {
		return r.Default()
	}
	return r.Get(name)
}

// List returns all registered provider ids.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	return names
}

// Available returns the providers whose executables pass the availability
// probe.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var available []string
	for name, a := range r.agents {
		if err := a.CheckAvailable(); err == nil {
			available = append(available, name)
		}
	}
	return available
}
