// Package tracker correlates tasks with external issue trackers.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoToken means no API token could be resolved for a tracker.
var ErrNoToken = errors.New("no tracker token configured")

// Issue is the tracker-neutral view of an external issue.
type Issue struct {
	Number int
	Title  string
	Body   string
	State  string
	URL    string
}

// Tracker is the contract one issue-tracker integration implements.
type Tracker interface {
	// Name returns the tracker id, e.g. "github".
	Name() string

	// CreateIssue opens an issue and returns its number.
	CreateIssue(ctx context.Context, title, body string) (int, error)

	// FetchIssue retrieves an issue by number.
	FetchIssue(ctx context.Context, number int) (*Issue, error)
}

// Registry holds the configured tracker integrations.
type Registry struct {
	mu       sync.RWMutex
	trackers map[string]Tracker
}

// NewRegistry creates a tracker registry.
func NewRegistry() *Registry {
	return &Registry{trackers: make(map[string]Tracker)}
}

// Register adds a tracker to the registry.
func (r *Registry) Register(t Tracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.trackers[name]; exists {
		return fmt.Errorf("tracker already registered: %s", name)
	}
	r.trackers[name] = t
	return nil
}

// Get returns a tracker by name.
func (r *Registry) Get(name string) (Tracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trackers[name]
	if !ok {
		return nil, fmt.Errorf("tracker not found: %s", name)
	}
	return t, nil
}

// List returns all registered tracker names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.trackers))
	for name := range r.trackers {
		names = append(names, name)
	}
	return names
}
