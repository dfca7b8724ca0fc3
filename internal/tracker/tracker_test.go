package tracker

import (
	"context"
	"sort"
	"testing"
)

type fakeTracker struct {
	name string
}

func (f *fakeTracker) Name() string { return f.name }
func (f *fakeTracker) CreateIssue(ctx context.Context, title, body string) (int, error) {
	return 1, nil
}
func (f *fakeTracker) FetchIssue(ctx context.Context, number int) (*Issue, error) {
	return &Issue{Number: number}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Get("github"); err == nil {
		t.Error("Get() on empty registry succeeded")
	}

	if err := r.Register(&fakeTracker{name: "github"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(&fakeTracker{name: "gitlab"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(&fakeTracker{name: "github"}); err == nil {
		t.Error("duplicate Register() succeeded")
	}

	tr, err := r.Get("gitlab")
	if err != nil || tr.Name() != "gitlab" {
		t.Errorf("Get(gitlab) = %v, %v", tr, err)
	}

	names := r.List()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "github" || names[1] != "gitlab" {
		t.Errorf("List() = %v", names)
	}
}
