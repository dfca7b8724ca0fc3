// Package github integrates the GitHub issue tracker.
package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v67/github"
	"golang.org/x/oauth2"

	"github.com/valksor/go-taktwerk/internal/tracker"
)

const Name = "github"

func ptr[T any](v T) *T {
	return &v
}

// Tracker talks to the GitHub issues API for one repository.
type Tracker struct {
	gh    *github.Client
	owner string
	repo  string
}

// New creates a GitHub tracker for the given repository.
func New(token, owner, repo string) *Tracker {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	return &Tracker{
		gh:    github.NewClient(tc),
		owner: owner,
		repo:  repo,
	}
}

// FromRemote creates a GitHub tracker by detecting owner/repo from a git
// remote URL and resolving the token from the environment.
func FromRemote(remoteURL string) (*Tracker, error) {
	owner, repo, err := DetectRepository(remoteURL)
	if err != nil {
		return nil, err
	}
	token, err := ResolveToken()
	if err != nil {
		return nil, err
	}
	return New(token, owner, repo), nil
}

// ResolveToken reads the GitHub token from TAKT_GITHUB_TOKEN, then
// GITHUB_TOKEN.
func ResolveToken() (string, error) {
	if token := os.Getenv("TAKT_GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("%w: set GITHUB_TOKEN", tracker.ErrNoToken)
}

// DetectRepository parses the GitHub owner/repo from a git remote URL.
// Supports git@github.com:owner/repo.git and https://github.com/owner/repo
// forms.
func DetectRepository(remoteURL string) (string, string, error) {
	remoteURL = strings.TrimSpace(remoteURL)

	if strings.HasPrefix(remoteURL, "git@github.com:") {
		path := strings.TrimPrefix(remoteURL, "git@github.com:")
		path = strings.TrimSuffix(path, ".git")
		parts := strings.Split(path, "/")
		if len(parts) == 2 {
			return parts[0], parts[1], nil
		}
	}

	if idx := strings.Index(remoteURL, "github.com/"); idx >= 0 {
		path := remoteURL[idx+len("github.com/"):]
		path = strings.TrimSuffix(path, ".git")
		path = strings.TrimSuffix(path, "/")
		parts := strings.Split(path, "/")
		if len(parts) >= 2 {
			return parts[0], parts[1], nil
		}
	}

	return "", "", fmt.Errorf("not a GitHub remote URL: %s", remoteURL)
}

func (t *Tracker) Name() string { return Name }

func (t *Tracker) CreateIssue(ctx context.Context, title, body string) (int, error) {
	issue, _, err := t.gh.Issues.Create(ctx, t.owner, t.repo, &github.IssueRequest{
		Title: ptr(title),
		Body:  ptr(body),
	})
	if err != nil {
		return 0, fmt.Errorf("create issue in %s/%s: %w", t.owner, t.repo, err)
	}
	return issue.GetNumber(), nil
}

func (t *Tracker) FetchIssue(ctx context.Context, number int) (*tracker.Issue, error) {
	issue, _, err := t.gh.Issues.Get(ctx, t.owner, t.repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetch issue %s/%s#%d: %w", t.owner, t.repo, number, err)
	}
	return &tracker.Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
	}, nil
}

var _ tracker.Tracker = (*Tracker)(nil)
