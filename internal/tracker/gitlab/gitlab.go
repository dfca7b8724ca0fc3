// Package gitlab integrates the GitLab issue tracker.
package gitlab

import (
	"context"
	"fmt"
	"os"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/valksor/go-taktwerk/internal/tracker"
)

const Name = "gitlab"

func ptr[T any](v T) *T {
	return &v
}

// Tracker talks to the GitLab issues API for one project.
type Tracker struct {
	gl          *gitlab.Client
	projectPath string
}

// New creates a GitLab tracker for the given project path, e.g.
// "group/project". host selects a self-hosted instance; empty means
// gitlab.com.
func New(token, host, projectPath string) (*Tracker, error) {
	var options []gitlab.ClientOptionFunc
	if host != "" && host != "gitlab.com" && host != "https://gitlab.com" {
		baseURL := strings.TrimSuffix(host, "/") + "/api/v4"
		options = append(options, gitlab.WithBaseURL(baseURL))
	}

	client, err := gitlab.NewClient(token, options...)
	if err != nil {
		return nil, fmt.Errorf("create gitlab client: %w", err)
	}
	return &Tracker{gl: client, projectPath: projectPath}, nil
}

// FromRemote creates a GitLab tracker by detecting the project path from a
// git remote URL and resolving the token from the environment.
func FromRemote(remoteURL string) (*Tracker, error) {
	host, path, err := DetectProject(remoteURL)
	if err != nil {
		return nil, err
	}
	token, err := ResolveToken()
	if err != nil {
		return nil, err
	}
	return New(token, host, path)
}

// ResolveToken reads the GitLab token from TAKT_GITLAB_TOKEN, then
// GITLAB_TOKEN.
func ResolveToken() (string, error) {
	if token := os.Getenv("TAKT_GITLAB_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GITLAB_TOKEN"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("%w: set GITLAB_TOKEN", tracker.ErrNoToken)
}

// DetectProject parses the host and project path from a git remote URL.
// Supports git@host:group/project.git and https://host/group/project forms;
// nested groups keep their full path.
func DetectProject(remoteURL string) (host, path string, err error) {
	remoteURL = strings.TrimSpace(remoteURL)

	if rest, ok := strings.CutPrefix(remoteURL, "git@"); ok {
		h, p, found := strings.Cut(rest, ":")
		if found && p != "" {
			return h, strings.TrimSuffix(p, ".git"), nil
		}
	}

	for _, scheme := range []string{"https://", "http://"} {
		if rest, ok := strings.CutPrefix(remoteURL, scheme); ok {
			h, p, found := strings.Cut(rest, "/")
			if found && p != "" {
				p = strings.TrimSuffix(p, ".git")
				p = strings.TrimSuffix(p, "/")
				return h, p, nil
			}
		}
	}

	return "", "", fmt.Errorf("not a GitLab remote URL: %s", remoteURL)
}

func (t *Tracker) Name() string { return Name }

func (t *Tracker) CreateIssue(ctx context.Context, title, body string) (int, error) {
	issue, _, err := t.gl.Issues.CreateIssue(t.projectPath, &gitlab.CreateIssueOptions{
		Title:       ptr(title),
		Description: ptr(body),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("create issue in %s: %w", t.projectPath, err)
	}
	return int(issue.IID), nil
}

func (t *Tracker) FetchIssue(ctx context.Context, number int) (*tracker.Issue, error) {
	issue, _, err := t.gl.Issues.GetIssue(t.projectPath, int64(number), gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch issue %s#%d: %w", t.projectPath, number, err)
	}
	return &tracker.Issue{
		Number: int(issue.IID),
		Title:  issue.Title,
		Body:   issue.Description,
		State:  issue.State,
		URL:    issue.WebURL,
	}, nil
}

var _ tracker.Tracker = (*Tracker)(nil)
