package gitlog

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/commitlens/commitlens-go/internal/errors"
)

// HistorySource is the bounded history query the mining pipeline consumes.
// It returns the raw line stream; parsing happens downstream.
type HistorySource interface {
	QueryCommits(ctx context.Context, author, since, until string) ([]string, error)
}

// BranchChecker answers whether a commit is reachable from any branch
// whose name matches a pattern. Used for hotfix detection.
type BranchChecker interface {
	BranchContains(ctx context.Context, hash, branchPattern string) (bool, error)
}

// Client runs git against a local repository. It is the only component
// that touches the VCS; everything downstream is a pure transformation.
type Client struct {
	repoPath string
}

// NewClient creates a Client for the repository at repoPath.
func NewClient(repoPath string) *Client {
	return &Client{repoPath: repoPath}
}

// DetectRepo verifies repoPath is inside a git working tree.
func (c *Client) DetectRepo(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = c.repoPath
	if err := cmd.Run(); err != nil {
		return errors.ExternalErrorf(err, "not a git repository: %s", c.repoPath)
	}
	return nil
}

// QueryCommits returns the raw git log lines for one author over a bounded
// window. Header lines carry hash|date|subject with a fixed-width short
// date; stat lines are numstat output (added, deleted, path, tab-separated).
func (c *Client) QueryCommits(ctx context.Context, author, since, until string) ([]string, error) {
	args := []string{
		"log",
		"--author=" + author,
		"--date=short",
		"--pretty=format:%H|%ad|%s",
		"--numstat",
	}
	if since != "" {
		args = append(args, "--since="+since)
	}
	if until != "" {
		args = append(args, "--until="+until)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.repoPath

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, errors.ExternalErrorf(err, "git log failed (stderr: %s)", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, errors.ExternalError(err, "git log failed")
	}

	raw := strings.TrimRight(string(output), "\n")
	if raw == "" {
		// No commits in the window: valid empty result, not a failure
		return nil, nil
	}
	return strings.Split(raw, "\n"), nil
}

// BranchContains reports whether any branch matching branchPattern
// (a regular expression tested against branch names) has hash in its
// ancestry. Remote branches are included so release branches count even
// when not checked out locally.
func (c *Client) BranchContains(ctx context.Context, hash, branchPattern string) (bool, error) {
	re, err := regexp.Compile("(?i)" + branchPattern)
	if err != nil {
		return false, errors.ValidationErrorf("invalid branch pattern %q: %v", branchPattern, err)
	}

	cmd := exec.CommandContext(ctx, "git", "branch", "-a", "--contains", hash, "--format=%(refname:short)")
	cmd.Dir = c.repoPath

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return false, errors.ExternalErrorf(err, "git branch --contains %s failed (stderr: %s)", hash, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return false, errors.ExternalErrorf(err, "git branch --contains %s failed", hash)
	}

	for _, line := range strings.Split(string(output), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if re.MatchString(name) {
			return true, nil
		}
	}
	return false, nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = c.repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", errors.ExternalError(err, "git rev-parse failed")
	}
	return strings.TrimSpace(string(output)), nil
}

// AuthorEmail returns the configured git user email, a convenient default
// for the --author flag.
func (c *Client) AuthorEmail(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "config", "user.email")
	cmd.Dir = c.repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git config user.email: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
