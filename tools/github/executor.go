// Package github wraps the gh CLI as the change-proposal platform for the
// documentation audit.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs gh commands in a repository.
type Executor struct {
	repoRoot string
	base     string
}

// NewExecutor creates a GitHub executor rooted at repoRoot with the given
// target branch for proposals.
func NewExecutor(repoRoot, base string) *Executor {
	if base == "" {
		base = "main"
	}
	return &Executor{repoRoot: repoRoot, base: base}
}

// openProposal is the subset of `gh pr list --json` output the duplicate
// guard needs.
type openProposal struct {
	Number int `json:"number"`
	Files  []struct {
		Path string `json:"path"`
	} `json:"files"`
}

// HasOpenProposal reports whether an open pull request against the target
// branch already touches path. Errors are returned to the caller, which is
// expected to fail open.
func (e *Executor) HasOpenProposal(ctx context.Context, path string) (bool, error) {
	output, err := e.runGH(ctx, "pr", "list",
		"--state", "open",
		"--base", e.base,
		"--json", "number,files")
	if err != nil {
		return false, err
	}

	return proposalsTouch(output, path)
}

// proposalsTouch parses pr list JSON and reports whether any open proposal
// includes path in its file set.
func proposalsTouch(output, path string) (bool, error) {
	var proposals []openProposal
	if err := json.Unmarshal([]byte(output), &proposals); err != nil {
		return false, fmt.Errorf("parse pr list output: %w", err)
	}

	for _, pr := range proposals {
		for _, f := range pr.Files {
			if f.Path == path {
				return true, nil
			}
		}
	}
	return false, nil
}

// CreateProposal opens a pull request for the current branch, assigned to
// the chosen reviewer, and returns its URL.
func (e *Executor) CreateProposal(ctx context.Context, title, body, assignee string) (string, error) {
	args := []string{"pr", "create",
		"--base", e.base,
		"--title", title,
		"--body", body}
	if assignee != "" {
		args = append(args, "--assignee", assignee)
	}

	output, err := e.runGH(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("create proposal: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// runGH executes a gh command in the repo directory.
func (e *Executor) runGH(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Dir = e.repoRoot

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%w: %s", err, string(output))
	}
	return string(output), nil
}

// IsGHAvailable checks if the gh CLI is available and authenticated.
func IsGHAvailable() bool {
	cmd := exec.Command("gh", "auth", "status")
	return cmd.Run() == nil
}

// RepoName returns the current repository name (owner/repo format).
func RepoName(repoRoot string) (string, error) {
	cmd := exec.Command("gh", "repo", "view", "--json", "nameWithOwner", "-q", ".nameWithOwner")
	cmd.Dir = repoRoot
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
