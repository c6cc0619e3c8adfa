// Package git wraps the git CLI for the verifier's modified-file queries.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs git commands in a repository.
type Executor struct {
	repoRoot string
}

// NewExecutor creates a git executor rooted at repoRoot.
func NewExecutor(repoRoot string) *Executor {
	return &Executor{repoRoot: repoRoot}
}

// ChangedFiles returns the paths modified on the current branch relative
// to the merge base with base, as slash-separated paths relative to the
// repository root.
func (e *Executor) ChangedFiles(ctx context.Context, base string) ([]string, error) {
	output, err := e.runGit(ctx, "diff", "--name-only", base+"...HEAD")
	if err != nil {
		return nil, fmt.Errorf("diff against %s: %w", base, err)
	}

	var files []string
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			files = append(files, trimmed)
		}
	}
	return files, nil
}

// Root returns the repository toplevel as reported by git.
func (e *Executor) Root(ctx context.Context) (string, error) {
	output, err := e.runGit(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("resolve repository root: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// runGit executes a git command in the repo directory.
func (e *Executor) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.repoRoot

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%w: %s", err, string(output))
	}
	return string(output), nil
}
