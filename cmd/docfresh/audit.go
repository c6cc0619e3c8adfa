package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/c360studio/docfresh/audit"
	"github.com/c360studio/docfresh/docmeta"
	"github.com/c360studio/docfresh/events"
	"github.com/c360studio/docfresh/metrics"
	"github.com/c360studio/docfresh/rotation"
	"github.com/c360studio/docfresh/tools/github"
	"github.com/spf13/cobra"
)

func auditCmd(flags *rootFlags) *cobra.Command {
	var (
		todayFlag  string
		outputPath string
		statePath  string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit the next document in the rotation",
		Long: `Audit selects the next document in the round-robin rotation, checks
whether its review date is within the freshness window, and when stale
rewrites the review metadata and picks a reviewer. The decision is
emitted as needs_review/file_path/assignee output lines.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(flags)
			if err != nil {
				return err
			}
			return runAudit(cmd.Context(), env, todayFlag, outputPath, statePath)
		},
	}

	cmd.Flags().StringVar(&todayFlag, "today", "", "Audit date override (yyyy-mm-dd, default: today)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output file for decision lines (default: $GITHUB_OUTPUT, else stdout)")
	cmd.Flags().StringVar(&statePath, "state", "", "Rotation state file override")

	return cmd
}

func runAudit(ctx context.Context, env *appEnv, todayFlag, outputPath, statePath string) error {
	result, err := executeAudit(ctx, env, todayFlag, statePath)
	if err != nil {
		return err
	}

	if err := writeOutputs(outputPath, result.Decision); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}

	emitDecision(env, result)
	return nil
}

// executeAudit wires configuration into an Auditor and runs it once.
func executeAudit(ctx context.Context, env *appEnv, todayFlag, statePath string) (*audit.Result, error) {
	now := time.Now
	if todayFlag != "" {
		t, ok := docmeta.ParseDate(todayFlag)
		if !ok {
			return nil, fmt.Errorf("invalid --today date %q (want yyyy-mm-dd)", todayFlag)
		}
		now = func() time.Time { return t }
	}

	if statePath == "" {
		statePath = env.cfg.State.Path
	}
	store := rotation.NewStore(resolvePath(env.repoRoot, statePath))

	var proposals audit.ProposalService
	if github.IsGHAvailable() {
		proposals = github.NewExecutor(env.repoRoot, env.cfg.Review.Base)
	} else {
		env.logger.Warn("gh CLI unavailable, duplicate-proposal guard disabled")
	}

	auditor := audit.NewAuditor(audit.Options{
		RepoRoot:  env.repoRoot,
		DocsDir:   env.cfg.Docs.Dir,
		Patterns:  env.cfg.Docs.Patterns,
		Window:    env.cfg.Review.Window(),
		Format:    docmeta.Format(env.cfg.Docs.Format),
		Reviewers: env.cfg.Review.Reviewers,
		States:    store,
		Proposals: proposals,
		Now:       now,
		Logger:    env.logger,
	})

	return auditor.Run(ctx)
}

// emitDecision publishes the decision event and pushes scan metrics.
// Both are best effort: failures are logged, never fatal.
func emitDecision(env *appEnv, result *audit.Result) {
	if url := env.cfg.Events.URL; url != "" {
		pub, err := events.Connect(url, env.logger)
		if err != nil {
			env.logger.Warn("event publishing unavailable", "url", url, "error", err)
		} else {
			if err := pub.PublishDecision(result); err != nil {
				env.logger.Warn("publish decision event failed", "error", err)
			}
			pub.Close()
		}
	}

	if gateway := env.cfg.Metrics.Gateway; gateway != "" {
		pusher := metrics.NewPusher(gateway)
		pusher.Record(result.Stats)
		if err := pusher.Push(); err != nil {
			env.logger.Warn("metrics push failed", "gateway", gateway, "error", err)
		}
	}
}

// formatOutputs renders the decision as key=value lines for the host
// scheduler.
func formatOutputs(d audit.Decision) string {
	out := fmt.Sprintf("needs_review=%t\n", d.NeedsReview)
	if d.NeedsReview {
		out += "file_path=" + d.FilePath + "\n"
		out += "assignee=" + d.Assignee + "\n"
	}
	return out
}

// writeOutputs appends decision lines to path, falling back to
// $GITHUB_OUTPUT and then stdout.
func writeOutputs(path string, d audit.Decision) error {
	lines := formatOutputs(d)

	if path == "" {
		path = os.Getenv("GITHUB_OUTPUT")
	}
	if path == "" {
		fmt.Print(lines)
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(lines)
	return err
}
