package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/c360studio/docfresh/watch"
	"github.com/spf13/cobra"
)

func watchCmd(flags *rootFlags) *cobra.Command {
	var statePath string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-audit whenever documents change on disk",
		Long: `Watch runs an audit, then watches the docs directory and re-audits
after each debounced burst of document changes. Intended for local
development; scheduled runs should use the audit command directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(flags)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			docsDir := resolvePath(env.repoRoot, env.cfg.Docs.Dir)
			watcher, err := watch.New(docsDir, env.cfg.Watch.GetDebounce(), env.logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = watcher.Stop() }()

			env.logger.Info("Watching documents", "dir", docsDir)

			// Initial pass so a fresh checkout gets audited immediately.
			if err := auditOnce(ctx, env, statePath); err != nil {
				return err
			}

			for {
				select {
				case <-ctx.Done():
					env.logger.Info("Watch shutdown complete")
					return nil
				case _, ok := <-watcher.Triggers():
					if !ok {
						return nil
					}
					if err := auditOnce(ctx, env, statePath); err != nil {
						env.logger.Error("audit run failed", "error", err)
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "Rotation state file override")

	return cmd
}

// auditOnce runs a single audit pass and reports its decision to stdout.
func auditOnce(ctx context.Context, env *appEnv, statePath string) error {
	result, err := executeAudit(ctx, env, "", statePath)
	if err != nil {
		return err
	}
	if err := writeOutputs("", result.Decision); err != nil {
		return err
	}
	emitDecision(env, result)
	return nil
}
