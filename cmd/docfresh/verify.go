package main

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/c360studio/docfresh/docmeta"
	"github.com/c360studio/docfresh/tools/git"
	"github.com/c360studio/docfresh/verify"
	"github.com/spf13/cobra"
)

func verifyCmd(flags *rootFlags) *cobra.Command {
	var (
		baseFlag  string
		todayFlag string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify modified documents carry today's review date",
		Long: `Verify checks every document modified relative to the base branch for
front matter with a reviewed_at date equal to today. It exits non-zero
with one diagnostic line per problem, which gates change proposals on
fresh review metadata.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(flags)
			if err != nil {
				return err
			}

			base := baseFlag
			if base == "" {
				base = env.cfg.Review.Base
			}

			today := time.Now()
			if todayFlag != "" {
				t, ok := docmeta.ParseDate(todayFlag)
				if !ok {
					return fmt.Errorf("invalid --today date %q (want yyyy-mm-dd)", todayFlag)
				}
				today = t
			}

			changed, err := git.NewExecutor(env.repoRoot).ChangedFiles(cmd.Context(), base)
			if err != nil {
				return fmt.Errorf("list changed files: %w", err)
			}

			docs := filterDocs(changed, env.cfg.Docs.Dir, env.cfg.Docs.Patterns)
			if len(docs) == 0 {
				fmt.Println("docfresh: no modified documents to verify")
				return nil
			}

			report, err := verify.CheckAll(env.repoRoot, docs, today)
			if err != nil {
				return err
			}

			if report.OK {
				fmt.Printf("docfresh: %d modified document(s) verified\n", len(docs))
				return nil
			}

			for _, p := range report.Problems {
				fmt.Fprintln(os.Stderr, p.String())
			}
			return fmt.Errorf("%d document(s) failed review verification", len(report.Problems))
		},
	}

	cmd.Flags().StringVar(&baseFlag, "base", "", "Base branch for the diff (default: configured review.base)")
	cmd.Flags().StringVar(&todayFlag, "today", "", "Verification date override (yyyy-mm-dd, default: today)")

	return cmd
}

// filterDocs keeps the changed paths that live under the docs directory
// and match one of the configured glob patterns. Paths are git-style
// slash paths relative to the repository root.
func filterDocs(changed []string, docsDir string, patterns []string) []string {
	prefix := path.Clean(strings.ReplaceAll(docsDir, "\\", "/")) + "/"

	var docs []string
	for _, file := range changed {
		if !strings.HasPrefix(file, prefix) {
			continue
		}
		rel := strings.TrimPrefix(file, prefix)
		for _, pattern := range patterns {
			if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
				docs = append(docs, file)
				break
			}
		}
	}
	return docs
}
