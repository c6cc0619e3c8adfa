// Package audit implements the rotation-and-staleness decision engine: one
// invocation walks the document rotation from the persisted cursor, finds
// at most one stale document, rewrites its review metadata, and reports
// which reviewer should receive the resulting change proposal.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/docfresh/docmeta"
	"github.com/c360studio/docfresh/rotation"
)

// ProposalService answers whether the change-proposal platform already has
// an open proposal touching a document. Queries are best-effort: the
// auditor fails open on error.
type ProposalService interface {
	HasOpenProposal(ctx context.Context, path string) (bool, error)
}

// Decision is the ephemeral output of one invocation, consumed by the
// external collaborator that opens the change proposal.
type Decision struct {
	RunID       string `json:"run_id"`
	NeedsReview bool   `json:"needs_review"`
	FilePath    string `json:"file_path,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
}

// Stats counts what one scan did, for logging and the optional metrics
// push.
type Stats struct {
	Scanned        int
	Fresh          int
	DuplicateSkips int
	StaleFound     int
}

// Result bundles the decision with the scan counters.
type Result struct {
	Decision Decision
	Stats    Stats
}

// Options configures an Auditor. Everything with a real failure mode or a
// clock is injected so the scan loop is testable without patching globals.
type Options struct {
	// RepoRoot is the repository root all relative paths resolve against.
	RepoRoot string
	// DocsDir is the directory holding the documents under audit,
	// relative to RepoRoot unless absolute. Decision paths are reported
	// relative to RepoRoot.
	DocsDir string
	// Patterns are doublestar globs relative to DocsDir (default **/*.md).
	Patterns []string
	// Window is the freshness window (default DefaultWindow).
	Window time.Duration
	// Format is the metadata form written to documents that have none.
	Format docmeta.Format
	// Reviewers is the assignee pool.
	Reviewers []string
	// States persists the rotation cursor.
	States *rotation.Store
	// Proposals is the duplicate guard. Nil disables the guard.
	Proposals ProposalService
	// Now supplies the current date; tests inject a fixed value.
	Now func() time.Time
	// Logger receives the human-readable scan trace.
	Logger *slog.Logger
}

// Auditor drives one audit invocation.
type Auditor struct {
	opts Options
}

// NewAuditor creates an auditor, filling in defaults for unset options.
func NewAuditor(opts Options) *Auditor {
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"**/*.md"}
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if !opts.Format.Valid() {
		opts.Format = docmeta.FormatFrontMatter
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Auditor{opts: opts}
}

// docsAbs returns the absolute documents directory.
func (a *Auditor) docsAbs() string {
	if filepath.IsAbs(a.opts.DocsDir) {
		return a.opts.DocsDir
	}
	return filepath.Join(a.opts.RepoRoot, a.opts.DocsDir)
}

// Run executes one scan. It returns a fatal error only when the document
// listing fails, a candidate cannot be read or written, or the assignee
// pool is empty at assignment time. An empty document set and an exhausted
// rotation both resolve to a needs-review=false decision.
func (a *Auditor) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	logger := a.opts.Logger.With("run_id", runID)
	now := today(a.opts.Now())

	docsDir := a.docsAbs()
	files, err := ListDocuments(docsDir, a.opts.Patterns)
	if err != nil {
		return nil, err
	}

	result := &Result{Decision: Decision{RunID: runID}}

	if len(files) == 0 {
		logger.Info("No documents to audit", "dir", docsDir)
		return result, nil
	}

	state := a.opts.States.Load()
	logger.Debug("Loaded rotation state",
		"last_index", state.LastIndex,
		"documents", len(files))

	// Bounded by the listing length so a rotation where every candidate
	// is skipped still terminates.
	for i := 0; i < len(files); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		file, idx, ok := rotation.SelectNext(files, state.LastIndex)
		if !ok {
			break
		}
		docPath := path.Join(filepath.ToSlash(a.opts.DocsDir), file)
		fullPath := filepath.Join(docsDir, filepath.FromSlash(file))
		result.Stats.Scanned++

		content, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, fmt.Errorf("read candidate %s: %w", docPath, err)
		}

		reviewed, hasDate := docmeta.ReviewDate(string(content))
		if !IsStale(reviewed, hasDate, now, a.opts.Window) {
			logger.Info("Document fresh, advancing",
				"path", docPath,
				"reviewed_at", docmeta.FormatDate(reviewed))
			result.Stats.Fresh++
			if err := a.advance(&state, idx); err != nil {
				return nil, err
			}
			continue
		}

		if a.hasOpenProposal(ctx, logger, docPath) {
			logger.Info("Stale but a proposal is already open, skipping",
				"path", docPath)
			result.Stats.DuplicateSkips++
			if err := a.advance(&state, idx); err != nil {
				return nil, err
			}
			continue
		}

		// Found: rewrite metadata, assign, persist cursor, stop.
		updated := docmeta.Write(string(content), now, a.opts.Format)
		if err := os.WriteFile(fullPath, []byte(updated), 0644); err != nil {
			return nil, fmt.Errorf("rewrite metadata for %s: %w", docPath, err)
		}

		assignee, err := ChooseAssignee(a.opts.Reviewers)
		if err != nil {
			return nil, fmt.Errorf("assign reviewer for %s: %w", docPath, err)
		}

		if err := a.advance(&state, idx); err != nil {
			return nil, err
		}

		result.Stats.StaleFound++
		result.Decision.NeedsReview = true
		result.Decision.FilePath = docPath
		result.Decision.Assignee = assignee

		logger.Info("Stale document found",
			"path", docPath,
			"assignee", assignee,
			"cursor", idx)
		return result, nil
	}

	logger.Info("Rotation exhausted, nothing stale",
		"scanned", result.Stats.Scanned,
		"duplicate_skips", result.Stats.DuplicateSkips,
		"cursor", state.LastIndex)
	return result, nil
}

// advance moves the cursor to idx and persists it immediately so an
// interrupted scan resumes where it stopped.
func (a *Auditor) advance(state *rotation.State, idx int) error {
	state.LastIndex = idx
	if err := a.opts.States.Save(*state); err != nil {
		return fmt.Errorf("persist rotation state: %w", err)
	}
	return nil
}

// hasOpenProposal consults the duplicate guard, failing open on error.
func (a *Auditor) hasOpenProposal(ctx context.Context, logger *slog.Logger, docPath string) bool {
	if a.opts.Proposals == nil {
		return false
	}
	open, err := a.opts.Proposals.HasOpenProposal(ctx, docPath)
	if err != nil {
		logger.Warn("Duplicate-proposal query failed, treating as no duplicate",
			"path", docPath,
			"error", err)
		return false
	}
	return open
}

// today truncates a time to its midnight-UTC calendar date.
func today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
