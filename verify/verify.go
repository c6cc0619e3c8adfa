// Package verify gates change proposals: every modified document must
// carry review metadata whose date literal equals the current date.
package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/docfresh/docmeta"
)

// Reason classifies why a modified document fails verification.
type Reason string

// Verification failure reasons.
const (
	MissingFrontMatter    Reason = "MissingFrontMatter"
	MissingReviewedAt     Reason = "MissingReviewedAt"
	StaleOrMismatchedDate Reason = "StaleOrMismatchedDate"
)

// Problem is one failing document.
type Problem struct {
	Path   string
	Reason Reason
}

// String renders a single diagnostic line.
func (p Problem) String() string {
	switch p.Reason {
	case MissingFrontMatter:
		return fmt.Sprintf("%s: missing review metadata block", p.Path)
	case MissingReviewedAt:
		return fmt.Sprintf("%s: metadata block has no %s field", p.Path, docmeta.ReviewedAtKey)
	case StaleOrMismatchedDate:
		return fmt.Sprintf("%s: %s was not bumped to today", p.Path, docmeta.ReviewedAtKey)
	default:
		return fmt.Sprintf("%s: %s", p.Path, p.Reason)
	}
}

// Report is the outcome over the whole modified set.
type Report struct {
	OK       bool
	Problems []Problem
}

// CheckAll validates each modified document path against today. Paths are
// relative to root. Missing files are skipped: deletions are permitted.
// The date comparison is string-exact against the yyyy-mm-dd literal, not
// calendar distance, so an unparseable date also fails as mismatched.
func CheckAll(root string, paths []string, today time.Time) (Report, error) {
	todayLiteral := docmeta.FormatDate(today)
	report := Report{OK: true}

	for _, p := range paths {
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(p)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Report{}, fmt.Errorf("read %s: %w", p, err)
		}

		if problem, ok := check(p, string(content), todayLiteral); !ok {
			report.OK = false
			report.Problems = append(report.Problems, problem)
		}
	}

	return report, nil
}

// check validates one document's metadata against today's literal.
func check(path, content, todayLiteral string) (Problem, bool) {
	m := docmeta.Parse(content)

	var literal string
	switch m.Kind {
	case docmeta.KindBlock:
		v, ok := m.Field(docmeta.ReviewedAtKey)
		if !ok {
			return Problem{Path: path, Reason: MissingReviewedAt}, false
		}
		literal = v
	case docmeta.KindMarker:
		literal = m.Date
	default:
		return Problem{Path: path, Reason: MissingFrontMatter}, false
	}

	if literal != todayLiteral {
		return Problem{Path: path, Reason: StaleOrMismatchedDate}, false
	}
	return Problem{}, true
}
