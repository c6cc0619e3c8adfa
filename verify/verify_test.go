package verify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func writeDoc(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestCheckAll_AllCurrent(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/x.md", "---\nreviewed_at: 2025-06-01\n---\n\n# X\n")
	writeDoc(t, root, "docs/y.md", "reviewed at 2025-06-01\n\n# Y\n")

	report, err := CheckAll(root, []string{"docs/x.md", "docs/y.md"}, today)
	require.NoError(t, err)

	assert.True(t, report.OK)
	assert.Empty(t, report.Problems)
}

func TestCheckAll_StaleDate(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/x.md", "---\nreviewed_at: 2025-05-30\n---\n\n# X\n")

	report, err := CheckAll(root, []string{"docs/x.md"}, today)
	require.NoError(t, err)

	assert.False(t, report.OK)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, "docs/x.md", report.Problems[0].Path)
	assert.Equal(t, StaleOrMismatchedDate, report.Problems[0].Reason)
}

func TestCheckAll_ProblemPerDocument(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/no-meta.md", "# Nothing here\n")
	writeDoc(t, root, "docs/no-date.md", "---\nauthor: alice\n---\n\n# X\n")
	writeDoc(t, root, "docs/bad-date.md", "---\nreviewed_at: not-a-date\n---\n\n# X\n")
	writeDoc(t, root, "docs/current.md", "---\nreviewed_at: 2025-06-01\n---\n\n# X\n")

	paths := []string{"docs/no-meta.md", "docs/no-date.md", "docs/bad-date.md", "docs/current.md"}
	report, err := CheckAll(root, paths, today)
	require.NoError(t, err)

	assert.False(t, report.OK)
	require.Len(t, report.Problems, 3)
	assert.Equal(t, MissingFrontMatter, report.Problems[0].Reason)
	assert.Equal(t, MissingReviewedAt, report.Problems[1].Reason)
	assert.Equal(t, StaleOrMismatchedDate, report.Problems[2].Reason)
}

func TestCheckAll_DeletedFileIsSkipped(t *testing.T) {
	root := t.TempDir()

	report, err := CheckAll(root, []string{"docs/gone.md"}, today)
	require.NoError(t, err)

	assert.True(t, report.OK)
}

func TestCheckAll_EmptyBlockIsMissingMetadata(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/empty.md", "---\n---\n\n# X\n")

	report, err := CheckAll(root, []string{"docs/empty.md"}, today)
	require.NoError(t, err)

	assert.False(t, report.OK)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, MissingFrontMatter, report.Problems[0].Reason)
}

func TestProblem_String(t *testing.T) {
	p := Problem{Path: "docs/x.md", Reason: StaleOrMismatchedDate}
	assert.Contains(t, p.String(), "docs/x.md")
	assert.Contains(t, p.String(), "reviewed_at")
}
