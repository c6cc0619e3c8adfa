package docmeta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NoMetadata(t *testing.T) {
	content := "# Runbook\n\nRestart the service.\n"

	m := Parse(content)

	assert.Equal(t, KindNone, m.Kind)
	assert.False(t, m.Present())
	assert.Equal(t, content, m.Body)
}

func TestParse_FrontMatter(t *testing.T) {
	content := `---
reviewed_at: 2025-05-01
author: ops-team
tags: runbook
---

# Runbook

Restart the service.
`

	m := Parse(content)

	require.Equal(t, KindBlock, m.Kind)
	require.Len(t, m.Fields, 3)
	assert.Equal(t, Field{Key: "reviewed_at", Value: "2025-05-01"}, m.Fields[0])
	assert.Equal(t, Field{Key: "author", Value: "ops-team"}, m.Fields[1])
	assert.Equal(t, Field{Key: "tags", Value: "runbook"}, m.Fields[2])

	date, ok := m.Field(ReviewedAtKey)
	require.True(t, ok)
	assert.Equal(t, "2025-05-01", date)

	assert.Equal(t, "# Runbook\n\nRestart the service.\n", m.Body)
}

func TestParse_EmptyBlockIsNotMetadata(t *testing.T) {
	content := "---\n---\n\n# Doc\n"

	m := Parse(content)

	assert.Equal(t, KindNone, m.Kind)
	assert.Equal(t, content, m.Body)
}

func TestParse_UnclosedBlockIsNotMetadata(t *testing.T) {
	content := "---\nreviewed_at: 2025-05-01\n\n# No closing delimiter\n"

	m := Parse(content)

	assert.Equal(t, KindNone, m.Kind)
	assert.Equal(t, content, m.Body)
}

func TestParse_MalformedYAMLIsNotMetadata(t *testing.T) {
	content := "---\nreviewed_at: [unclosed\n---\n\nBody.\n"

	m := Parse(content)

	assert.Equal(t, KindNone, m.Kind)
}

func TestParse_LegacyMarker(t *testing.T) {
	content := "reviewed at 2025-05-01\n\n# Runbook\n"

	m := Parse(content)

	require.Equal(t, KindMarker, m.Kind)
	assert.Equal(t, "2025-05-01", m.Date)
	assert.Equal(t, "# Runbook\n", m.Body)
}

func TestReviewDate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{"front matter", "---\nreviewed_at: 2025-05-01\n---\nBody\n", "2025-05-01", true},
		{"marker", "reviewed at 2025-05-01\n\nBody\n", "2025-05-01", true},
		{"no metadata", "# Just a doc\n", "", false},
		{"block without reviewed_at", "---\nauthor: someone\n---\nBody\n", "", false},
		{"invalid calendar date", "---\nreviewed_at: 2025-13-45\n---\nBody\n", "", false},
		{"not a date", "---\nreviewed_at: not-a-date\n---\nBody\n", "", false},
		{"marker with bad date", "reviewed at yesterday\n\nBody\n", "", false},
		{"empty block", "---\n---\nBody\n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, ok := ReviewDate(tt.content)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, FormatDate(date))
			}
		})
	}
}

func TestParseDate_RejectsNonRoundTripping(t *testing.T) {
	for _, literal := range []string{"2025-13-45", "2025-2-3", "2025-02-30", "20250203", ""} {
		_, ok := ParseDate(literal)
		assert.False(t, ok, "literal %q should be rejected", literal)
	}

	d, ok := ParseDate("2025-02-03")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), d)
}

func TestWrite_UpdatesExistingBlock(t *testing.T) {
	content := `---
title: Incident response
reviewed_at: 2024-11-02
owner: sre
---

# Incident response

Steps.
`
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	out := Write(content, date, FormatFrontMatter)

	want := `---
title: Incident response
reviewed_at: 2025-06-01
owner: sre
---

# Incident response

Steps.
`
	assert.Equal(t, want, out)
}

func TestWrite_AddsReviewedAtToBlockWithoutOne(t *testing.T) {
	content := "---\nauthor: docs\n---\n\nBody.\n"
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	out := Write(content, date, FormatFrontMatter)

	assert.Equal(t, "---\nreviewed_at: 2025-06-01\nauthor: docs\n---\n\nBody.\n", out)
}

func TestWrite_UpdatesMarkerInPlace(t *testing.T) {
	content := "reviewed at 2024-01-01\n\n# Old doc\n"
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	out := Write(content, date, FormatFrontMatter)

	assert.Equal(t, "reviewed at 2025-06-01\n\n# Old doc\n", out)
}

func TestWrite_PrependsBlockWhenAbsent(t *testing.T) {
	content := "# Fresh doc\n\nNothing here yet.\n"
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	out := Write(content, date, FormatFrontMatter)

	assert.Equal(t, "---\nreviewed_at: 2025-06-01\n---\n\n# Fresh doc\n\nNothing here yet.\n", out)
}

func TestWrite_PrependsMarkerWhenConfigured(t *testing.T) {
	content := "# Fresh doc\n"
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	out := Write(content, date, FormatMarker)

	assert.Equal(t, "reviewed at 2025-06-01\n\n# Fresh doc\n", out)
}

func TestWrite_ReadRoundTrip(t *testing.T) {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	contents := []string{
		"# No metadata yet\n",
		"---\nreviewed_at: 2020-01-01\nauthor: x\n---\n\nBody.\n",
		"reviewed at 2020-01-01\n\nBody.\n",
		"---\nauthor: x\n---\n\nBody.\n",
	}

	for _, content := range contents {
		out := Write(content, date, FormatFrontMatter)
		got, ok := ReviewDate(out)
		require.True(t, ok, "content: %q", content)
		assert.True(t, got.Equal(date), "content: %q", content)
	}
}

func TestWrite_PreservesBodyExactly(t *testing.T) {
	body := "\n# Title\n\n```\ncode --- with delimiter text\n```\n\ntrailing  spaces  \n"
	content := "---\nreviewed_at: 2024-01-01\n---" + body
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	out := Write(content, date, FormatFrontMatter)

	assert.Equal(t, "---\nreviewed_at: 2025-06-01\n---"+body, out)
}
