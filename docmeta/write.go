package docmeta

import (
	"strings"
	"time"
)

// Format selects the metadata form emitted when a document has none yet.
type Format string

// Target formats for newly written metadata.
const (
	FormatFrontMatter Format = "frontmatter"
	FormatMarker      Format = "marker"
)

// Valid reports whether the format is a recognized target.
func (f Format) Valid() bool {
	return f == FormatFrontMatter || f == FormatMarker
}

// Write returns the document content with its review date set to date.
//
// When a front matter block exists, only the reviewed_at value changes;
// every other field keeps its exact text and position, and everything after
// the block is untouched. A block without a reviewed_at key gains one as
// its first field. When the legacy marker exists, only its date literal
// changes. When no metadata exists at all, a minimal block (or marker
// line, per format) is prepended, followed by exactly one blank line and
// the original content unchanged.
func Write(content string, date time.Time, format Format) string {
	literal := FormatDate(date)

	if raw, ok := parseBlock(content); ok {
		if fields, err := decodeFields(raw.yamlText); err == nil && len(fields) > 0 {
			return rewriteBlock(content, raw, literal)
		}
	}

	if _, rest, ok := parseMarker(content); ok {
		return markerPrefix + literal + "\n" + rest
	}

	return prepend(content, literal, format)
}

// rewriteBlock substitutes the reviewed_at line inside an existing block,
// leaving all other lines and the post-block content byte-for-byte intact.
func rewriteBlock(content string, raw rawBlock, literal string) string {
	reviewedLine := ReviewedAtKey + ": " + literal

	lines := make([]string, 0, len(raw.fieldLines)+1)
	replaced := false
	for _, line := range raw.fieldLines {
		if !replaced && fieldKey(line) == ReviewedAtKey {
			lines = append(lines, reviewedLine)
			replaced = true
			continue
		}
		lines = append(lines, line)
	}
	if !replaced {
		// No reviewed_at yet: insert it ahead of the existing fields.
		lines = append([]string{reviewedLine}, lines...)
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.WriteString(content[raw.end:])
	return b.String()
}

// prepend constructs fresh minimal metadata ahead of untouched content.
func prepend(content, literal string, format Format) string {
	var head string
	switch format {
	case FormatMarker:
		head = markerPrefix + literal + "\n"
	default:
		head = delimiter + "\n" + ReviewedAtKey + ": " + literal + "\n" + delimiter + "\n"
	}
	return head + "\n" + content
}

// fieldKey extracts the YAML key of a raw block line, or "" for lines that
// are not top-level key/value pairs (continuations, comments).
func fieldKey(line string) string {
	if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' {
		return ""
	}
	idx := strings.IndexByte(line, ':')
	if idx == -1 {
		return ""
	}
	return strings.TrimSpace(line[:idx])
}
