// Package docmeta parses and rewrites the review-date metadata carried at
// the top of documentation files.
//
// Two forms exist in the wild. The authoritative form is a YAML front
// matter block delimited by --- lines, holding a reviewed_at key among
// arbitrary other keys. The legacy form is a single first line of the
// shape "reviewed at yyyy-mm-dd". The codec recognizes both; only the
// front matter form is emitted for new metadata unless the caller asks
// for the marker format explicitly.
//
// All functions are pure transforms over document content. Persistence is
// the caller's responsibility.
package docmeta

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the calendar-date literal format used in review metadata.
const DateLayout = "2006-01-02"

// ReviewedAtKey is the front matter key carrying the review date.
const ReviewedAtKey = "reviewed_at"

// markerPrefix introduces the legacy single-line form.
const markerPrefix = "reviewed at "

const delimiter = "---"

// Kind identifies which metadata form a document carries.
type Kind int

// Metadata form variants.
const (
	KindNone Kind = iota
	KindMarker
	KindBlock
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindBlock:
		return "block"
	default:
		return "none"
	}
}

// Field is a single front matter key/value pair in document order.
type Field struct {
	Key   string
	Value string
}

// Metadata is the unified parse result for a document.
type Metadata struct {
	Kind   Kind
	Fields []Field // block form only, in original order
	Date   string  // marker form only, the raw date literal
	Body   string  // content after the metadata, leading blank lines stripped
}

// Present reports whether a recognized metadata form was found.
func (m Metadata) Present() bool {
	return m.Kind != KindNone
}

// Field returns the value for a front matter key.
func (m Metadata) Field(key string) (string, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Parse extracts the metadata form, fields, and body from document content.
// A front matter block with zero fields is reported as KindNone: an empty
// block is not valid metadata.
func Parse(content string) Metadata {
	if raw, ok := parseBlock(content); ok {
		fields, err := decodeFields(raw.yamlText)
		if err != nil || len(fields) == 0 {
			return Metadata{Kind: KindNone, Body: content}
		}
		return Metadata{
			Kind:   KindBlock,
			Fields: fields,
			Body:   stripLeadingBlank(content[raw.end:]),
		}
	}

	if date, rest, ok := parseMarker(content); ok {
		return Metadata{
			Kind: KindMarker,
			Date: date,
			Body: stripLeadingBlank(rest),
		}
	}

	return Metadata{Kind: KindNone, Body: content}
}

// ReviewDate extracts the review date from whichever metadata form is
// present. The second return is false when no form exists, when the block
// has no reviewed_at key, or when the literal is not a valid calendar date.
func ReviewDate(content string) (time.Time, bool) {
	m := Parse(content)

	var literal string
	switch m.Kind {
	case KindBlock:
		v, ok := m.Field(ReviewedAtKey)
		if !ok {
			return time.Time{}, false
		}
		literal = v
	case KindMarker:
		literal = m.Date
	default:
		return time.Time{}, false
	}

	return ParseDate(literal)
}

// ParseDate parses a yyyy-mm-dd literal as a midnight-UTC calendar date.
// Literals that do not round-trip to the identical string (wrong widths,
// out-of-range months or days) are rejected.
func ParseDate(literal string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, literal, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	if t.Format(DateLayout) != literal {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a time as the yyyy-mm-dd metadata literal.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// rawBlock records the byte layout of a front matter block so rewrites can
// preserve everything outside the reviewed_at value.
type rawBlock struct {
	fieldLines []string // verbatim lines between the delimiters
	yamlText   string
	end        int // offset of the first byte after the closing delimiter line
}

// parseBlock scans for a delimited block at the very start of content.
func parseBlock(content string) (rawBlock, bool) {
	first, rest, ok := splitLine(content)
	if !ok || strings.TrimRight(first, "\r") != delimiter {
		return rawBlock{}, false
	}

	offset := len(content) - len(rest)
	var lines []string
	for {
		line, next, ok := splitLine(rest)
		if !ok {
			// Closing delimiter at end of file without a trailing newline.
			if strings.TrimRight(rest, "\r") == delimiter {
				return rawBlock{
					fieldLines: lines,
					yamlText:   strings.Join(lines, "\n"),
					end:        len(content),
				}, true
			}
			// No closing delimiter: not a block.
			return rawBlock{}, false
		}
		consumed := len(rest) - len(next)
		rest = next
		offset += consumed

		if strings.TrimRight(line, "\r") == delimiter {
			return rawBlock{
				fieldLines: lines,
				yamlText:   strings.Join(lines, "\n"),
				end:        offset,
			}, true
		}
		lines = append(lines, line)
	}
}

// parseMarker recognizes the legacy "reviewed at yyyy-mm-dd" first line.
// The raw date literal is returned even when it is not a valid calendar
// date; validation happens at ReviewDate time so malformed dates resolve
// to "absent" rather than to "no metadata at all".
func parseMarker(content string) (date, rest string, ok bool) {
	first, rest, found := splitLine(content)
	if !found {
		first, rest = content, ""
	}
	first = strings.TrimRight(first, "\r")
	if !strings.HasPrefix(first, markerPrefix) {
		return "", "", false
	}
	date = strings.TrimSpace(strings.TrimPrefix(first, markerPrefix))
	if date == "" {
		return "", "", false
	}
	return date, rest, true
}

// decodeFields unmarshals the block text as a YAML mapping, preserving key
// order via the node API. Non-mapping blocks are rejected.
func decodeFields(yamlText string) ([]Field, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(yamlText), &doc); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("front matter is not a key/value mapping")
	}

	fields := make([]Field, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		value := mapping.Content[i+1]
		fields = append(fields, Field{
			Key:   key.Value,
			Value: scalarText(value),
		})
	}
	return fields, nil
}

// scalarText renders a YAML value node as a plain string. Nested values
// are re-encoded; review metadata only ever needs the scalar case.
func scalarText(n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(out), "\n")
}

// splitLine splits content at the first newline. ok is false when content
// holds no newline at all.
func splitLine(content string) (line, rest string, ok bool) {
	idx := strings.IndexByte(content, '\n')
	if idx == -1 {
		return content, "", false
	}
	return content[:idx], content[idx+1:], true
}

// stripLeadingBlank drops blank lines from the start of the body.
func stripLeadingBlank(s string) string {
	for {
		line, rest, ok := splitLine(s)
		if !ok {
			if strings.TrimSpace(s) == "" {
				return ""
			}
			return s
		}
		if strings.TrimSpace(line) != "" {
			return s
		}
		s = rest
	}
}
