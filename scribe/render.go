package scribe

import (
	"regexp"
	"strings"
)

// timestampRE matches an embedded caption timestamp like "01:23" or
// "1:02:03" together with the whitespace around it.
var timestampRE = regexp.MustCompile(`(?:^|\s+)(?:\d{1,2}:)?\d{1,2}:\d{2}(?:\s+|$)`)

// StripTimestamp removes the first timestamp in line and trims the result.
// Later timestamp-shaped text is left alone. The match is replaced with a
// single space on purpose, so "see 01:23 here" becomes "see here" and not
// "seehere".
func StripTimestamp(line string) string {
	loc := timestampRE.FindStringIndex(line)
	if loc == nil {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(line[:loc[0]] + " " + line[loc[1]:])
}

// RenderLine formats one segment as a markdown line.
func RenderLine(seg Segment) string {
	if seg.Kind == SectionHeader {
		return "# " + strings.TrimSpace(seg.Text)
	}
	return StripTimestamp(seg.Text)
}

// Render joins segments in order, one line each.
func Render(segs []Segment) string {
	lines := make([]string, len(segs))
	for i, seg := range segs {
		lines[i] = RenderLine(seg)
	}
	return strings.Join(lines, "\n")
}
