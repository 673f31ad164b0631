package transcription

import "strings"

// Render formats a transcript: a "** stem **" header, a blank line, then
// every segment's text followed by a single space.
func Render(stem string, segments []Segment) string {
	var b strings.Builder
	b.WriteString("** ")
	b.WriteString(stem)
	b.WriteString(" **\n\n")
	for _, seg := range segments {
		b.WriteString(seg.Text)
		b.WriteString(" ")
	}
	return b.String()
}
