package episode

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"podscribe/internal/textutil"
)

// DefaultPrefixLen covers the "[YYYYMMDD]" tag plus one separator character.
const DefaultPrefixLen = 11

const tagLayout = "20060102"

var dateTag = regexp.MustCompile(`^\[(\d{8})\]`)

// Episode is the metadata recovered from a transcript filename.
type Episode struct {
	File    string
	Stem    string
	Title   string
	Date    time.Time
	HasDate bool
	// Tag holds the raw date digits when a tag was present, even if they
	// did not form a valid date.
	Tag string
}

// Parse extracts the title and publication date from filename. When the
// stem starts with a date tag the first prefixLen characters are dropped from
// the title; a tag that is not a real calendar date still drops the prefix
// but leaves HasDate false.
func Parse(filename string, prefixLen int) Episode {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ep := Episode{File: base, Stem: stem, Title: stem}

	m := dateTag.FindStringSubmatch(stem)
	if m == nil {
		return ep
	}
	ep.Tag = m[1]
	runes := []rune(stem)
	if prefixLen > len(runes) {
		prefixLen = len(runes)
	}
	if prefixLen > 0 {
		ep.Title = string(runes[prefixLen:])
	}
	if date, err := time.Parse(tagLayout, m[1]); err == nil {
		ep.Date = date
		ep.HasDate = true
	}
	return ep
}

// Section renders the markdown block for one episode. The publication line
// ends in two spaces, a markdown hard line break.
func Section(ep Episode, body string) string {
	var b strings.Builder
	b.Grow(len(ep.Title) + len(body) + 48)
	b.WriteString("## ")
	b.WriteString(ep.Title)
	b.WriteString("\n")
	if ep.HasDate {
		b.WriteString("_Published on ")
		b.WriteString(ep.Date.Format("2006-01-02"))
		b.WriteString("_  \n")
	}
	b.WriteString(body)
	b.WriteString("\n\n\n")
	return b.String()
}

// AudioName builds the "[YYYYMMDD] Title.ext" filename used for downloaded
// episodes. ext may be given with or without the leading dot.
func AudioName(date time.Time, title, ext string) string {
	title = textutil.SanitizeFileName(title)
	if title == "" {
		title = "episode"
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return "[" + date.Format(tagLayout) + "] " + title + ext
}
