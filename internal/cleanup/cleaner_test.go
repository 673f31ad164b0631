package cleanup

import (
	"bytes"
	"strings"
	"testing"

	"podscribe/internal/logging"
)

const (
	headPhrase = "Il tuo podcast di finanza personale"
	tailPhrase = "vi invito a mettere segui"
)

func filler(n int) string {
	return strings.Repeat("x", n)
}

func newTestCleaner(t *testing.T, heads, tails []string) (*Cleaner, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })
	return New(Options{
		Heads:     heads,
		Tails:     tails,
		HeadSkip:  DefaultHeadSkip,
		HeadLimit: 2000,
		TailFloor: 15500,
		Logger:    logger.Logger,
	}), &buf
}

func TestCleanWithoutMatchesIsIdentity(t *testing.T) {
	c, logs := newTestCleaner(t, []string{headPhrase}, []string{tailPhrase})
	inputs := []string{
		"",
		"nothing to see here",
		filler(20000),
		"Il tuo podcast di finanza " + filler(100),
	}
	for _, in := range inputs {
		res := c.Clean(in, "episode.txt")
		if res.Text != in {
			t.Fatalf("expected identity for %q, got %q", truncate(in), truncate(res.Text))
		}
		if res.Head != nil || res.Tail != nil {
			t.Fatalf("expected no matches, got head=%v tail=%v", res.Head, res.Tail)
		}
	}
	if !strings.Contains(logs.String(), "head: nothing to clean up") || !strings.Contains(logs.String(), "tail: nothing to clean up") {
		t.Fatalf("expected informational log lines, got %q", logs.String())
	}
}

func TestStripHeadInsideWindow(t *testing.T) {
	c, _ := newTestCleaner(t, []string{headPhrase}, nil)
	text := filler(50) + headPhrase + "! Benvenuti a tutti."

	got, match := c.StripHead(text, "episode.txt")
	if got != "Benvenuti a tutti." {
		t.Fatalf("unexpected stripped text %q", got)
	}
	if match == nil || match.Offset != 50 || match.Phrase != headPhrase {
		t.Fatalf("unexpected match %+v", match)
	}
}

func TestStripHeadWindowBoundary(t *testing.T) {
	c, _ := newTestCleaner(t, []string{headPhrase}, nil)

	atLimit := filler(2000) + headPhrase + "! body"
	if got, match := c.StripHead(atLimit, "a.txt"); got != atLimit || match != nil {
		t.Fatalf("match at offset 2000 must be ignored, got match=%v", match)
	}

	beforeLimit := filler(1999) + headPhrase + "! body"
	if got, match := c.StripHead(beforeLimit, "b.txt"); got != "body" || match == nil {
		t.Fatalf("match at offset 1999 must strip, got %q", truncate(got))
	}
}

func TestStripTailWindowBoundary(t *testing.T) {
	c, _ := newTestCleaner(t, nil, []string{tailPhrase})

	body := filler(16000)
	text := body + tailPhrase + " e attivare le notifiche. Ciao!"
	got, match := c.StripTail(text, "a.txt")
	if got != body {
		t.Fatalf("expected truncation at offset 16000, got length %d", len([]rune(got)))
	}
	if match == nil || match.Offset != 16000 {
		t.Fatalf("unexpected match %+v", match)
	}

	atFloor := filler(15500) + tailPhrase + " fine"
	if got, match := c.StripTail(atFloor, "b.txt"); got != atFloor || match != nil {
		t.Fatalf("match at offset 15500 must be ignored, got match=%v", match)
	}

	pastFloor := filler(15501) + tailPhrase + " fine"
	if got, _ := c.StripTail(pastFloor, "c.txt"); got != filler(15501) {
		t.Fatalf("match at offset 15501 must truncate, got length %d", len([]rune(got)))
	}
}

func TestTailConversationalMentionIgnored(t *testing.T) {
	c, _ := newTestCleaner(t, nil, []string{tailPhrase})
	text := filler(300) + tailPhrase + filler(17000)
	if got, match := c.StripTail(text, "a.txt"); got != text || match != nil {
		t.Fatal("a mid-episode mention before the floor must not truncate")
	}
}

func TestListOrderWinsOverTextOrder(t *testing.T) {
	first := "Domanda da un miliardo di dollari"
	second := headPhrase
	c, _ := newTestCleaner(t, []string{first, second}, nil)

	// second occurs earlier in the text, but first is earlier in the list.
	text := filler(10) + second + ". " + filler(100) + first + "? rest"
	got, match := c.StripHead(text, "a.txt")
	if match == nil || match.Phrase != first {
		t.Fatalf("expected list-priority phrase %q, got %+v", first, match)
	}
	if got != "rest" {
		t.Fatalf("unexpected remainder %q", got)
	}
}

func TestTailListOrderWinsOverTextOrder(t *testing.T) {
	first := "lasciate una recensione a 5 stelle"
	second := tailPhrase
	c, _ := newTestCleaner(t, nil, []string{first, second})

	prefix := filler(16000)
	text := prefix + second + " e " + first + " grazie"
	got, match := c.StripTail(text, "a.txt")
	if match == nil || match.Phrase != first {
		t.Fatalf("expected list-priority phrase %q, got %+v", first, match)
	}
	if want := prefix + second + " e "; got != want {
		t.Fatalf("unexpected truncation length %d", len([]rune(got)))
	}
}

func TestLaterPhraseInWindowAppliesWhenEarlierIsOutOfWindow(t *testing.T) {
	outOfWindow := "Domanda da un miliardo di dollari"
	c, logs := newTestCleaner(t, []string{outOfWindow, headPhrase}, nil)

	text := filler(10) + headPhrase + "! corpo" + filler(3000) + outOfWindow
	got, match := c.StripHead(text, "a.txt")
	if match == nil || match.Phrase != headPhrase {
		t.Fatalf("expected in-window fallback phrase, got %+v", match)
	}
	if !strings.HasPrefix(got, "corpo") {
		t.Fatalf("unexpected remainder %q", truncate(got))
	}
	if strings.Contains(logs.String(), "nothing to clean up") {
		t.Fatalf("must not report nothing stripped when a cut was applied: %q", logs.String())
	}
}

// The "nothing to clean up" report is keyed on whether a cut was applied,
// not on the position where the cut ends. A head found just under the limit
// whose cut extends past it is reported as stripped.
func TestStripHeadNearLimitReportsStripped(t *testing.T) {
	c, logs := newTestCleaner(t, []string{headPhrase}, nil)
	text := filler(1990) + headPhrase + ". dopo"

	got, match := c.StripHead(text, "a.txt")
	if match == nil || got != "dopo" {
		t.Fatalf("expected strip, got %q match=%v", got, match)
	}
	if strings.Contains(logs.String(), "nothing to clean up") {
		t.Fatalf("unexpected nothing-stripped report: %q", logs.String())
	}
}

func TestMatchingIsCaseInsensitiveWithCharacterOffsets(t *testing.T) {
	tail := "Per questo episodio invece è davvero tutto"
	c, _ := newTestCleaner(t, []string{headPhrase}, []string{tail})

	// Multi-byte characters before the phrases: offsets are characters, not bytes.
	lead := strings.Repeat("è", 40)
	text := lead + strings.ToUpper(headPhrase) + "! " + strings.Repeat("à", 16000) + "PER QUESTO EPISODIO INVECE È DAVVERO TUTTO. Ciao"

	res := c.Clean(text, "a.txt")
	if res.Head == nil || res.Head.Offset != 40 {
		t.Fatalf("unexpected head match %+v", res.Head)
	}
	if res.Tail == nil || res.Tail.Offset != 16000 {
		t.Fatalf("unexpected tail match %+v", res.Tail)
	}
	if res.Text != strings.Repeat("à", 16000) {
		t.Fatalf("unexpected cleaned text length %d", len([]rune(res.Text)))
	}
}

func TestTailOffsetsMeasuredAfterHeadStrip(t *testing.T) {
	c, _ := newTestCleaner(t, []string{headPhrase}, []string{tailPhrase})

	// The tail sits at 15600 in the raw text but at 15533 after the head
	// strip, which is still past the floor.
	raw := filler(30) + headPhrase + "! " + filler(15600-30-len(headPhrase)-2) + tailPhrase
	res := c.Clean(raw, "a.txt")
	if res.Head == nil || res.Tail == nil {
		t.Fatalf("expected both boundaries, got head=%v tail=%v", res.Head, res.Tail)
	}
	if want := 15600 - 30 - len(headPhrase) - 2; res.Tail.Offset != want {
		t.Fatalf("tail offset = %d, want %d", res.Tail.Offset, want)
	}

	// Here the tail is past the floor in the raw text but not after stripping.
	raw = filler(30) + headPhrase + "! " + filler(15520-30-len(headPhrase)-2) + tailPhrase
	res = c.Clean(raw, "b.txt")
	if res.Tail != nil {
		t.Fatalf("expected tail ignored after head strip, got %+v", res.Tail)
	}
}

func TestHeadSkipClampsAtEndOfText(t *testing.T) {
	c, _ := newTestCleaner(t, []string{headPhrase}, nil)
	got, match := c.StripHead(headPhrase, "a.txt")
	if match == nil || got != "" {
		t.Fatalf("expected empty remainder, got %q", got)
	}
}

type fixedFinder struct {
	head, tail int
}

func (f fixedFinder) FindHead(text []rune, _ []string) (Match, bool) {
	return Match{Phrase: "fixed", Offset: 0, Length: f.head}, f.head > 0
}

func (f fixedFinder) FindTail(text []rune, _ []string) (Match, bool) {
	return Match{Phrase: "fixed", Offset: f.tail}, f.tail > 0 && f.tail <= len(text)
}

func TestCustomBoundaryFinder(t *testing.T) {
	c := New(Options{Finder: fixedFinder{head: 4, tail: 5}})
	res := c.Clean("headbody tail", "a.txt")
	if res.Text != "body " {
		t.Fatalf("unexpected text %q", res.Text)
	}
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
