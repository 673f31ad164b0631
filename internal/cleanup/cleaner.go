package cleanup

import (
	"log/slog"

	"podscribe/internal/logging"
)

// DefaultHeadSkip drops the punctuation mark and space that usually follow
// the opening phrase.
const DefaultHeadSkip = 2

// Options configures a Cleaner.
type Options struct {
	Heads []string
	Tails []string
	// HeadSkip is the number of characters removed after a head phrase.
	HeadSkip int
	// Finder locates boundaries; nil uses PositionWindow with the limits below.
	Finder    BoundaryFinder
	HeadLimit int
	TailFloor int
	Logger    *slog.Logger
}

// Cleaner strips head and tail boilerplate from transcripts.
type Cleaner struct {
	heads    []string
	tails    []string
	headSkip int
	finder   BoundaryFinder
	logger   *slog.Logger
}

// Result reports the cleaned text and which boundaries were applied.
type Result struct {
	Text string
	Head *Match
	Tail *Match
}

// New constructs a Cleaner. Phrase lists are copied.
func New(opts Options) *Cleaner {
	finder := opts.Finder
	if finder == nil {
		finder = PositionWindow{HeadLimit: opts.HeadLimit, TailFloor: opts.TailFloor}
	}
	skip := opts.HeadSkip
	if skip < 0 {
		skip = 0
	}
	return &Cleaner{
		heads:    append([]string(nil), opts.Heads...),
		tails:    append([]string(nil), opts.Tails...),
		headSkip: skip,
		finder:   finder,
		logger:   logging.NewComponentLogger(opts.Logger, "cleanup"),
	}
}

// StripHead removes everything up to and including the winning head phrase
// plus HeadSkip characters. The text is returned unchanged when no phrase
// matches inside the head window.
func (c *Cleaner) StripHead(text, name string) (string, *Match) {
	runes := []rune(text)
	match, ok := c.finder.FindHead(runes, c.heads)
	if !ok {
		c.logger.Info("head: nothing to clean up",
			logging.String(logging.FieldFile, name),
			logging.String(logging.FieldEventType, "head_not_found"),
		)
		return text, nil
	}
	cut := min(match.Offset+match.Length+c.headSkip, len(runes))
	c.logger.Debug("head stripped",
		logging.String(logging.FieldFile, name),
		logging.String("phrase", match.Phrase),
		logging.Int("offset", match.Offset),
		logging.Int("removed_chars", cut),
	)
	return string(runes[cut:]), &match
}

// StripTail truncates the text at the winning tail phrase. The text is
// returned unchanged when no phrase matches inside the tail window.
func (c *Cleaner) StripTail(text, name string) (string, *Match) {
	runes := []rune(text)
	match, ok := c.finder.FindTail(runes, c.tails)
	if !ok {
		c.logger.Info("tail: nothing to clean up",
			logging.String(logging.FieldFile, name),
			logging.String(logging.FieldEventType, "tail_not_found"),
		)
		return text, nil
	}
	c.logger.Debug("tail stripped",
		logging.String(logging.FieldFile, name),
		logging.String("phrase", match.Phrase),
		logging.Int("offset", match.Offset),
		logging.Int("removed_chars", len(runes)-match.Offset),
	)
	return string(runes[:match.Offset]), &match
}

// Clean strips the head and then the tail. Tail offsets are measured on the
// head-stripped text.
func (c *Cleaner) Clean(text, name string) Result {
	text, head := c.StripHead(text, name)
	text, tail := c.StripTail(text, name)
	return Result{Text: text, Head: head, Tail: tail}
}
