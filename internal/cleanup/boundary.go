package cleanup

import "unicode"

// Match locates a boundary phrase inside a transcript.
type Match struct {
	Phrase string
	// Offset is the character offset of the phrase's first character.
	Offset int
	// Length is the phrase length in characters.
	Length int
}

// BoundaryFinder decides where the head ends and where the tail begins.
// Implementations return ok=false when no boundary applies.
type BoundaryFinder interface {
	FindHead(text []rune, phrases []string) (Match, bool)
	FindTail(text []rune, phrases []string) (Match, bool)
}

// PositionWindow accepts a head phrase only when it starts before HeadLimit and
// a tail phrase only when it starts after TailFloor. Only the first occurrence
// of each phrase is considered.
type PositionWindow struct {
	HeadLimit int
	TailFloor int
}

// FindHead returns the first phrase in list order whose first occurrence
// starts at an offset < HeadLimit.
func (w PositionWindow) FindHead(text []rune, phrases []string) (Match, bool) {
	upper := upperRunes(text)
	for _, phrase := range phrases {
		needle := upperRunes([]rune(phrase))
		pos := indexRunes(upper, needle)
		if pos != -1 && pos < w.HeadLimit {
			return Match{Phrase: phrase, Offset: pos, Length: len(needle)}, true
		}
	}
	return Match{}, false
}

// FindTail returns the first phrase in list order whose first occurrence
// starts at an offset > TailFloor.
func (w PositionWindow) FindTail(text []rune, phrases []string) (Match, bool) {
	upper := upperRunes(text)
	for _, phrase := range phrases {
		needle := upperRunes([]rune(phrase))
		pos := indexRunes(upper, needle)
		if pos != -1 && pos > w.TailFloor {
			return Match{Phrase: phrase, Offset: pos, Length: len(needle)}, true
		}
	}
	return Match{}, false
}

// upperRunes applies the simple one-to-one upper-case mapping, so the result
// has the same length as the input and offsets carry over unchanged.
func upperRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToUpper(r)
	}
	return out
}

// indexRunes returns the index of the first instance of needle in haystack,
// or -1 if needle is not present. An empty needle never matches.
func indexRunes(haystack, needle []rune) int {
	n := len(needle)
	if n == 0 || n > len(haystack) {
		return -1
	}
outer:
	for i := 0; i <= len(haystack)-n; i++ {
		if haystack[i] != needle[0] {
			continue
		}
		for j := 1; j < n; j++ {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
