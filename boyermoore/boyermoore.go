// Package boyermoore implements single-pattern substring search using
// the Boyer-Moore bad-character rule, the scan strategy spec §4.3 and
// §4.4 name for literal candidates of length >= 5 (and that FixedString
// falls back to naive scanning for shorter candidates; see the
// literal/prefilter packages for strategy selection).
package boyermoore

// badCharTableSize covers every possible byte value.
const badCharTableSize = 256

// Matcher performs Boyer-Moore search for a single fixed pattern.
type Matcher struct {
	pattern    []byte
	badCharPos [badCharTableSize]int // rightmost index of byte b in pattern, or -1
}

// New precomputes the bad-character table for pattern. The returned
// Matcher can be reused across many Search/FindAll calls against
// different haystacks.
func New(pattern []byte) *Matcher {
	m := &Matcher{pattern: pattern}
	for i := range m.badCharPos {
		m.badCharPos[i] = -1
	}
	for i, b := range pattern {
		m.badCharPos[b] = i
	}
	return m
}

// Pattern returns the pattern this Matcher searches for.
func (m *Matcher) Pattern() []byte { return m.pattern }

// Search returns the position of the first occurrence of the pattern in
// text, or (-1, false) if there is none.
//
// An empty pattern matches at position 0; a pattern longer than text
// never matches (spec §4.3).
func (m *Matcher) Search(text []byte) (int, bool) {
	return m.searchFrom(text, 0)
}

// searchFrom is Search restricted to occurrences at or after start; it
// lets FindAll advance without re-scanning from the beginning of text.
func (m *Matcher) searchFrom(text []byte, start int) (int, bool) {
	n := len(m.pattern)
	if n == 0 {
		if start <= len(text) {
			return start, true
		}
		return -1, false
	}
	if n > len(text)-start {
		return -1, false
	}

	i := start
	for i <= len(text)-n {
		j := n - 1
		for j >= 0 && m.pattern[j] == text[i+j] {
			j--
		}
		if j < 0 {
			return i, true
		}
		shift := j - m.badCharPos[text[i+j]]
		if shift < 1 {
			shift = 1
		}
		i += shift
	}
	return -1, false
}

// FindAll returns the positions of every (possibly overlapping) match of
// the pattern in text, advancing by one byte after each hit so
// overlapping occurrences are all reported (spec §4.3).
func (m *Matcher) FindAll(text []byte) []int {
	var matches []int
	pos := 0
	for {
		i, ok := m.searchFrom(text, pos)
		if !ok {
			break
		}
		matches = append(matches, i)
		pos = i + 1
		if len(m.pattern) == 0 {
			if pos > len(text) {
				break
			}
		}
	}
	return matches
}
