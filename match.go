package rexvm

// Match is the byte range of a single match within a search's input.
type Match struct {
	Start int
	End   int
}

// Bytes returns the matched slice of b.
func (m Match) Bytes(b []byte) []byte { return b[m.Start:m.End] }

// Captures holds the slot values produced by one Execute call: two
// slots (start, end) per capture group, group 0 being the whole match.
// An unset slot (no Save instruction reached it) holds -1.
type Captures struct {
	slots []int
}

// NumGroups returns the number of capture groups, including group 0.
func (c *Captures) NumGroups() int { return len(c.slots) / 2 }

// Group returns the start/end offsets of group i, or ok=false if the
// group didn't participate in the match.
func (c *Captures) Group(i int) (start, end int, ok bool) {
	lo, hi := 2*i, 2*i+1
	if lo < 0 || hi >= len(c.slots) {
		return 0, 0, false
	}
	if c.slots[lo] < 0 || c.slots[hi] < 0 {
		return 0, 0, false
	}
	return c.slots[lo], c.slots[hi], true
}

// GroupBytes returns the matched slice of b for group i, or nil if the
// group didn't participate in the match.
func (c *Captures) GroupBytes(i int, b []byte) []byte {
	start, end, ok := c.Group(i)
	if !ok {
		return nil
	}
	return b[start:end]
}
