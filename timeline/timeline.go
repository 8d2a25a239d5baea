// Package timeline holds the counterfactual timeline data model: the ordered
// entry sequence, per-entry article states, and the guiding-principle display
// filter.
package timeline

// Entry is one node in the counterfactual timeline sequence. Entries are never
// mutated in place; a regeneration or import replaces the whole sequence.
type Entry struct {
	ID      string   `json:"id"`
	Era     string   `json:"era"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tone    string   `json:"tone,omitempty"`
	Date    string   `json:"date,omitempty"`
	Threads []string `json:"threads,omitempty"`
}

// Timeline is a titled, ordered sequence of entries plus the free-text guiding
// principle the model generated alongside it. Order is chronological/causal,
// not insertion time.
type Timeline struct {
	Title     string  `json:"title"`
	Principle string  `json:"principle"`
	Entries   []Entry `json:"entries"`
}

// Clone returns a deep copy of the timeline.
func (t Timeline) Clone() Timeline {
	out := t
	out.Entries = make([]Entry, len(t.Entries))
	copy(out.Entries, t.Entries)
	for i, e := range t.Entries {
		if len(e.Threads) > 0 {
			out.Entries[i].Threads = append([]string(nil), e.Threads...)
		}
	}
	return out
}

// Store owns the current timeline sequence. It is not safe for concurrent use;
// the session controller serializes access.
type Store struct {
	tl *Timeline
}

// NewStore returns an empty store with no timeline installed.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new timeline wholesale, discarding the previous sequence.
// Derived state (article ledger, interpolation status) is owned by the caller
// and must be cleared alongside, since entry ids from a new generation are not
// compatible with previous ones.
func (s *Store) Replace(tl Timeline) {
	cp := tl.Clone()
	s.tl = &cp
}

// Clear removes the installed timeline.
func (s *Store) Clear() {
	s.tl = nil
}

// Timeline returns a copy of the current timeline and whether one is installed.
func (s *Store) Timeline() (Timeline, bool) {
	if s.tl == nil {
		return Timeline{}, false
	}
	return s.tl.Clone(), true
}

// Len returns the number of entries in the current sequence.
func (s *Store) Len() int {
	if s.tl == nil {
		return 0
	}
	return len(s.tl.Entries)
}

// IndexOf returns the current position of the entry with the given id, or -1.
func (s *Store) IndexOf(id string) int {
	if s.tl == nil {
		return -1
	}
	for i, e := range s.tl.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Entry returns a copy of the entry at idx.
func (s *Store) Entry(idx int) (Entry, bool) {
	if s.tl == nil || idx < 0 || idx >= len(s.tl.Entries) {
		return Entry{}, false
	}
	return s.tl.Entries[idx], true
}

// Neighbors returns copies of the entries immediately before and after idx.
// Either may be nil at the sequence boundaries.
func (s *Store) Neighbors(idx int) (prev, next *Entry) {
	if s.tl == nil {
		return nil, nil
	}
	if idx > 0 && idx <= len(s.tl.Entries)-1 {
		p := s.tl.Entries[idx-1]
		prev = &p
	}
	if idx >= 0 && idx < len(s.tl.Entries)-1 {
		n := s.tl.Entries[idx+1]
		next = &n
	}
	return prev, next
}

// Insert places candidates immediately after the entry at `after`, or at the
// end of the sequence when `after` is negative or out of range. A candidate
// whose id already exists anywhere in the sequence is skipped; the check runs
// per candidate, in order, against the sequence as it grows, so a later
// candidate colliding with an earlier accepted candidate is also skipped.
// Candidate order determines position; no sorting is applied. Returns the
// number of entries inserted.
func (s *Store) Insert(candidates []Entry, after int) int {
	if s.tl == nil || len(candidates) == 0 {
		return 0
	}
	entries := s.tl.Entries
	pos := len(entries)
	if after >= 0 && after < len(entries) {
		pos = after + 1
	}
	seen := make(map[string]struct{}, len(entries)+len(candidates))
	for _, e := range entries {
		seen[e.ID] = struct{}{}
	}
	inserted := 0
	for _, cand := range candidates {
		if _, dup := seen[cand.ID]; dup {
			continue
		}
		entries = append(entries, Entry{})
		copy(entries[pos+1:], entries[pos:])
		entries[pos] = cand
		seen[cand.ID] = struct{}{}
		pos++
		inserted++
	}
	s.tl.Entries = entries
	return inserted
}
