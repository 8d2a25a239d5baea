package timeline

import (
	"reflect"
	"testing"
)

func entry(id string) Entry {
	return Entry{ID: id, Era: "era-" + id, Title: "Title " + id, Summary: "Summary " + id}
}

func seededStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	s := NewStore()
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, entry(id))
	}
	s.Replace(Timeline{Title: "Test", Entries: entries})
	return s
}

func ids(t *testing.T, s *Store) []string {
	t.Helper()
	tl, ok := s.Timeline()
	if !ok {
		t.Fatal("no timeline installed")
	}
	out := make([]string, 0, len(tl.Entries))
	for _, e := range tl.Entries {
		out = append(out, e.ID)
	}
	return out
}

func TestInsertAfterAnchor(t *testing.T) {
	s := seededStore(t, "A", "B", "C")
	n := s.Insert([]Entry{entry("X"), entry("Y")}, 1)
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}
	got := ids(t, s)
	want := []string{"A", "B", "X", "Y", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestInsertSkipsCollidingCandidate(t *testing.T) {
	s := seededStore(t, "A", "B", "C")
	n := s.Insert([]Entry{entry("X"), entry("B")}, 1)
	if n != 1 {
		t.Errorf("inserted = %d, want 1", n)
	}
	got := ids(t, s)
	want := []string{"A", "B", "X", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestInsertSkipsDuplicateWithinCandidates(t *testing.T) {
	s := seededStore(t, "A", "B")
	first := entry("X")
	second := entry("X")
	second.Title = "Different title, same id"
	n := s.Insert([]Entry{first, second, entry("Y")}, 0)
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}
	got := ids(t, s)
	want := []string{"A", "X", "Y", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if e, _ := s.Entry(1); e.Title != first.Title {
		t.Errorf("kept candidate title = %q, want the first candidate's", e.Title)
	}
}

func TestInsertZeroCandidatesNoop(t *testing.T) {
	s := seededStore(t, "A", "B", "C")
	before, _ := s.Timeline()
	if n := s.Insert(nil, 1); n != 0 {
		t.Errorf("inserted = %d, want 0", n)
	}
	after, _ := s.Timeline()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("timeline changed: %v -> %v", before, after)
	}
}

func TestInsertWithoutAnchorAppends(t *testing.T) {
	s := seededStore(t, "A", "B")
	s.Insert([]Entry{entry("X")}, -1)
	got := ids(t, s)
	want := []string{"A", "B", "X"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestInsertNeverDuplicatesIDs(t *testing.T) {
	s := seededStore(t, "A", "B", "C")
	s.Insert([]Entry{entry("X"), entry("A")}, 0)
	s.Insert([]Entry{entry("X"), entry("Y")}, 3)
	s.Insert([]Entry{entry("Y"), entry("C")}, -1)

	seen := map[string]bool{}
	for _, id := range ids(t, s) {
		if seen[id] {
			t.Fatalf("duplicate id %q in sequence", id)
		}
		seen[id] = true
	}
}

func TestInsertPreservesRelativeOrderOfExisting(t *testing.T) {
	s := seededStore(t, "A", "B", "C", "D")
	s.Insert([]Entry{entry("X")}, 1)
	s.Insert([]Entry{entry("Y")}, 0)

	got := ids(t, s)
	positions := map[string]int{}
	for i, id := range got {
		positions[id] = i
	}
	for _, pair := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}} {
		if positions[pair[0]] >= positions[pair[1]] {
			t.Errorf("existing entries reordered: %s at %d, %s at %d",
				pair[0], positions[pair[0]], pair[1], positions[pair[1]])
		}
	}
}

func TestReplaceInstallsWholesale(t *testing.T) {
	s := seededStore(t, "A", "B")
	s.Replace(Timeline{Title: "New", Entries: []Entry{entry("Z")}})
	got := ids(t, s)
	if !reflect.DeepEqual(got, []string{"Z"}) {
		t.Errorf("entries = %v, want [Z]", got)
	}
	tl, _ := s.Timeline()
	if tl.Title != "New" {
		t.Errorf("title = %q, want New", tl.Title)
	}
}

func TestReplaceCopiesInput(t *testing.T) {
	in := Timeline{Title: "T", Entries: []Entry{entry("A")}}
	s := NewStore()
	s.Replace(in)
	in.Entries[0].Title = "mutated"
	e, _ := s.Entry(0)
	if e.Title == "mutated" {
		t.Error("store aliased the caller's entry slice")
	}
}

func TestIndexOf(t *testing.T) {
	s := seededStore(t, "A", "B", "C")
	if got := s.IndexOf("B"); got != 1 {
		t.Errorf("IndexOf(B) = %d, want 1", got)
	}
	if got := s.IndexOf("missing"); got != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", got)
	}
}

func TestNeighbors(t *testing.T) {
	s := seededStore(t, "A", "B", "C")

	prev, next := s.Neighbors(1)
	if prev == nil || prev.ID != "A" {
		t.Errorf("prev = %v, want A", prev)
	}
	if next == nil || next.ID != "C" {
		t.Errorf("next = %v, want C", next)
	}

	prev, next = s.Neighbors(0)
	if prev != nil {
		t.Errorf("prev at start = %v, want nil", prev)
	}
	if next == nil || next.ID != "B" {
		t.Errorf("next at start = %v, want B", next)
	}

	prev, next = s.Neighbors(2)
	if prev == nil || prev.ID != "B" {
		t.Errorf("prev at end = %v, want B", prev)
	}
	if next != nil {
		t.Errorf("next at end = %v, want nil", next)
	}
}

func TestEmptyStore(t *testing.T) {
	s := NewStore()
	if _, ok := s.Timeline(); ok {
		t.Error("empty store reports a timeline")
	}
	if n := s.Insert([]Entry{entry("A")}, -1); n != 0 {
		t.Errorf("insert into empty store = %d, want 0", n)
	}
	if got := s.IndexOf("A"); got != -1 {
		t.Errorf("IndexOf on empty store = %d, want -1", got)
	}
}
