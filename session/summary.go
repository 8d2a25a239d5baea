package session

import (
	"strings"

	"counterfactual_press/timeline"
)

const (
	summarySeparator = " • "
	seedPlaceholder  = "untitled divergence"
)

// DeriveSeedSummary composes the display summary for a session from the raw
// seed text and its generated timeline. The result is deterministic so bundle
// round-trips reproduce it exactly: normalized seed (or a placeholder when
// empty), timeline title, and the first entry's date or era label, joined and
// uppercased.
func DeriveSeedSummary(seed string, tl timeline.Timeline) string {
	normalized := strings.Join(strings.Fields(seed), " ")
	if normalized == "" {
		normalized = seedPlaceholder
	}
	parts := []string{normalized}
	if title := strings.TrimSpace(tl.Title); title != "" {
		parts = append(parts, title)
	}
	if len(tl.Entries) > 0 {
		first := tl.Entries[0]
		when := first.Date
		if when == "" {
			when = first.Era
		}
		if when != "" {
			parts = append(parts, when)
		}
	}
	return strings.ToUpper(strings.Join(parts, summarySeparator))
}
