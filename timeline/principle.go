package timeline

import "strings"

// Fragments of the generation prompt's own directive language. Models
// occasionally echo these back inside the guiding principle; any segment
// containing one is dropped from the display string.
var principleDenylist = []string{
	"guiding principle",
	"single sentence",
	"one sentence",
	"alternate history timeline",
	"the timeline above",
	"as requested",
	"here is",
	"here's",
	"respond only",
	"output only",
	"json",
	"you are",
}

const minPrincipleSegment = 9

// DisplayPrinciple derives the display form of the raw guiding-principle text.
// The raw text is split into sentence/line segments; segments matching the
// denylist or shorter than 9 characters are discarded. If the joined result
// still contains a denylisted phrase, the whole string is discarded. Returns
// "" when nothing survives; callers fall back to the first entry's summary,
// then to no guiding text at all.
func DisplayPrinciple(raw string) string {
	segments := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case '.', '!', '?', '\n':
			return true
		}
		return false
	})
	var kept []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if len(seg) < minPrincipleSegment {
			continue
		}
		if containsDenylisted(seg) {
			continue
		}
		kept = append(kept, seg)
	}
	out := strings.Join(kept, ". ")
	if out == "" {
		return ""
	}
	if containsDenylisted(out) {
		return ""
	}
	return out
}

func containsDenylisted(s string) bool {
	lower := strings.ToLower(s)
	for _, phrase := range principleDenylist {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
