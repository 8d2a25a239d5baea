package generator

import (
	"fmt"
	"strings"

	"counterfactual_press/timeline"
)

// Prompt is the message pair sent to the model.
type Prompt struct {
	System string
	User   string
}

// BuildTimelinePrompt asks for a full alternate-history timeline seeded from
// one divergence event.
func BuildTimelinePrompt(seed string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are the editor of a newspaper archive from an alternate history.\n")
	sb.WriteString("Given a point of divergence, construct a plausible timeline of 6 to 10 major events that follow from it.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Events must follow causally from the divergence and from each other.\n")
	sb.WriteString("- Give each event a short unique id (lowercase, hyphenated), an era label, a headline-style title, and a two-sentence summary.\n")
	sb.WriteString("- Where a concrete date fits, include it as an ISO date string.\n")
	sb.WriteString("- Optionally tag each event with recurring thread labels (politics, science, culture).\n")
	sb.WriteString("- Also write the timeline's guiding principle: a single sentence stating the deep logic of this world.\n")
	sb.WriteString("Respond only with JSON matching:\n")
	sb.WriteString(`{"title": string, "principle": string, "entries": [{"id": string, "era": string, "title": string, "summary": string, "tone": string, "date": string, "threads": [string]}]}`)
	sb.WriteString("\nNo markdown, no commentary.")

	user := fmt.Sprintf("Point of divergence: %s", seed)
	return Prompt{System: sb.String(), User: user}
}

// BuildArticlePrompt asks for a full newspaper article covering one entry.
func BuildArticlePrompt(seed string, entry timeline.Entry, tl timeline.Timeline) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a correspondent inside an alternate history. Write a period newspaper article about one event.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Write from inside the world; never acknowledge our timeline.\n")
	sb.WriteString("- The dateline names a plausible city and the event's date.\n")
	sb.WriteString("- The lede is one tight paragraph; the body is 3 to 5 paragraphs (markdown allowed inside paragraphs).\n")
	sb.WriteString("- Optionally add a sidebar (titled list of related facts) and a pull quote.\n")
	if entry.Tone != "" {
		sb.WriteString(fmt.Sprintf("- Tone: %s.\n", entry.Tone))
	}
	sb.WriteString("Respond only with JSON matching:\n")
	sb.WriteString(`{"headline": string, "dateline": string, "lede": string, "body": [string], "sidebar": {"title": string, "items": [string]}, "pull_quote": string}`)
	sb.WriteString("\nNo markdown fences, no commentary.")

	var user strings.Builder
	fmt.Fprintf(&user, "Divergence: %s\nTimeline: %s\n", seed, tl.Title)
	fmt.Fprintf(&user, "Event: %s (%s)\nSummary: %s\n", entry.Title, entry.Era, entry.Summary)
	if entry.Date != "" {
		fmt.Fprintf(&user, "Date: %s\n", entry.Date)
	}
	user.WriteString("Context events:\n")
	for _, e := range contextWindow(tl.Entries, entry.ID, 3) {
		fmt.Fprintf(&user, "- [%s] %s: %s\n", e.Era, e.Title, e.Summary)
	}
	return Prompt{System: sb.String(), User: user.String()}
}

// BuildInterpolationPrompt asks for 2-3 bridging events between an anchor and
// its neighbors.
func BuildInterpolationPrompt(seed string, req InterpolationRequest) Prompt {
	var sb strings.Builder
	sb.WriteString("You are the editor of a newspaper archive from an alternate history.\n")
	sb.WriteString("Propose 2 to 3 smaller bridging events that happen immediately after the anchor event and lead toward the next one.\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Bridging events must be consistent with every existing event.\n")
	sb.WriteString("- Use new unique ids not present in the existing timeline.\n")
	sb.WriteString("- Keep the same field conventions as the existing entries.\n")
	sb.WriteString("Respond only with JSON matching:\n")
	sb.WriteString(`{"entries": [{"id": string, "era": string, "title": string, "summary": string, "tone": string, "date": string, "threads": [string]}]}`)
	sb.WriteString("\nNo markdown, no commentary.")

	var user strings.Builder
	fmt.Fprintf(&user, "Divergence: %s\nTimeline: %s\n", seed, req.Timeline.Title)
	if req.Previous != nil {
		fmt.Fprintf(&user, "Previous event: %s — %s\n", req.Previous.Title, req.Previous.Summary)
	}
	fmt.Fprintf(&user, "Anchor event: %s — %s\n", req.Anchor.Title, req.Anchor.Summary)
	if req.Next != nil {
		fmt.Fprintf(&user, "Next event: %s — %s\n", req.Next.Title, req.Next.Summary)
	}
	user.WriteString("Existing ids: ")
	ids := make([]string, 0, len(req.Timeline.Entries))
	for _, e := range req.Timeline.Entries {
		ids = append(ids, e.ID)
	}
	user.WriteString(strings.Join(ids, ", "))
	return Prompt{System: sb.String(), User: user.String()}
}

// contextWindow returns up to 2*radius+1 entries centered on the entry with
// the given id, preserving order.
func contextWindow(entries []timeline.Entry, id string, radius int) []timeline.Entry {
	center := -1
	for i, e := range entries {
		if e.ID == id {
			center = i
			break
		}
	}
	if center < 0 {
		return entries
	}
	lo := center - radius
	if lo < 0 {
		lo = 0
	}
	hi := center + radius + 1
	if hi > len(entries) {
		hi = len(entries)
	}
	return entries[lo:hi]
}
