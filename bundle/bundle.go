// Package bundle defines the portable session document and its JSON codec.
// A bundle carries the seed event, the timeline, and only the completed
// articles; pending and failed work is never exported.
package bundle

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"counterfactual_press/timeline"
)

// Document is the exchanged bundle format. There is no version field; decode
// tolerates unknown fields and a missing seed summary, which is the whole
// compatibility policy.
type Document struct {
	SeedEvent   string                      `json:"seed_event"`
	SeedSummary string                      `json:"seed_summary,omitempty"`
	GeneratedAt time.Time                   `json:"generated_at"`
	Timeline    timeline.Timeline           `json:"timeline"`
	Articles    map[string]timeline.Article `json:"articles"`
}

// Encode builds a document from the session's current state. Only articles in
// the ready state are carried.
func Encode(seed, summary string, tl timeline.Timeline, ledger *timeline.Ledger, now time.Time) Document {
	articles := map[string]timeline.Article{}
	if ledger != nil {
		articles = ledger.Ready()
	}
	return Document{
		SeedEvent:   seed,
		SeedSummary: summary,
		GeneratedAt: now.UTC(),
		Timeline:    tl.Clone(),
		Articles:    articles,
	}
}

// Marshal renders a document as indented JSON suitable for a user-facing file.
func Marshal(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("bundle: marshal: %w", err)
	}
	return data, nil
}

// Decode parses and validates a bundle document. It is all-or-nothing: on any
// failure a descriptive error is returned and no partial document escapes.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("bundle: document is not valid JSON: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("bundle: %w", err)
	}
	return doc, nil
}

// Validate checks the document's structural integrity: required fields, entry
// id uniqueness, and that every article maps to a timeline entry.
func (d Document) Validate() error {
	if err := validation.ValidateStruct(&d,
		validation.Field(&d.SeedEvent, validation.Required),
		validation.Field(&d.Timeline, validation.Required),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&d.Timeline,
		validation.Field(&d.Timeline.Title, validation.Required),
		validation.Field(&d.Timeline.Entries, validation.Required),
	); err != nil {
		return fmt.Errorf("timeline: %w", err)
	}
	ids := make(map[string]struct{}, len(d.Timeline.Entries))
	for i, e := range d.Timeline.Entries {
		if e.ID == "" {
			return fmt.Errorf("timeline entry %d: missing id", i)
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("timeline entry %d: duplicate id %q", i, e.ID)
		}
		ids[e.ID] = struct{}{}
	}
	for id := range d.Articles {
		if _, ok := ids[id]; !ok {
			return fmt.Errorf("article %q does not match any timeline entry", id)
		}
	}
	return nil
}
