package generator

import (
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"counterfactual_press/timeline"
)

// ParseTimeline decodes a model response into a Timeline. Any decoding or
// shape failure is a SchemaError.
func ParseTimeline(raw string) (timeline.Timeline, error) {
	var tl timeline.Timeline
	if err := json.Unmarshal([]byte(extractJSON(raw)), &tl); err != nil {
		return timeline.Timeline{}, schemaErrorf("timeline response is not valid JSON: %v", err)
	}
	if err := validation.ValidateStruct(&tl,
		validation.Field(&tl.Title, validation.Required),
		validation.Field(&tl.Entries, validation.Required),
	); err != nil {
		return timeline.Timeline{}, schemaErrorf("timeline response: %v", err)
	}
	for i := range tl.Entries {
		if err := validateEntry(&tl.Entries[i]); err != nil {
			return timeline.Timeline{}, schemaErrorf("timeline entry %d: %v", i, err)
		}
	}
	return tl, nil
}

// ParseArticle decodes a model response into an Article.
func ParseArticle(raw string) (timeline.Article, error) {
	var art timeline.Article
	if err := json.Unmarshal([]byte(extractJSON(raw)), &art); err != nil {
		return timeline.Article{}, schemaErrorf("article response is not valid JSON: %v", err)
	}
	if err := validation.ValidateStruct(&art,
		validation.Field(&art.Headline, validation.Required),
		validation.Field(&art.Lede, validation.Required),
		validation.Field(&art.Body, validation.Required),
	); err != nil {
		return timeline.Article{}, schemaErrorf("article response: %v", err)
	}
	return art, nil
}

// ParseInterpolation decodes a model response into bridging entries. Both the
// documented wrapper object and a bare array are accepted; an empty entry list
// is valid and means the model proposed nothing.
func ParseInterpolation(raw string) ([]timeline.Entry, error) {
	text := extractJSON(raw)
	var wrapper struct {
		Entries []timeline.Entry `json:"entries"`
	}
	entries := wrapper.Entries
	if err := json.Unmarshal([]byte(text), &wrapper); err != nil {
		if arrErr := json.Unmarshal([]byte(text), &entries); arrErr != nil {
			return nil, schemaErrorf("interpolation response is not valid JSON: %v", err)
		}
	} else {
		entries = wrapper.Entries
	}
	for i := range entries {
		if err := validateEntry(&entries[i]); err != nil {
			return nil, schemaErrorf("interpolation entry %d: %v", i, err)
		}
	}
	return entries, nil
}

func validateEntry(e *timeline.Entry) error {
	return validation.ValidateStruct(e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Title, validation.Required),
		validation.Field(&e.Summary, validation.Required),
	)
}

// extractJSON tolerates the usual model framing around a JSON payload: code
// fences and leading/trailing prose.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			text = text[idx+1:]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return text
	}
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	var end int
	if text[start] == '{' {
		end = strings.LastIndexByte(text, '}')
	} else {
		end = strings.LastIndexByte(text, ']')
	}
	if end <= start {
		return text
	}
	return text[start : end+1]
}
