package server

import (
	"counterfactual_press/session"
	"counterfactual_press/timeline"
)

type sessionResp struct {
	SeedEvent       string                           `json:"seed_event"`
	SeedSummary     string                           `json:"seed_summary,omitempty"`
	GuidingText     string                           `json:"guiding_text,omitempty"`
	Timeline        *timeline.Timeline               `json:"timeline,omitempty"`
	Articles        map[string]timeline.ArticleState `json:"articles"`
	Interpolations  map[string]session.InterpStatus  `json:"interpolations"`
	ActiveEntry     string                           `json:"active_entry,omitempty"`
	Error           string                           `json:"error,omitempty"`
	TimelinePending bool                             `json:"timeline_pending"`
}

func sessionResponse(snap session.Snapshot) sessionResp {
	return sessionResp{
		SeedEvent:       snap.SeedEvent,
		SeedSummary:     snap.SeedSummary,
		GuidingText:     snap.GuidingText(),
		Timeline:        snap.Timeline,
		Articles:        snap.Articles,
		Interpolations:  snap.Interpolations,
		ActiveEntry:     snap.ActiveEntry,
		Error:           snap.Err,
		TimelinePending: snap.TimelinePending,
	}
}
