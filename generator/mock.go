package generator

import (
	"context"
	"fmt"

	"counterfactual_press/timeline"
)

// MockClient is a deterministic stand-in for local use without an API key.
// It never fails and ignores the credential.
type MockClient struct{}

func (MockClient) GenerateTimeline(_ context.Context, _, seed string) (timeline.Timeline, error) {
	return timeline.Timeline{
		Title:     "The Quiet Divergence",
		Principle: "Small causes compound until the familiar world is unrecognizable.",
		Entries: []timeline.Entry{
			{
				ID: "divergence", Era: "Year 0", Title: "The Divergence",
				Summary: fmt.Sprintf("History turns on a single moment: %s. Few notice at the time.", seed),
				Threads: []string{"politics"},
			},
			{
				ID: "first-ripples", Era: "Year 3", Title: "First Ripples Reach the Capitals",
				Summary: "Governments quietly adjust policy as the consequences of the divergence become measurable.",
				Threads: []string{"politics", "science"},
			},
			{
				ID: "the-long-decade", Era: "Years 5-15", Title: "The Long Decade",
				Summary: "A generation grows up knowing only the altered course. Culture begins to reflect it.",
				Tone:    "reflective",
				Threads: []string{"culture"},
			},
			{
				ID: "new-equilibrium", Era: "Year 20", Title: "A New Equilibrium",
				Summary: "The world settles into a configuration no one from the old timeline would recognize.",
				Date:    "1990-01-01",
			},
		},
	}, nil
}

func (MockClient) GenerateArticle(_ context.Context, _, _ string, entry timeline.Entry, tl timeline.Timeline) (timeline.Article, error) {
	return timeline.Article{
		Headline: entry.Title,
		Dateline: fmt.Sprintf("THE CAPITAL, %s", entry.Era),
		Lede:     entry.Summary,
		Body: []string{
			fmt.Sprintf("Observers across the world of *%s* are still absorbing the news.", tl.Title),
			"Officials declined to comment, though sources close to the ministry describe the mood as cautious.",
			"Historians note that events of this kind rarely announce their own significance.",
		},
		Sidebar: &timeline.Sidebar{
			Title: "At a glance",
			Items: []string{"Era: " + entry.Era, "Timeline: " + tl.Title},
		},
		PullQuote: "Rarely does history announce its own significance.",
	}, nil
}

func (MockClient) GenerateInterpolation(_ context.Context, _, _ string, req InterpolationRequest) ([]timeline.Entry, error) {
	return []timeline.Entry{
		{
			ID:      req.Anchor.ID + "-aftermath",
			Era:     req.Anchor.Era,
			Title:   "Aftermath of " + req.Anchor.Title,
			Summary: "The immediate consequences ripple outward faster than anyone expected.",
		},
		{
			ID:      req.Anchor.ID + "-reckoning",
			Era:     req.Anchor.Era,
			Title:   "The Reckoning",
			Summary: "Institutions strain to absorb what has already become irreversible.",
		},
	}, nil
}
