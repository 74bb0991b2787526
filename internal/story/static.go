package story

import (
	"github.com/fyrsmithlabs/chronicled/internal/taxonomy"
)

// staticStories is the hand-authored story set, keyed by category name.
// These records are immutable; the service returns copies of them merged
// after any dynamic stories for the same category.
var staticStories = map[string][]Story{
	taxonomy.Onboarding: {
		{
			ID:          "static-onboarding-1",
			Title:       "Finding Your Footing",
			Description: "How the first month on the team usually goes, and who to ask for what.",
			Status:      StatusComplete,
			Date:        "2024-03-12",
			Tags:        []string{"onboarding", "culture"},
			Author:      "Elena Park",
		},
		{
			ID:          "static-onboarding-2",
			Title:       "The Tooling Tour",
			Description: "A walkthrough of the internal tools every newcomer touches in week one.",
			Status:      StatusComplete,
			Date:        "2024-06-02",
			Tags:        []string{"onboarding", "tooling"},
			Author:      "Marcus Webb",
		},
	},
	taxonomy.Projects: {
		{
			ID:          "static-projects-1",
			Title:       "The Great Migration",
			Description: "Eighteen months moving the billing platform off the legacy mainframe.",
			Status:      StatusComplete,
			Date:        "2023-11-20",
			Tags:        []string{"migration", "billing"},
			Author:      "Priya Nair",
		},
	},
	taxonomy.Crisis: {
		{
			ID:          "static-crisis-1",
			Title:       "The Black Friday Outage",
			Description: "Four hours of downtime on the busiest day of the year, and what changed after.",
			Status:      StatusComplete,
			Date:        "2022-11-25",
			Tags:        []string{"outage", "postmortem"},
			Author:      "Priya Nair",
		},
	},
	taxonomy.Partnerships: {
		{
			ID:          "static-partnerships-1",
			Title:       "Winning Back Meridian",
			Description: "Rebuilding trust with our largest client after a missed delivery.",
			Status:      StatusComplete,
			Date:        "2023-04-08",
			Tags:        []string{"client", "negotiation"},
			Author:      "Elena Park",
		},
	},
	taxonomy.Strategy: {
		{
			ID:          "static-strategy-1",
			Title:       "Saying No to the Big Rewrite",
			Description: "Why we chose incremental modernization over a ground-up rebuild.",
			Status:      StatusComplete,
			Date:        "2023-09-15",
			Tags:        []string{"decision", "modernization"},
			Author:      "Marcus Webb",
		},
	},
	taxonomy.Innovation: {
		{
			ID:          "static-innovation-1",
			Title:       "The Prototype That Stuck",
			Description: "A hack-week experiment that became the team's standard deployment tool.",
			Status:      StatusComplete,
			Date:        "2024-01-30",
			Tags:        []string{"prototype", "automation"},
			Author:      "Priya Nair",
		},
	},
}

// StaticStories returns copies of the hand-authored stories for a category.
func StaticStories(category string) []Story {
	return copyStories(staticStories[category])
}

func copyStories(stories []Story) []Story {
	if stories == nil {
		return nil
	}
	out := make([]Story, len(stories))
	for i, st := range stories {
		out[i] = st
		if st.Tags != nil {
			out[i].Tags = append([]string(nil), st.Tags...)
		}
	}
	return out
}
