// Package taxonomy defines the closed set of knowledge categories used to
// classify conversations and group stories. Category names, keyword lists,
// title pools, and priority vocabularies are fixed at compile time; nothing
// here is extensible at runtime.
package taxonomy

// Category names. These six values are the only categories the analysis
// pipeline ever produces.
const (
	Onboarding   = "Onboarding Essentials"
	Projects     = "Project Histories"
	Crisis       = "Crisis Management"
	Partnerships = "Strategic Partnerships"
	Strategy     = "Strategy Lessons"
	Innovation   = "Innovation & Technology"
)

// Category describes one knowledge domain: the keywords that signal it,
// the title pool used when generating story suggestions for it, and the
// fixed description template for generated stories.
type Category struct {
	Name        string
	Description string
	Keywords    []string
	TitlePool   []string
	StoryBlurb  string
}

// categories holds the six categories in canonical display order.
var categories = []Category{
	{
		Name:        Onboarding,
		Description: "Getting-started knowledge for people new to the team",
		Keywords: []string{
			"onboarding", "training", "orientation", "new hire", "welcome",
			"introduction", "mentor", "first day", "setup", "getting started",
		},
		TitlePool: []string{
			"Team Onboarding", "New Hire Experience", "Getting Started Guide",
			"First Weeks", "Orientation Notes",
		},
		StoryBlurb: "Captured guidance for newcomers, distilled from a recent conversation.",
	},
	{
		Name:        Projects,
		Description: "Histories of projects, launches, and deliveries",
		Keywords: []string{
			"project", "launch", "development", "milestone", "deadline",
			"delivery", "roadmap", "release", "migration", "retrospective",
		},
		TitlePool: []string{
			"Project Milestone", "Launch Retrospective", "Delivery Story",
			"Development Journey", "Release Notes",
		},
		StoryBlurb: "A project history captured from a recent conversation about delivery work.",
	},
	{
		Name:        Crisis,
		Description: "How incidents and emergencies were handled",
		Keywords: []string{
			"crisis", "incident", "emergency", "outage", "escalation",
			"recovery", "urgent", "failure", "response", "postmortem",
		},
		TitlePool: []string{
			"Incident Response", "Crisis Handling", "Emergency Playbook",
			"Outage Recovery", "Escalation Story",
		},
		StoryBlurb: "Lessons from handling a critical situation, captured from conversation.",
	},
	{
		Name:        Partnerships,
		Description: "Relationships with partners, vendors, and clients",
		Keywords: []string{
			"partnership", "partner", "vendor", "alliance", "contract",
			"negotiation", "collaboration", "agreement", "client", "stakeholder",
		},
		TitlePool: []string{
			"Partnership Journey", "Vendor Relationship", "Client Collaboration",
			"Alliance Building", "Negotiation Notes",
		},
		StoryBlurb: "Insights about a working relationship, captured from conversation.",
	},
	{
		Name:        Strategy,
		Description: "Strategic decisions and the lessons behind them",
		Keywords: []string{
			"strategy", "strategic", "vision", "planning", "goal",
			"objective", "decision", "lesson", "direction", "tradeoff",
		},
		TitlePool: []string{
			"Strategic Decision", "Planning Lesson", "Direction Change",
			"Vision Notes", "Goal Setting",
		},
		StoryBlurb: "A strategic lesson distilled from a recent conversation.",
	},
	{
		Name:        Innovation,
		Description: "Technology choices, experiments, and modernization",
		Keywords: []string{
			"innovation", "technology", "automation", "prototype", "experiment",
			"platform", "research", "modernization", "tooling", "architecture",
		},
		TitlePool: []string{
			"Technology Choice", "Innovation Story", "Experiment Results",
			"Platform Evolution", "Automation Win",
		},
		StoryBlurb: "A technology insight captured from a recent conversation.",
	},
}

// byName indexes categories for constant-time lookup.
var byName = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.Name] = c
	}
	return m
}()

// Categories returns the six categories in canonical order. The returned
// slice is shared; callers must not modify it.
func Categories() []Category {
	return categories
}

// Lookup returns the category with the given name.
func Lookup(name string) (Category, bool) {
	c, ok := byName[name]
	return c, ok
}

// IsValid reports whether name is one of the six fixed category names.
func IsValid(name string) bool {
	_, ok := byName[name]
	return ok
}

// Priority vocabularies used by the analysis pipeline. Counting is
// substring-based and case-insensitive.
var (
	// HighPriorityWords signal urgency; two or more occurrences make a
	// conversation high priority.
	HighPriorityWords = []string{
		"critical", "urgent", "immediate", "emergency",
		"priority", "important", "key", "essential",
	}

	// MediumPriorityWords signal recommendations rather than urgency.
	MediumPriorityWords = []string{
		"should", "recommended", "suggested", "consider", "review", "evaluate",
	}

	// LowPriorityWords signal deferrable work.
	LowPriorityWords = []string{
		"minor", "optional", "later", "future", "nice to have", "when time permits",
	}
)
