package analysis

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/chronicled/internal/taxonomy"
)

func newTestService() *Service {
	n := 0
	return NewService(nil,
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("sg-%d", n)
		}),
		WithTitlePicker(func(int) int { return 0 }),
	)
}

func TestService_Analyze_EmptyText(t *testing.T) {
	svc := newTestService()

	res := svc.Analyze(context.Background(), Conversation{ID: "c1", Text: ""})
	assert.Empty(t, res.Suggestions)
	assert.Equal(t, 0, res.Confidence)
	assert.GreaterOrEqual(t, res.ProcessingTime.Nanoseconds(), int64(0))
}

func TestService_Analyze_NoKeywords(t *testing.T) {
	svc := newTestService()

	res := svc.Analyze(context.Background(), Conversation{
		ID:   "c2",
		Text: "The weather was nice today and we had lunch.",
	})
	assert.Empty(t, res.Suggestions)
	assert.Equal(t, 0, res.Confidence)
}

func TestService_Analyze_Scenario(t *testing.T) {
	svc := newTestService()

	res := svc.Analyze(context.Background(), Conversation{
		ID:   "conv-feedbeef",
		Text: "We need to finish the critical database migration project launch before the urgent deadline.",
	})

	require.NotEmpty(t, res.Suggestions)
	top := res.Suggestions[0]
	assert.Equal(t, taxonomy.Projects, top.Category)
	assert.Equal(t, PriorityHigh, top.RelevantData.Priority)
	assert.Equal(t, res.Confidence, top.Confidence)

	var found bool
	for _, item := range top.RelevantData.ActionItems {
		if strings.HasPrefix(item, "need to finish") {
			found = true
		}
	}
	assert.True(t, found, "expected an action item starting with %q, got %v", "need to finish", top.RelevantData.ActionItems)
}

func TestService_Analyze_TopThreeSorted(t *testing.T) {
	svc := newTestService()

	// Dense text touching at least four categories so truncation kicks in.
	text := "The project launch happened during a crisis incident with an urgent outage. " +
		"Our partner vendor helped with the recovery and the contract negotiation. " +
		"The strategy decision was to change direction and the planning paid off. " +
		"The onboarding training for the new hire covered the incident response. " +
		"The technology platform experiment used automation throughout the migration."

	res := svc.Analyze(context.Background(), Conversation{ID: "c3", Text: text})

	assert.LessOrEqual(t, len(res.Suggestions), 3)
	require.NotEmpty(t, res.Suggestions)
	for i := 1; i < len(res.Suggestions); i++ {
		assert.GreaterOrEqual(t, res.Suggestions[i-1].Confidence, res.Suggestions[i].Confidence,
			"suggestions must be sorted by confidence descending")
	}
	assert.Equal(t, res.Suggestions[0].Confidence, res.Confidence)

	// All categories come from the fixed set.
	for _, sg := range res.Suggestions {
		assert.True(t, taxonomy.IsValid(sg.Category), "unexpected category %q", sg.Category)
	}
}

func TestService_Analyze_CategoriesFixed(t *testing.T) {
	svc := newTestService()
	res := svc.Analyze(context.Background(), Conversation{
		ID:   "c4",
		Text: strings.Repeat("project launch milestone deadline release roadmap migration delivery retrospective development sentence long enough here. ", 3),
	})
	for _, sg := range res.Suggestions {
		assert.True(t, taxonomy.IsValid(sg.Category))
	}
}
