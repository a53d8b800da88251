package signals

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybookhq/daybook/pkg/models"
)

func TestExtract_EmptySetDefaultsToContributed(t *testing.T) {
	extractor := NewExtractor(nil)

	extracted := extractor.Extract(nil)

	assert.Equal(t, models.RoleContributed, extracted.Role)
	assert.Empty(t, extracted.Highlights)
	assert.Empty(t, extracted.Technologies)
	assert.Empty(t, extracted.Edges)
}

func TestExtract_RoleLedByMerges(t *testing.T) {
	extractor := NewExtractor(nil)

	extracted := extractor.Extract([]models.Activity{
		{ID: "a-1", Title: "Merge auth refactor", CrossRefs: []string{"#1"}},
		{ID: "a-2", Title: "Merge payment retries", CrossRefs: []string{"#2"}},
		{ID: "a-3", Title: "Merge search index", CrossRefs: []string{"!3"}},
	})

	assert.Equal(t, models.RoleLed, extracted.Role)
}

func TestExtract_RoleLedByReviews(t *testing.T) {
	extractor := NewExtractor(nil)

	extracted := extractor.Extract([]models.Activity{
		{ID: "a-1", Title: "Review auth change", Raw: map[string]any{"state": "approved"}},
		{ID: "a-2", Title: "Review billing change", Raw: map[string]any{"decision": "changes_requested"}},
	})

	assert.Equal(t, models.RoleLed, extracted.Role)
}

func TestExtract_RoleDroveWithSingleMerge(t *testing.T) {
	extractor := NewExtractor(nil)

	extracted := extractor.Extract([]models.Activity{
		{ID: "a-1", Title: "Merge auth refactor", CrossRefs: []string{"#1"}},
		{ID: "a-2", Title: "Standup notes"},
	})

	assert.Equal(t, models.RoleDrove, extracted.Role)
}

func TestExtract_CommitRefAloneIsNotMergeLike(t *testing.T) {
	extractor := NewExtractor(nil)

	extracted := extractor.Extract([]models.Activity{
		{ID: "a-1", Title: "Push fixes", CrossRefs: []string{"abc1234def"}},
	})

	assert.Equal(t, models.RoleContributed, extracted.Role)
}

func TestExtract_QuantitativeHighlights(t *testing.T) {
	extractor := NewExtractor(nil)

	var activities []models.Activity
	for i := range 7 {
		activities = append(activities, models.Activity{
			ID:    fmt.Sprintf("a-%d", i),
			Title: fmt.Sprintf("Cut build time by %d%%", 10+i),
		})
	}

	extracted := extractor.Extract(activities)

	require.Len(t, extracted.Highlights, 5)
	assert.Equal(t, "Cut build time by 10%", extracted.Highlights[0])
}

func TestExtract_HighlightFromDescription(t *testing.T) {
	extractor := NewExtractor(nil)

	extracted := extractor.Extract([]models.Activity{
		{ID: "a-1", Title: "Speed up pipeline", Description: "Removed twelve redundant steps, saving 40 minutes"},
	})

	require.Len(t, extracted.Highlights, 1)
	assert.Contains(t, extracted.Highlights[0], "40 minutes")
}

func TestExtract_HighlightFallbackToMergeTitles(t *testing.T) {
	extractor := NewExtractor(nil)

	extracted := extractor.Extract([]models.Activity{
		{ID: "a-1", Title: "Merge auth refactor", CrossRefs: []string{"#1"}},
		{ID: "a-2", Title: "Merge payment retries", CrossRefs: []string{"#2"}},
		{ID: "a-3", Title: "Merge search index", CrossRefs: []string{"#3"}},
		{ID: "a-4", Title: "Merge billing cleanup", CrossRefs: []string{"#4"}},
	})

	// No quantitative statements anywhere, so up to three merge titles stand in.
	require.Len(t, extracted.Highlights, 3)
	assert.Equal(t, "Merge auth refactor", extracted.Highlights[0])
}

func TestExtract_TechnologiesDedupedInFirstAppearanceOrder(t *testing.T) {
	extractor := NewExtractor(nil)

	extracted := extractor.Extract([]models.Activity{
		{ID: "a-1", Raw: map[string]any{"labels": []any{"backend", "api"}, "language": "Go"}},
		{ID: "a-2", Raw: map[string]any{"labels": []any{"api"}, "language": "Go"}},
		{ID: "a-3", Raw: map[string]any{"language": "SQL"}},
	})

	assert.Equal(t, []string{"backend", "api", "Go", "SQL"}, extracted.Technologies)
}

func TestExtract_TechnologiesCappedAtTen(t *testing.T) {
	extractor := NewExtractor(nil)

	var labels []any
	for i := range 15 {
		labels = append(labels, fmt.Sprintf("label-%d", i))
	}

	extracted := extractor.Extract([]models.Activity{
		{ID: "a-1", Raw: map[string]any{"labels": labels}},
	})

	assert.Len(t, extracted.Technologies, 10)
}

func TestExtract_EdgeClassification(t *testing.T) {
	extractor := NewExtractor(nil)

	extracted := extractor.Extract([]models.Activity{
		{ID: "merge", Title: "Merge auth refactor", CrossRefs: []string{"#1"}},
		{ID: "review", Title: "Review billing change", Raw: map[string]any{"state": "approved"}},
		{ID: "commit", Title: "Push fixes", CrossRefs: []string{"abc1234"}},
		{ID: "plain", Title: "Standup notes"},
	})

	require.Len(t, extracted.Edges, 4)

	relations := make(map[string]string)
	for _, edge := range extracted.Edges {
		relations[edge.ActivityID] = edge.Relation
	}

	assert.Equal(t, models.EdgePrimary, relations["merge"])
	// Review-like counts toward the role thresholds but without a commit
	// reference it stays contextual.
	assert.Equal(t, models.EdgeContextual, relations["review"])
	assert.Equal(t, models.EdgeSupporting, relations["commit"])
	assert.Equal(t, models.EdgeContextual, relations["plain"])
}

type mergeEverythingAdapter struct{}

func (mergeEverythingAdapter) Normalize(models.Activity) Normalized {
	return Normalized{IsMergeLike: true}
}

func TestRegistry_RegisteredAdapterWins(t *testing.T) {
	registry := NewRegistry()
	registry.Register("jira", mergeEverythingAdapter{})

	extractor := NewExtractor(registry)

	extracted := extractor.Extract([]models.Activity{
		{ID: "a-1", Tool: "jira", Title: "Ticket moved"},
	})

	assert.Equal(t, models.RoleDrove, extracted.Role)
}
