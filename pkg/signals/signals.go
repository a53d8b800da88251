// Package signals derives a heuristic summary from an activity set without
// any generative-AI call: dominant role, impact highlights, technology tags
// and per-activity narrative edges.
//
// Extraction is best effort. It never fails the pipeline and degrades to
// empty or default values when inputs are sparse.
package signals

import (
	"regexp"

	"github.com/daybookhq/daybook/pkg/models"
)

const (
	maxHighlights         = 5
	maxFallbackHighlights = 3
	maxTechnologies       = 10

	ledMergeThreshold  = 3
	ledReviewThreshold = 2
)

// Quantitative statements: a percentage, or "<number> <noun>" such as
// "3 files" or "12 tests".
var quantitativePattern = regexp.MustCompile(`\d+(?:\.\d+)?%|\b\d+\s+[A-Za-z]+`)

// Extractor runs the heuristic pass using an adapter registry to normalize
// provider payloads.
type Extractor struct {
	registry *Registry
}

// NewExtractor creates an extractor with the given adapter registry. A nil
// registry gets the default one.
func NewExtractor(registry *Registry) *Extractor {
	if registry == nil {
		registry = NewRegistry()
	}

	return &Extractor{registry: registry}
}

// Extract summarizes the full activity set.
func (e *Extractor) Extract(activities []models.Activity) models.ActivitySignals {
	extracted := models.ActivitySignals{Role: models.RoleContributed}

	if len(activities) == 0 {
		return extracted
	}

	var mergeCount, reviewCount int

	normalized := make([]Normalized, len(activities))
	for i, activity := range activities {
		normalized[i] = e.registry.Normalize(activity)

		if normalized[i].IsMergeLike {
			mergeCount++
		}

		if normalized[i].IsReviewLike {
			reviewCount++
		}
	}

	switch {
	case mergeCount >= ledMergeThreshold || reviewCount >= ledReviewThreshold:
		extracted.Role = models.RoleLed
	case mergeCount >= 1:
		extracted.Role = models.RoleDrove
	}

	extracted.Highlights = highlights(activities, normalized)
	extracted.Technologies = technologies(normalized)
	extracted.Edges = edges(activities, normalized)

	return extracted
}

// highlights picks up to five quantitative statements from titles and
// descriptions, falling back to up to three merge-like titles when nothing
// quantitative is found.
func highlights(activities []models.Activity, normalized []Normalized) []string {
	var picked []string

	for _, activity := range activities {
		if len(picked) >= maxHighlights {
			break
		}

		if quantitativePattern.MatchString(activity.Title) {
			picked = append(picked, activity.Title)

			continue
		}

		if quantitativePattern.MatchString(activity.Description) {
			picked = append(picked, activity.Description)
		}
	}

	if len(picked) > 0 {
		return picked
	}

	for i, activity := range activities {
		if len(picked) >= maxFallbackHighlights {
			break
		}

		if normalized[i].IsMergeLike && activity.Title != "" {
			picked = append(picked, activity.Title)
		}
	}

	return picked
}

// technologies unions labels and language tags across activities, capped at
// ten, in order of first appearance.
func technologies(normalized []Normalized) []string {
	var tags []string

	seen := make(map[string]bool)

	add := func(tag string) {
		if tag == "" || seen[tag] || len(tags) >= maxTechnologies {
			return
		}

		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, n := range normalized {
		for _, label := range n.Labels {
			add(label)
		}

		add(n.Language)
	}

	return tags
}

// edges classifies every activity as primary (merge-like), supporting
// (commit-referenced) or contextual.
func edges(activities []models.Activity, normalized []Normalized) []models.ActivityEdge {
	out := make([]models.ActivityEdge, 0, len(activities))

	for i, activity := range activities {
		relation := models.EdgeContextual

		switch {
		case normalized[i].IsMergeLike:
			relation = models.EdgePrimary
		case hasCommitRef(activity):
			relation = models.EdgeSupporting
		}

		out = append(out, models.ActivityEdge{
			ActivityID: activity.ID,
			Relation:   relation,
			Message:    activity.Title,
		})
	}

	return out
}

func hasCommitRef(activity models.Activity) bool {
	for _, ref := range activity.CrossRefs {
		if commitRefPattern.MatchString(ref) {
			return true
		}
	}

	return false
}
