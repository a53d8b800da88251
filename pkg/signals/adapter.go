package signals

import (
	"regexp"
	"strings"

	"github.com/daybookhq/daybook/pkg/models"
)

// Normalized is the provider-neutral shape signal extraction works on.
// Adapters translate loosely-typed provider payloads into it so the
// heuristics never touch raw schemas directly.
type Normalized struct {
	IsMergeLike  bool
	IsReviewLike bool
	Labels       []string
	Language     string
}

// Adapter normalizes one tool's raw activity payloads.
type Adapter interface {
	Normalize(activity models.Activity) Normalized
}

var (
	// A numeric-id marker like "#142" or "!87" identifies merge-style work
	// items; a 7-40 character hex string is treated as a commit reference.
	numericRefPattern = regexp.MustCompile(`^[#!]\d+$`)
	commitRefPattern  = regexp.MustCompile(`^[0-9a-f]{7,40}$`)
)

// Review decision values recognized across providers.
var reviewStates = map[string]bool{
	"approved":          true,
	"changes_requested": true,
	"commented":         true,
	"reviewed":          true,
}

// defaultAdapter covers tools without a registered adapter. It pattern
// matches cross references and the common label/language payload fields.
type defaultAdapter struct{}

func (defaultAdapter) Normalize(activity models.Activity) Normalized {
	var normalized Normalized

	for _, ref := range activity.CrossRefs {
		ref = strings.TrimSpace(ref)

		switch {
		case commitRefPattern.MatchString(ref):
			// Commit-style references never count as merge-like on their own.
		case numericRefPattern.MatchString(ref):
			normalized.IsMergeLike = true
		}
	}

	if state, ok := stringField(activity.Raw, "state"); ok && reviewStates[strings.ToLower(state)] {
		normalized.IsReviewLike = true
	}

	if decision, ok := stringField(activity.Raw, "decision"); ok && reviewStates[strings.ToLower(decision)] {
		normalized.IsReviewLike = true
	}

	normalized.Labels = stringSliceField(activity.Raw, "labels")

	if language, ok := stringField(activity.Raw, "language"); ok {
		normalized.Language = language
	}

	return normalized
}

// Registry maps tool identifiers to adapters, falling back to the default
// heuristic adapter for unknown tools.
type Registry struct {
	adapters map[string]Adapter
	fallback Adapter
}

// NewRegistry creates an adapter registry with the default fallback.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
		fallback: defaultAdapter{},
	}
}

// Register installs an adapter for a tool identifier.
func (r *Registry) Register(tool string, adapter Adapter) {
	r.adapters[tool] = adapter
}

// Normalize runs the activity through its tool's adapter.
func (r *Registry) Normalize(activity models.Activity) Normalized {
	if adapter, ok := r.adapters[activity.Tool]; ok {
		return adapter.Normalize(activity)
	}

	return r.fallback.Normalize(activity)
}

func stringField(raw map[string]any, key string) (string, bool) {
	if raw == nil {
		return "", false
	}

	value, ok := raw[key].(string)

	return value, ok
}

func stringSliceField(raw map[string]any, key string) []string {
	if raw == nil {
		return nil
	}

	switch values := raw[key].(type) {
	case []string:
		return values
	case []any:
		var out []string

		for _, value := range values {
			if s, ok := value.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}
