// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/daybookhq/daybook/pkg/models"
)

// CreateTestSubscription creates a test subscription with default values that
// can be overridden.
func CreateTestSubscription(overrides ...func(*models.Subscription)) *models.Subscription {
	now := time.Now().UTC()

	subscription := &models.Subscription{
		ID:              uuid.New().String(),
		UserID:          "user-1",
		WorkspaceID:     "workspace-1",
		WorkspaceName:   "Test Workspace",
		WorkspaceActive: true,
		Active:          true,
		Frequency:       models.FrequencyDaily,
		TimeOfDay:       models.TimeOfDay{Hour: 17, Minute: 0},
		Timezone:        "UTC",
		Tools:           []string{"github"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, override := range overrides {
		override(subscription)
	}

	return subscription
}

// WithFrequency sets the recurrence frequency.
func WithFrequency(frequency models.Frequency) func(*models.Subscription) {
	return func(s *models.Subscription) {
		s.Frequency = frequency
	}
}

// WithWeekdays sets the selected weekday set.
func WithWeekdays(weekdays ...time.Weekday) func(*models.Subscription) {
	return func(s *models.Subscription) {
		s.Weekdays = weekdays
	}
}

// WithTimeOfDay sets the local generation time.
func WithTimeOfDay(hour, minute int) func(*models.Subscription) {
	return func(s *models.Subscription) {
		s.TimeOfDay = models.TimeOfDay{Hour: hour, Minute: minute}
	}
}

// WithTimezone sets the zone the generation time is interpreted in.
func WithTimezone(timezone string) func(*models.Subscription) {
	return func(s *models.Subscription) {
		s.Timezone = timezone
	}
}

// WithTools sets the selected tools.
func WithTools(tools ...string) func(*models.Subscription) {
	return func(s *models.Subscription) {
		s.Tools = tools
	}
}

// WithNextRunAt sets the precomputed due instant.
func WithNextRunAt(at time.Time) func(*models.Subscription) {
	return func(s *models.Subscription) {
		at = at.UTC()
		s.NextRunAt = &at
	}
}

// WithGrouping sets the grouping method.
func WithGrouping(method models.GroupingMethod) func(*models.Subscription) {
	return func(s *models.Subscription) {
		s.GroupingMethod = method
	}
}

// WithFramework sets the content framework.
func WithFramework(id string) func(*models.Subscription) {
	return func(s *models.Subscription) {
		s.FrameworkID = id
	}
}

// WithInactiveWorkspace marks the denormalized workspace snapshot inactive.
func WithInactiveWorkspace() func(*models.Subscription) {
	return func(s *models.Subscription) {
		s.WorkspaceActive = false
	}
}

// CreateTestActivity creates a test activity with default values that can be
// overridden.
func CreateTestActivity(overrides ...func(*models.Activity)) *models.Activity {
	activity := &models.Activity{
		ID:        uuid.New().String(),
		UserID:    "user-1",
		Tool:      "github",
		Title:     "Merge pull request",
		Timestamp: time.Now().UTC(),
	}

	for _, override := range overrides {
		override(activity)
	}

	return activity
}

// WithTool sets the originating tool.
func WithTool(tool string) func(*models.Activity) {
	return func(a *models.Activity) {
		a.Tool = tool
	}
}

// WithTimestamp sets the activity timestamp.
func WithTimestamp(at time.Time) func(*models.Activity) {
	return func(a *models.Activity) {
		a.Timestamp = at
	}
}

// WithTitle sets the activity title.
func WithTitle(title string) func(*models.Activity) {
	return func(a *models.Activity) {
		a.Title = title
	}
}

// WithCrossRefs sets the cross-tool reference identifiers.
func WithCrossRefs(refs ...string) func(*models.Activity) {
	return func(a *models.Activity) {
		a.CrossRefs = refs
	}
}

// WithRaw sets the raw tool payload.
func WithRaw(raw map[string]any) func(*models.Activity) {
	return func(a *models.Activity) {
		a.Raw = raw
	}
}
