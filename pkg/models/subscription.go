package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrInvalidFrequency is returned when a subscription carries an unknown frequency.
	ErrInvalidFrequency = errors.New("invalid recurrence frequency")

	// ErrEmptyWeekdaySet is returned when a weekday-dependent frequency has no selected weekdays.
	ErrEmptyWeekdaySet = errors.New("weekday selection required for this frequency")

	// ErrInvalidTimeOfDay is returned when the generation time is out of range.
	ErrInvalidTimeOfDay = errors.New("invalid generation time of day")

	// ErrInvalidTimezone is returned when the timezone string is not a loadable zone name.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrNoToolsSelected is returned when a subscription selects no external tools.
	ErrNoToolsSelected = errors.New("at least one tool must be selected")

	// ErrInvalidGroupingMethod is returned when the grouping method is unknown.
	ErrInvalidGroupingMethod = errors.New("invalid grouping method")
)

// TimeOfDay is a local wall-clock generation time (hour and minute).
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// IsValid reports whether the time of day is within the 00:00-23:59 range.
func (t TimeOfDay) IsValid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Subscription is one user's configuration for recurring auto-generation of a
// draft journal entry in one workspace. Exactly one subscription may exist per
// (user, workspace) pair.
//
// NextRunAt is always expressed in UTC and is the earliest future instant that
// satisfies the recurrence rule at last computation. It is nil exactly when
// the subscription is inactive.
type Subscription struct {
	// ID uniquely identifies this subscription
	ID string `json:"id" validate:"required"`

	// UserID identifies the owning user
	UserID string `json:"user_id" validate:"required"`

	// WorkspaceID identifies the workspace entries are created in
	WorkspaceID string `json:"workspace_id" validate:"required"`

	// WorkspaceName is a denormalized snapshot of the workspace name
	WorkspaceName string `json:"workspace_name"`

	// WorkspaceActive is a denormalized snapshot of the workspace active flag.
	// Inactive workspaces are skipped during processing but still reschedule.
	WorkspaceActive bool `json:"workspace_active"`

	// Active indicates whether this subscription is processed by the scheduler
	Active bool `json:"active"`

	// Frequency defines the recurrence rule
	Frequency Frequency `json:"frequency" validate:"required"`

	// Weekdays is the selected weekday set for weekday-dependent frequencies
	Weekdays []time.Weekday `json:"weekdays,omitempty"`

	// TimeOfDay is the local wall-clock generation time
	TimeOfDay TimeOfDay `json:"time_of_day"`

	// Timezone is the IANA zone name the generation time is interpreted in
	Timezone string `json:"timezone" validate:"required"`

	// Tools lists the identifiers of connected external tools to scan
	Tools []string `json:"tools" validate:"required,min=1"`

	// FocusPrompt is an optional free-text note appended to generated entries
	FocusPrompt string `json:"focus_prompt,omitempty"`

	// DefaultCategory is applied to generated entries
	DefaultCategory string `json:"default_category,omitempty"`

	// DefaultTags are applied to generated entries alongside the marker tag
	DefaultTags []string `json:"default_tags,omitempty"`

	// FrameworkID optionally selects a content framework for the entry body
	FrameworkID string `json:"framework_id,omitempty"`

	// GroupingMethod optionally selects an activity grouping strategy
	GroupingMethod GroupingMethod `json:"grouping_method,omitempty"`

	// LastRunAt is when this subscription last completed a processing pass
	LastRunAt *time.Time `json:"last_run_at,omitempty"`

	// NextRunAt is the precomputed next due instant, UTC.
	// This allows efficient database queries for due subscriptions.
	NextRunAt *time.Time `json:"next_run_at,omitempty"`

	// CreatedAt timestamp when this subscription was created
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt timestamp when this subscription was last updated
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSubscription creates an active subscription with defaults. NextRunAt is
// left unset; callers compute it through the recurrence calculator before
// saving.
func NewSubscription(userID, workspaceID string) *Subscription {
	now := time.Now().UTC()

	return &Subscription{
		ID:          uuid.New().String(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		Active:      true,
		Frequency:   FrequencyDaily,
		TimeOfDay:   TimeOfDay{Hour: 17, Minute: 0},
		Timezone:    "UTC",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsDue reports whether the subscription is due at the given instant.
func (s *Subscription) IsDue(now time.Time) bool {
	return s.Active && s.NextRunAt != nil && !s.NextRunAt.After(now)
}

// Validate checks the subscription's recurrence configuration. Malformed
// recurrence input is rejected here, at create/update time, rather than
// discovered during scheduled processing.
func (s *Subscription) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("subscription validation failed: %w", err)
	}

	if !s.Frequency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, s.Frequency)
	}

	if s.Frequency.RequiresWeekdays() && len(s.Weekdays) == 0 {
		return fmt.Errorf("%w: frequency %q", ErrEmptyWeekdaySet, s.Frequency)
	}

	if !s.TimeOfDay.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidTimeOfDay, s.TimeOfDay)
	}

	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, s.Timezone)
	}

	if !s.GroupingMethod.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidGroupingMethod, s.GroupingMethod)
	}

	return nil
}
