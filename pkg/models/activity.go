package models

import "time"

// Activity is a timestamped record of work done in a connected external tool.
// Activities are written by the ingestion services and are read-only to the
// generation pipeline.
type Activity struct {
	// ID uniquely identifies this activity record
	ID string `json:"id" validate:"required"`

	// UserID identifies the user the activity belongs to
	UserID string `json:"user_id" validate:"required"`

	// Tool identifies the external tool that produced the activity
	Tool string `json:"tool" validate:"required"`

	// Title is a short human-readable summary of the activity
	Title string `json:"title"`

	// Description is an optional longer description
	Description string `json:"description,omitempty"`

	// Timestamp is when the work happened, UTC
	Timestamp time.Time `json:"timestamp"`

	// CrossRefs holds identifiers of related work items in other tools,
	// e.g. "#142", "!87" or a commit hash. Used for reference clustering
	// and signal extraction.
	CrossRefs []string `json:"cross_refs,omitempty"`

	// Raw carries the provider-specific payload as ingested
	Raw map[string]any `json:"raw,omitempty"`
}

// ActivityGroup is one named group of activity ids produced by the grouping
// engine. The synthesizer treats groups opaquely and only reports counts and
// keys.
type ActivityGroup struct {
	// Key names the group: a UTC calendar date, a cluster name, or the
	// reserved "unclustered" bucket
	Key string `json:"key"`

	// ActivityIDs lists member activities in original fetch order
	ActivityIDs []string `json:"activity_ids"`
}
