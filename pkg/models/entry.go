package models

import (
	"time"

	"github.com/google/uuid"
)

// AutoGeneratedTag marks entries created by the generation pipeline. It is
// always appended to the user's configured default tags.
const AutoGeneratedTag = "auto-generated"

// Dominant role classifications derived from activity signals.
const (
	RoleLed         = "Led"
	RoleDrove       = "Drove"
	RoleContributed = "Contributed"
)

// Activity edge relations used in extracted signals.
const (
	EdgePrimary    = "primary"
	EdgeSupporting = "supporting"
	EdgeContextual = "contextual"
)

// ActivityEdge is a per-activity narrative classification paired with a
// human-readable message.
type ActivityEdge struct {
	ActivityID string `json:"activity_id"`
	Relation   string `json:"relation"`
	Message    string `json:"message"`
}

// ActivitySignals is the heuristic summary extracted from an activity set
// without any generative-AI call.
type ActivitySignals struct {
	// Role is the dominant role classification: Led, Drove or Contributed
	Role string `json:"role"`

	// Highlights are up to five quantitative impact statements
	Highlights []string `json:"highlights,omitempty"`

	// Technologies are up to ten provider-supplied labels and language tags,
	// in order of first appearance
	Technologies []string `json:"technologies,omitempty"`

	// Edges classify every activity as primary, supporting or contextual
	Edges []ActivityEdge `json:"edges,omitempty"`
}

// EvidenceRecord ties a generated entry back to one source activity.
type EvidenceRecord struct {
	ActivityID string    `json:"activity_id"`
	Tool       string    `json:"tool"`
	Title      string    `json:"title"`
	Timestamp  time.Time `json:"timestamp"`
}

// FrameworkSlot is one framework component in the metadata scaffold, with an
// empty content slot for later human or AI completion.
type FrameworkSlot struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Prompt  string `json:"prompt"`
	Content string `json:"content"`
}

// EntryMetadata is the structured payload stored alongside a generated entry.
// It mirrors the templated body and is a versionable internal contract, not a
// public protocol.
type EntryMetadata struct {
	// PeriodStart and PeriodEnd bound the source activity date range, UTC
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	// ToolCounts maps each tool identifier to its activity count
	ToolCounts map[string]int `json:"tool_counts"`

	// ActivityCount is the total number of source activities
	ActivityCount int `json:"activity_count"`

	// Evidence records every source activity
	Evidence []EvidenceRecord `json:"evidence,omitempty"`

	// Signals carries the extracted heuristic summary
	Signals ActivitySignals `json:"signals"`

	// Framework is the optional component scaffold with empty content slots
	Framework []FrameworkSlot `json:"framework,omitempty"`

	// Groups is the optional grouping breakdown
	Groups []ActivityGroup `json:"groups,omitempty"`
}

// JournalEntry is the auto-generated draft artifact. Entries are always
// created unpublished with private scope; ownership transfers entirely to the
// user on creation.
type JournalEntry struct {
	// ID uniquely identifies this entry
	ID string `json:"id" validate:"required"`

	// WorkspaceID scopes the entry to one workspace
	WorkspaceID string `json:"workspace_id" validate:"required"`

	// UserID is the owning user
	UserID string `json:"user_id" validate:"required"`

	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Body        string `json:"body"`

	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// Published is always false for generated drafts
	Published bool `json:"published"`

	Metadata EntryMetadata `json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}

// NewJournalEntry creates an unpublished draft entry owned by the given user.
func NewJournalEntry(userID, workspaceID string) *JournalEntry {
	return &JournalEntry{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Published:   false,
		CreatedAt:   time.Now().UTC(),
	}
}

// DraftContent is the output of the content synthesizer, ready to be copied
// onto a JournalEntry.
type DraftContent struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Body        string        `json:"body"`
	Metadata    EntryMetadata `json:"metadata"`
}
