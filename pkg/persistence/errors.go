// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrSubscriptionNotFound indicates a subscription was not found by the given identifier.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrSubscriptionExists indicates a subscription already exists for the (user, workspace) pair.
	ErrSubscriptionExists = errors.New("subscription already exists for this user and workspace")

	// ErrEntryExists indicates an entry with the same identifier already exists.
	ErrEntryExists = errors.New("entry already exists")
)

// SubscriptionError wraps subscription store errors with operation context.
type SubscriptionError struct {
	Op             string // Operation being performed (e.g., "Save", "DueSubscriptions")
	SubscriptionID string // Subscription ID if applicable
	Err            error  // Underlying error
}

func (e *SubscriptionError) Error() string {
	if e.SubscriptionID == "" {
		return fmt.Sprintf("%s operation failed: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s operation failed for subscription %s: %v", e.Op, e.SubscriptionID, e.Err)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Err
}

func (e *SubscriptionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewSubscriptionError creates a subscription error with context.
func NewSubscriptionError(op, subscriptionID string, err error) *SubscriptionError {
	return &SubscriptionError{
		Op:             op,
		SubscriptionID: subscriptionID,
		Err:            err,
	}
}
