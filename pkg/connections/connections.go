// Package connections exposes the tool-connection registry: which external
// tools a user has actively connected.
package connections

import "context"

// ConnectionStore answers which tools a user can be scanned for. A selected
// tool without an active connection is reported as missing by the processor.
type ConnectionStore interface {
	// ConnectedTools returns the identifiers of the user's actively
	// connected tools.
	ConnectedTools(ctx context.Context, userID string) ([]string, error)

	Close() error
}

// Connected reports whether a tool identifier is present in the list.
func Connected(tools []string, tool string) bool {
	for _, connected := range tools {
		if connected == tool {
			return true
		}
	}

	return false
}
