package connections

import "context"

// StaticStore is an in-memory connection registry for tests and local
// development.
type StaticStore struct {
	byUser map[string][]string
}

// NewStaticStore creates a static store from a user-to-tools map.
func NewStaticStore(byUser map[string][]string) *StaticStore {
	if byUser == nil {
		byUser = make(map[string][]string)
	}

	return &StaticStore{byUser: byUser}
}

// Connect registers a tool connection for a user.
func (s *StaticStore) Connect(userID, tool string) {
	if !Connected(s.byUser[userID], tool) {
		s.byUser[userID] = append(s.byUser[userID], tool)
	}
}

// ConnectedTools returns the user's connected tools.
func (s *StaticStore) ConnectedTools(_ context.Context, userID string) ([]string, error) {
	return s.byUser[userID], nil
}

// Close is a no-op for the static store.
func (s *StaticStore) Close() error {
	return nil
}
