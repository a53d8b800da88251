package connections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnected(t *testing.T) {
	tools := []string{"github", "jira"}

	assert.True(t, Connected(tools, "github"))
	assert.False(t, Connected(tools, "linear"))
	assert.False(t, Connected(nil, "github"))
}

func TestStaticStore(t *testing.T) {
	store := NewStaticStore(map[string][]string{
		"user-1": {"github"},
	})

	tools, err := store.ConnectedTools(t.Context(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"github"}, tools)

	tools, err = store.ConnectedTools(t.Context(), "user-2")
	require.NoError(t, err)
	assert.Empty(t, tools)

	store.Connect("user-2", "jira")
	store.Connect("user-2", "jira")

	tools, err = store.ConnectedTools(t.Context(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"jira"}, tools)

	assert.NoError(t, store.Close())
}
