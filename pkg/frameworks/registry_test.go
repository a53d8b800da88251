package frameworks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_PreloadsBuiltins(t *testing.T) {
	registry := NewRegistry()

	star, ok := registry.ByID("star")
	require.True(t, ok)
	assert.Equal(t, "STAR", star.Name)
	assert.Len(t, star.Components, 4)

	reflective, ok := registry.ByID("reflective")
	require.True(t, ok)
	assert.Equal(t, "Reflective Practice", reflective.Name)
	assert.Len(t, reflective.Components, 3)

	assert.ElementsMatch(t, []string{"star", "reflective"}, registry.IDs())
}

func TestRegistry_ByID_Unknown(t *testing.T) {
	registry := NewRegistry()

	_, ok := registry.ByID("nope")
	assert.False(t, ok)
}

func TestRegistry_Register_Replaces(t *testing.T) {
	registry := NewRegistry()

	registry.Register(Framework{
		ID:         "star",
		Name:       "Custom STAR",
		Components: []Component{{Name: "only", Label: "Only"}},
	})

	star, ok := registry.ByID("star")
	require.True(t, ok)
	assert.Equal(t, "Custom STAR", star.Name)
	assert.Len(t, star.Components, 1)
}

func TestRegistry_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frameworks.json")
	content := `[
		{
			"id": "retro",
			"name": "Retrospective",
			"title_prefix": "Retro",
			"components": [
				{"name": "went_well", "label": "What went well"},
				{"name": "improve", "label": "What to improve", "prompt": "Be specific."}
			]
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	registry := NewRegistry()
	require.NoError(t, registry.LoadFile(path))

	retro, ok := registry.ByID("retro")
	require.True(t, ok)
	assert.Equal(t, "Retrospective", retro.Name)
	assert.Equal(t, "Retro", retro.TitlePrefix)
	require.Len(t, retro.Components, 2)
	assert.Equal(t, "Be specific.", retro.Components[1].Prompt)
}

func TestRegistry_LoadFile_RejectsInvalidDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frameworks.json")

	// Missing the required components list.
	content := `[{"id": "broken", "name": "Broken"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	registry := NewRegistry()
	err := registry.LoadFile(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFrameworkFile)

	_, ok := registry.ByID("broken")
	assert.False(t, ok)
}

func TestRegistry_LoadFile_MissingFile(t *testing.T) {
	registry := NewRegistry()

	err := registry.LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
