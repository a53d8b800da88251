package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybookhq/daybook/pkg/connections"
	"github.com/daybookhq/daybook/pkg/persistence/file"
)

func TestNewPersistence_FileFallback(t *testing.T) {
	store, err := NewPersistence(t.Context(), slog.Default(), t.TempDir())
	require.NoError(t, err)

	_, ok := store.(*file.Persistence)
	assert.True(t, ok)
	assert.NoError(t, store.Close(t.Context()))
}

func TestNewPersistence_FileScheme(t *testing.T) {
	store, err := NewPersistence(t.Context(), slog.Default(), "file://"+t.TempDir())
	require.NoError(t, err)

	_, ok := store.(*file.Persistence)
	assert.True(t, ok)
}

func TestNewEventBus_GoChannel(t *testing.T) {
	bus, err := NewEventBus("gochannel", "test-service", slog.Default())
	require.NoError(t, err)
	require.NotNil(t, bus)
	assert.NoError(t, bus.Close())

	bus, err = NewEventBus("", "test-service", slog.Default())
	require.NoError(t, err)
	assert.NoError(t, bus.Close())
}

func TestNewEventBus_UnsupportedProvider(t *testing.T) {
	_, err := NewEventBus("carrier-pigeon", "test-service", slog.Default())
	assert.Error(t, err)
}

func TestNewConnectionStore_EmptyURLUsesStaticStore(t *testing.T) {
	store, err := NewConnectionStore(t.Context(), slog.Default(), "")
	require.NoError(t, err)

	_, ok := store.(*connections.StaticStore)
	assert.True(t, ok)
}
