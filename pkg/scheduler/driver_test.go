package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybookhq/daybook/pkg/models"
	"github.com/daybookhq/daybook/pkg/testutil"
)

func TestDriver_RunTick_EmptyDueList(t *testing.T) {
	env := newProcessorEnv(t)
	driver := NewDriver("driver-test", env.subscriptions, env.processor, env.processor.logger)

	require.NoError(t, driver.RunTick(t.Context(), time.Now().UTC()))
	assert.Empty(t, env.subscriptions.saved)
}

func TestDriver_RunTick_DueFetchFailureIsFatalToTick(t *testing.T) {
	env := newProcessorEnv(t)
	env.subscriptions.dueErr = assert.AnError
	driver := NewDriver("driver-test", env.subscriptions, env.processor, env.processor.logger)

	err := driver.RunTick(t.Context(), time.Now().UTC())

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDriver_RunTick_ProcessesWholeBatch(t *testing.T) {
	env := newProcessorEnv(t)
	seedActivities(env, "github", 2)

	now := time.Now().UTC()
	first := testutil.CreateTestSubscription(testutil.WithNextRunAt(now.Add(-5 * time.Minute)))
	second := testutil.CreateTestSubscription(
		func(s *models.Subscription) { s.UserID = "user-1"; s.WorkspaceID = "workspace-2" },
		testutil.WithNextRunAt(now.Add(-10*time.Minute)))

	env.subscriptions.due = []*models.Subscription{first, second}

	require.NoError(t, driverForEnv(env).RunTick(t.Context(), now))

	// Both subscriptions processed and rescheduled.
	assert.Len(t, env.subscriptions.saved, 2)
	assert.Len(t, env.entries.entries, 2)
	require.NotNil(t, first.NextRunAt)
	assert.True(t, first.NextRunAt.After(now))
	require.NotNil(t, second.NextRunAt)
	assert.True(t, second.NextRunAt.After(now))
}

func TestDriver_RunTick_IsolatesPanickingSubscription(t *testing.T) {
	env := newProcessorEnv(t)

	// The first pass hits the no-activity path and the notification store
	// panics on it; the second pass must still complete and both must
	// reschedule.
	env.notifications.panicNext = true

	now := time.Now().UTC()
	first := testutil.CreateTestSubscription(testutil.WithNextRunAt(now.Add(-5 * time.Minute)))
	second := testutil.CreateTestSubscription(
		func(s *models.Subscription) { s.WorkspaceID = "workspace-2" },
		testutil.WithNextRunAt(now.Add(-10*time.Minute)))

	env.subscriptions.due = []*models.Subscription{first, second}

	require.NoError(t, driverForEnv(env).RunTick(t.Context(), now))

	// The panic stays contained inside the first pass.
	require.Len(t, env.subscriptions.saved, 2)
	require.NotNil(t, first.NextRunAt)
	assert.True(t, first.NextRunAt.After(now))
	require.NotNil(t, second.NextRunAt)
	assert.True(t, second.NextRunAt.After(now))
}

func driverForEnv(env *processorEnv) *Driver {
	return NewDriver("driver-test", env.subscriptions, env.processor, env.processor.logger)
}
