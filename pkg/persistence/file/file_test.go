package file

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybookhq/daybook/pkg/models"
	"github.com/daybookhq/daybook/pkg/persistence"
	"github.com/daybookhq/daybook/pkg/testutil"
)

func newTestPersistence(t *testing.T) *Persistence {
	t.Helper()

	p, err := NewPersistence(t.TempDir())
	require.NoError(t, err)

	return p
}

func TestSaveAndGetSubscription(t *testing.T) {
	p := newTestPersistence(t)
	sub := testutil.CreateTestSubscription()

	require.NoError(t, p.SaveSubscription(t.Context(), sub))

	loaded, err := p.SubscriptionByID(t.Context(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, loaded.ID)
	assert.Equal(t, sub.UserID, loaded.UserID)
	assert.Equal(t, sub.Frequency, loaded.Frequency)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestSubscriptionByID_NotFound(t *testing.T) {
	p := newTestPersistence(t)

	_, err := p.SubscriptionByID(t.Context(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrSubscriptionNotFound)
}

func TestSaveSubscription_OnePerUserWorkspace(t *testing.T) {
	p := newTestPersistence(t)

	first := testutil.CreateTestSubscription()
	require.NoError(t, p.SaveSubscription(t.Context(), first))

	// Same (user, workspace) under a different id is rejected.
	second := testutil.CreateTestSubscription()
	err := p.SaveSubscription(t.Context(), second)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrSubscriptionExists)

	// Re-saving the same record is an update, not a conflict.
	first.FocusPrompt = "updated"
	assert.NoError(t, p.SaveSubscription(t.Context(), first))
}

func TestSubscriptionByUserWorkspace(t *testing.T) {
	p := newTestPersistence(t)
	sub := testutil.CreateTestSubscription()
	require.NoError(t, p.SaveSubscription(t.Context(), sub))

	loaded, err := p.SubscriptionByUserWorkspace(t.Context(), sub.UserID, sub.WorkspaceID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, loaded.ID)

	_, err = p.SubscriptionByUserWorkspace(t.Context(), "other", sub.WorkspaceID)
	assert.ErrorIs(t, err, persistence.ErrSubscriptionNotFound)
}

func TestDeleteSubscription(t *testing.T) {
	p := newTestPersistence(t)
	sub := testutil.CreateTestSubscription()
	require.NoError(t, p.SaveSubscription(t.Context(), sub))

	require.NoError(t, p.DeleteSubscription(t.Context(), sub.ID))

	_, err := p.SubscriptionByID(t.Context(), sub.ID)
	assert.ErrorIs(t, err, persistence.ErrSubscriptionNotFound)

	err = p.DeleteSubscription(t.Context(), sub.ID)
	assert.ErrorIs(t, err, persistence.ErrSubscriptionNotFound)
}

func TestDueSubscriptions_WindowBounds(t *testing.T) {
	p := newTestPersistence(t)
	now := time.Now().UTC()

	inWindow := testutil.CreateTestSubscription(
		testutil.WithNextRunAt(now.Add(-10 * time.Minute)))
	require.NoError(t, p.SaveSubscription(t.Context(), inWindow))

	behindWindow := testutil.CreateTestSubscription(
		func(s *models.Subscription) { s.UserID = "user-2" },
		testutil.WithNextRunAt(now.Add(-persistence.DueWindow-10*time.Minute)))
	require.NoError(t, p.SaveSubscription(t.Context(), behindWindow))

	notYetDue := testutil.CreateTestSubscription(
		func(s *models.Subscription) { s.UserID = "user-3" },
		testutil.WithNextRunAt(now.Add(10*time.Minute)))
	require.NoError(t, p.SaveSubscription(t.Context(), notYetDue))

	inactive := testutil.CreateTestSubscription(
		func(s *models.Subscription) {
			s.UserID = "user-4"
			s.Active = false
		},
		testutil.WithNextRunAt(now.Add(-10*time.Minute)))
	require.NoError(t, p.SaveSubscription(t.Context(), inactive))

	due, err := p.DueSubscriptions(t.Context(), now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, inWindow.ID, due[0].ID)

	stale, err := p.StaleSubscriptions(t.Context(), now)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, behindWindow.ID, stale[0].ID)
}

func TestDueSubscriptions_ExactBoundaries(t *testing.T) {
	p := newTestPersistence(t)
	now := time.Now().UTC().Truncate(time.Second)

	// Due exactly at now is selected; due exactly at the window floor is not.
	atNow := testutil.CreateTestSubscription(testutil.WithNextRunAt(now))
	require.NoError(t, p.SaveSubscription(t.Context(), atNow))

	atFloor := testutil.CreateTestSubscription(
		func(s *models.Subscription) { s.UserID = "user-2" },
		testutil.WithNextRunAt(now.Add(-persistence.DueWindow)))
	require.NoError(t, p.SaveSubscription(t.Context(), atFloor))

	due, err := p.DueSubscriptions(t.Context(), now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, atNow.ID, due[0].ID)

	stale, err := p.StaleSubscriptions(t.Context(), now)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, atFloor.ID, stale[0].ID)
}

func TestActivitiesSince(t *testing.T) {
	p := newTestPersistence(t)
	now := time.Now().UTC()

	older := testutil.CreateTestActivity(testutil.WithTimestamp(now.Add(-2 * time.Hour)))
	newer := testutil.CreateTestActivity(testutil.WithTimestamp(now.Add(-1 * time.Hour)))
	tooOld := testutil.CreateTestActivity(testutil.WithTimestamp(now.Add(-48 * time.Hour)))
	otherTool := testutil.CreateTestActivity(
		testutil.WithTool("jira"),
		testutil.WithTimestamp(now.Add(-1*time.Hour)))

	for _, activity := range []*models.Activity{older, newer, tooOld, otherTool} {
		require.NoError(t, p.SaveActivity(t.Context(), activity))
	}

	activities, err := p.ActivitiesSince(t.Context(), "user-1", "github", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, activities, 2)

	// Newest first.
	assert.Equal(t, newer.ID, activities[0].ID)
	assert.Equal(t, older.ID, activities[1].ID)
}

func TestCreateEntry_RejectsDuplicate(t *testing.T) {
	p := newTestPersistence(t)

	entry := models.NewJournalEntry("user-1", "workspace-1")
	entry.Title = "Work Summary: March 2, 2026"

	require.NoError(t, p.CreateEntry(t.Context(), entry))

	err := p.CreateEntry(t.Context(), entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrEntryExists)
}

func TestCreateNotification(t *testing.T) {
	p := newTestPersistence(t)

	notification := models.NewNotification("user-1", models.NotificationEntryReady, "Ready", "Your draft is ready")

	assert.NoError(t, p.CreateNotification(t.Context(), notification))
}

func TestHealthCheck(t *testing.T) {
	p := newTestPersistence(t)

	assert.NoError(t, p.HealthCheck(t.Context()))
	assert.NoError(t, p.Close(t.Context()))
}
