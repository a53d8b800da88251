package grouping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybookhq/daybook/pkg/models"
)

func activity(id string, at time.Time, refs ...string) models.Activity {
	return models.Activity{
		ID:        id,
		UserID:    "user-1",
		Tool:      "github",
		Title:     "Activity " + id,
		Timestamp: at,
		CrossRefs: refs,
	}
}

func TestEngine_Group_NoneDisablesGrouping(t *testing.T) {
	engine := NewEngine(CrossRefClusterer)

	groups, err := engine.Group(models.GroupingNone, []models.Activity{
		activity("a-1", time.Now()),
	})

	require.NoError(t, err)
	assert.Nil(t, groups)
}

func TestEngine_Group_UnknownMethod(t *testing.T) {
	engine := NewEngine(CrossRefClusterer)

	_, err := engine.Group("bogus", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidGroupingMethod)
}

func TestEngine_Group_CalendarDayPartitionsByUTCDate(t *testing.T) {
	engine := NewEngine(nil)

	// 23:30 and 00:30 straddle a UTC date boundary.
	groups, err := engine.Group(models.GroupingCalendarDay, []models.Activity{
		activity("a-1", time.Date(2026, time.March, 2, 23, 30, 0, 0, time.UTC)),
		activity("a-2", time.Date(2026, time.March, 3, 0, 30, 0, 0, time.UTC)),
		activity("a-3", time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)),
	})

	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "2026-03-02", groups[0].Key)
	assert.Equal(t, []string{"a-1", "a-3"}, groups[0].ActivityIDs)

	assert.Equal(t, "2026-03-03", groups[1].Key)
	assert.Equal(t, []string{"a-2"}, groups[1].ActivityIDs)
}

func TestEngine_Group_ReferenceClusterSharedRef(t *testing.T) {
	engine := NewEngine(CrossRefClusterer)
	now := time.Now().UTC()

	groups, err := engine.Group(models.GroupingReferenceCluster, []models.Activity{
		activity("a-1", now, "#42"),
		activity("a-2", now, "#42"),
		activity("a-3", now),
	})

	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "#42", groups[0].Key)
	assert.Equal(t, []string{"a-1", "a-2"}, groups[0].ActivityIDs)

	assert.Equal(t, UnclusteredKey, groups[1].Key)
	assert.Equal(t, []string{"a-3"}, groups[1].ActivityIDs)
}

func TestEngine_Group_ReferenceClusterNilClusterer(t *testing.T) {
	engine := NewEngine(nil)
	now := time.Now().UTC()

	groups, err := engine.Group(models.GroupingReferenceCluster, []models.Activity{
		activity("a-1", now, "#42"),
		activity("a-2", now, "#42"),
	})

	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Without a clustering primitive everything lands in singleton buckets.
	for _, group := range groups {
		assert.Equal(t, UnclusteredKey, group.Key)
		assert.Len(t, group.ActivityIDs, 1)
	}
}

func TestCrossRefClusterer_SingleMentionIsNotACluster(t *testing.T) {
	now := time.Now().UTC()

	clusters := CrossRefClusterer([]models.Activity{
		activity("a-1", now, "#7"),
		activity("a-2", now, "!9"),
	})

	assert.Empty(t, clusters)
}

func TestCrossRefClusterer_ClusterOrderFollowsFirstMention(t *testing.T) {
	now := time.Now().UTC()

	clusters := CrossRefClusterer([]models.Activity{
		activity("a-1", now, "#1"),
		activity("a-2", now, "#2"),
		activity("a-3", now, "#2"),
		activity("a-4", now, "#1"),
	})

	require.Len(t, clusters, 2)
	assert.Equal(t, "#1", clusters[0].Key)
	assert.Equal(t, []string{"a-1", "a-4"}, clusters[0].ActivityIDs)
	assert.Equal(t, "#2", clusters[1].Key)
	assert.Equal(t, []string{"a-2", "a-3"}, clusters[1].ActivityIDs)
}
