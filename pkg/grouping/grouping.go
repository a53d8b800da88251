// Package grouping partitions a subscription's activities into named groups
// before content synthesis.
package grouping

import (
	"fmt"
	"sort"
	"time"

	"github.com/daybookhq/daybook/pkg/models"
)

// UnclusteredKey is the reserved bucket for activities not claimed by any
// cluster under reference grouping.
const UnclusteredKey = "unclustered"

// Clusterer is the external clustering primitive: activities in, named
// clusters of activity ids out. It must be a pure function.
type Clusterer func(activities []models.Activity) []models.ActivityGroup

// Engine selects between the calendar-day and reference-cluster strategies.
type Engine struct {
	clusterer Clusterer
}

// NewEngine creates a grouping engine backed by the given clustering
// primitive.
func NewEngine(clusterer Clusterer) *Engine {
	return &Engine{clusterer: clusterer}
}

// Group partitions activities using the requested method. Both strategies
// return an ordered list of groups; activities keep their original fetch
// order within a group.
func (e *Engine) Group(method models.GroupingMethod, activities []models.Activity) ([]models.ActivityGroup, error) {
	switch method {
	case models.GroupingNone:
		return nil, nil
	case models.GroupingCalendarDay:
		return byCalendarDay(activities), nil
	case models.GroupingReferenceCluster:
		return e.byReferenceCluster(activities), nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidGroupingMethod, method)
	}
}

// byCalendarDay partitions activities by the UTC calendar date of their
// timestamp, one group per distinct date, in date order.
func byCalendarDay(activities []models.Activity) []models.ActivityGroup {
	buckets := make(map[string][]string)

	for _, activity := range activities {
		date := activity.Timestamp.UTC().Format(time.DateOnly)
		buckets[date] = append(buckets[date], activity.ID)
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}

	sort.Strings(dates)

	groups := make([]models.ActivityGroup, 0, len(dates))
	for _, date := range dates {
		groups = append(groups, models.ActivityGroup{Key: date, ActivityIDs: buckets[date]})
	}

	return groups
}

// byReferenceCluster delegates to the clustering primitive and appends every
// unclaimed activity as its own singleton group under the unclustered bucket.
func (e *Engine) byReferenceCluster(activities []models.Activity) []models.ActivityGroup {
	var groups []models.ActivityGroup

	claimed := make(map[string]bool)

	if e.clusterer != nil {
		for _, cluster := range e.clusterer(activities) {
			if len(cluster.ActivityIDs) == 0 {
				continue
			}

			groups = append(groups, cluster)

			for _, id := range cluster.ActivityIDs {
				claimed[id] = true
			}
		}
	}

	for _, activity := range activities {
		if claimed[activity.ID] {
			continue
		}

		groups = append(groups, models.ActivityGroup{
			Key:         UnclusteredKey,
			ActivityIDs: []string{activity.ID},
		})
	}

	return groups
}
