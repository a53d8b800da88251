package grouping

import "github.com/daybookhq/daybook/pkg/models"

// CrossRefClusterer is the default clustering primitive: activities that
// share a cross-tool reference land in one cluster named after that
// reference. Clusters appear in order of the first activity that opened
// them.
//
// This is a deliberately simple stand-in for a smarter clustering service;
// the engine only requires the Clusterer contract.
func CrossRefClusterer(activities []models.Activity) []models.ActivityGroup {
	byRef := make(map[string][]string)

	var order []string

	for _, activity := range activities {
		for _, ref := range activity.CrossRefs {
			if ref == "" {
				continue
			}

			if _, seen := byRef[ref]; !seen {
				order = append(order, ref)
			}

			byRef[ref] = appendUnique(byRef[ref], activity.ID)
		}
	}

	var clusters []models.ActivityGroup

	for _, ref := range order {
		members := byRef[ref]
		if len(members) < 2 {
			// A reference mentioned by a single activity is not a cluster;
			// the activity falls through to the unclustered bucket.
			continue
		}

		clusters = append(clusters, models.ActivityGroup{Key: ref, ActivityIDs: members})
	}

	return clusters
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}

	return append(ids, id)
}
