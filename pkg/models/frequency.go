package models

import "time"

// Frequency defines how often a subscription generates a draft journal entry.
type Frequency string

const (
	// FrequencyDaily generates an entry every day.
	FrequencyDaily Frequency = "daily"

	// FrequencyAlternateDays generates an entry every other day.
	FrequencyAlternateDays Frequency = "alternate_days"

	// FrequencyWeekdays generates an entry Monday through Friday.
	FrequencyWeekdays Frequency = "weekdays"

	// FrequencyWeekly generates an entry once per week on the selected weekdays.
	FrequencyWeekly Frequency = "weekly"

	// FrequencyFortnightly generates an entry every two weeks on the selected weekdays.
	FrequencyFortnightly Frequency = "fortnightly"

	// FrequencyMonthly generates an entry once per month on the first selected weekday.
	FrequencyMonthly Frequency = "monthly"

	// FrequencyCustom generates an entry on an arbitrary set of weekdays.
	FrequencyCustom Frequency = "custom"
)

// Frequencies lists every supported frequency value.
var Frequencies = []Frequency{
	FrequencyDaily,
	FrequencyAlternateDays,
	FrequencyWeekdays,
	FrequencyWeekly,
	FrequencyFortnightly,
	FrequencyMonthly,
	FrequencyCustom,
}

// IsValid reports whether f is a known frequency value.
func (f Frequency) IsValid() bool {
	for _, known := range Frequencies {
		if f == known {
			return true
		}
	}

	return false
}

// RequiresWeekdays reports whether the frequency needs a non-empty weekday
// selection to be schedulable. Subscriptions with these frequencies are
// rejected at create/update time when no weekday is selected.
func (f Frequency) RequiresWeekdays() bool {
	switch f {
	case FrequencyWeekly, FrequencyFortnightly, FrequencyMonthly, FrequencyCustom:
		return true
	default:
		return false
	}
}

// Lookback returns how far back activity is scanned for one processing pass.
// Coarser frequencies look back further so a generated entry covers the whole
// period since the previous firing.
func (f Frequency) Lookback() time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyAlternateDays:
		return 48 * time.Hour
	case FrequencyWeekdays:
		// Covers the weekend gap between Friday and Monday.
		return 72 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyFortnightly:
		return 14 * 24 * time.Hour
	case FrequencyMonthly:
		return 31 * 24 * time.Hour
	case FrequencyCustom:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// GroupingMethod selects how a subscription's activities are partitioned
// before content synthesis.
type GroupingMethod string

const (
	// GroupingNone disables grouping; the summary is a flat per-tool breakdown.
	GroupingNone GroupingMethod = ""

	// GroupingCalendarDay partitions activities by the UTC calendar date of
	// their timestamp.
	GroupingCalendarDay GroupingMethod = "calendar_day"

	// GroupingReferenceCluster groups activities that share cross-tool
	// references into named clusters.
	GroupingReferenceCluster GroupingMethod = "reference_cluster"
)

// IsValid reports whether g is a known grouping method.
func (g GroupingMethod) IsValid() bool {
	switch g {
	case GroupingNone, GroupingCalendarDay, GroupingReferenceCluster:
		return true
	default:
		return false
	}
}
