package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybookhq/daybook/pkg/models"
)

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestNextRun_DailyBeforeGenerationTime(t *testing.T) {
	now := utc(2026, time.March, 2, 7, 0)

	next := NextRun(models.FrequencyDaily, nil, models.TimeOfDay{Hour: 8}, "UTC", now)

	assert.Equal(t, utc(2026, time.March, 2, 8, 0), next)
}

func TestNextRun_DailyAfterGenerationTime(t *testing.T) {
	now := utc(2026, time.March, 2, 9, 0)

	next := NextRun(models.FrequencyDaily, nil, models.TimeOfDay{Hour: 8}, "UTC", now)

	assert.Equal(t, utc(2026, time.March, 3, 8, 0), next)
}

func TestNextRun_StrictlyAfterNow(t *testing.T) {
	now := utc(2026, time.March, 2, 8, 0)

	next := NextRun(models.FrequencyDaily, nil, models.TimeOfDay{Hour: 8}, "UTC", now)

	assert.True(t, next.After(now), "result must be strictly after now")
	assert.Equal(t, utc(2026, time.March, 3, 8, 0), next)
}

func TestNextRun_Idempotent(t *testing.T) {
	now := utc(2026, time.March, 2, 6, 0)
	tod := models.TimeOfDay{Hour: 8}

	first := NextRun(models.FrequencyDaily, nil, tod, "UTC", now)

	// Recomputing at any instant up to the previous result returns the same
	// instant.
	for _, at := range []time.Time{now, now.Add(30 * time.Minute), first.Add(-time.Second)} {
		assert.Equal(t, first, NextRun(models.FrequencyDaily, nil, tod, "UTC", at))
	}
}

func TestNextRun_WeekdaysSkipsWeekend(t *testing.T) {
	// Friday evening, past the generation time.
	now := utc(2026, time.March, 6, 18, 0)
	require.Equal(t, time.Friday, now.Weekday())

	next := NextRun(models.FrequencyWeekdays, nil, models.TimeOfDay{Hour: 9}, "UTC", now)

	assert.Equal(t, utc(2026, time.March, 9, 9, 0), next)
	assert.Equal(t, time.Monday, next.Weekday())
}

func TestNextRun_CustomWeekdaySequence(t *testing.T) {
	weekdays := []time.Weekday{time.Monday, time.Wednesday}
	tod := models.TimeOfDay{Hour: 9}

	// Starting from a Tuesday the firings walk Wed, Mon, Wed with no repeats.
	now := utc(2026, time.March, 3, 10, 0)
	require.Equal(t, time.Tuesday, now.Weekday())

	first := NextRun(models.FrequencyCustom, weekdays, tod, "UTC", now)
	assert.Equal(t, utc(2026, time.March, 4, 9, 0), first)

	second := NextRun(models.FrequencyCustom, weekdays, tod, "UTC", first)
	assert.Equal(t, utc(2026, time.March, 9, 9, 0), second)

	third := NextRun(models.FrequencyCustom, weekdays, tod, "UTC", second)
	assert.Equal(t, utc(2026, time.March, 11, 9, 0), third)
}

func TestNextRun_AlternateDaysSameParityToday(t *testing.T) {
	now := utc(2026, time.March, 2, 6, 0)

	next := NextRun(models.FrequencyAlternateDays, nil, models.TimeOfDay{Hour: 7}, "UTC", now)

	assert.Equal(t, utc(2026, time.March, 2, 7, 0), next)
}

func TestNextRun_AlternateDaysSkipsMismatchedParity(t *testing.T) {
	// Past today's generation time; tomorrow has the wrong parity, so the
	// firing lands two days out.
	now := utc(2026, time.March, 2, 8, 0)

	next := NextRun(models.FrequencyAlternateDays, nil, models.TimeOfDay{Hour: 7}, "UTC", now)

	assert.Equal(t, utc(2026, time.March, 4, 7, 0), next)
}

func TestNextRun_FortnightlyWeekParity(t *testing.T) {
	// Thursday of ISO week 10; the next Wednesday falls in week 11, which has
	// the wrong parity, so the firing shifts a further week out.
	now := utc(2026, time.March, 5, 10, 0)
	require.Equal(t, time.Thursday, now.Weekday())

	next := NextRun(models.FrequencyFortnightly, []time.Weekday{time.Wednesday}, models.TimeOfDay{Hour: 9}, "UTC", now)

	assert.Equal(t, utc(2026, time.March, 18, 9, 0), next)
}

func TestNextRun_FortnightlyIdempotentWithinParityWeek(t *testing.T) {
	weekdays := []time.Weekday{time.Wednesday}
	tod := models.TimeOfDay{Hour: 9}

	// Thursday of ISO week 10.
	now := utc(2026, time.March, 5, 10, 0)

	first := NextRun(models.FrequencyFortnightly, weekdays, tod, "UTC", now)
	require.Equal(t, utc(2026, time.March, 18, 9, 0), first)

	// Recomputing anywhere in the rest of the same-parity week returns the
	// same instant.
	for _, at := range []time.Time{now, utc(2026, time.March, 6, 9, 0), utc(2026, time.March, 8, 23, 0)} {
		assert.Equal(t, first, NextRun(models.FrequencyFortnightly, weekdays, tod, "UTC", at))
	}

	// Parity anchors to the week of the recomputation instant, so a
	// recomputation during the intervening off week lands on that week's own
	// Wednesday instead.
	offWeek := utc(2026, time.March, 10, 8, 0)
	assert.Equal(t, utc(2026, time.March, 11, 9, 0),
		NextRun(models.FrequencyFortnightly, weekdays, tod, "UTC", offWeek))
}

func TestNextRun_MonthlyLaterSameMonth(t *testing.T) {
	// Friday past the generation time; the next Friday is later in the same
	// month and stands.
	now := utc(2026, time.March, 6, 10, 0)
	require.Equal(t, time.Friday, now.Weekday())

	next := NextRun(models.FrequencyMonthly, []time.Weekday{time.Friday}, models.TimeOfDay{Hour: 9}, "UTC", now)

	assert.Equal(t, utc(2026, time.March, 13, 9, 0), next)
}

func TestNextRun_MonthlyJumpsToNextMonth(t *testing.T) {
	// The candidate falls on now's own day-of-month, so this month counts as
	// consumed and the firing jumps to the first matching weekday of April.
	now := utc(2026, time.March, 6, 8, 0)
	require.Equal(t, time.Friday, now.Weekday())

	next := NextRun(models.FrequencyMonthly, []time.Weekday{time.Friday}, models.TimeOfDay{Hour: 9}, "UTC", now)

	assert.Equal(t, utc(2026, time.April, 3, 9, 0), next)
}

func TestNextRun_TimezoneOffset(t *testing.T) {
	// 08:00 in Sao Paulo (UTC-3, no DST) is 11:00 UTC.
	now := utc(2026, time.March, 2, 10, 0)

	next := NextRun(models.FrequencyDaily, nil, models.TimeOfDay{Hour: 8}, "America/Sao_Paulo", now)

	assert.Equal(t, utc(2026, time.March, 2, 11, 0), next)
}

func TestNextRun_EmptyWeekdaySetAppliesNoFilter(t *testing.T) {
	// Stored records that predate the validation check degrade to daily
	// behavior instead of looping.
	now := utc(2026, time.March, 2, 6, 0)

	next := NextRun(models.FrequencyWeekly, nil, models.TimeOfDay{Hour: 8}, "UTC", now)

	assert.Equal(t, utc(2026, time.March, 2, 8, 0), next)
}

func TestNextRunFor_UsesSubscriptionFields(t *testing.T) {
	sub := &models.Subscription{
		Frequency: models.FrequencyDaily,
		TimeOfDay: models.TimeOfDay{Hour: 8},
		Timezone:  "UTC",
	}

	now := utc(2026, time.March, 2, 7, 0)

	assert.Equal(t, utc(2026, time.March, 2, 8, 0), NextRunFor(sub, now))
}

func TestLocation_LoadsZoneNames(t *testing.T) {
	loc := Location("Europe/Berlin")
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLocation_EmptyAndUnknownFallBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Location(""))
	assert.Equal(t, time.UTC, Location("Not/AZone"))
}

func TestLocation_FixedOffsetFallback(t *testing.T) {
	at := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

	_, offset := at.In(Location("UTC+5")).Zone()
	assert.Equal(t, 5*3600, offset)

	_, offset = at.In(Location("UTC-3:30")).Zone()
	assert.Equal(t, -(3*3600 + 30*60), offset)

	// Out-of-range offsets clamp to twelve hours.
	_, offset = at.In(Location("UTC+14")).Zone()
	assert.Equal(t, 12*3600, offset)
}
