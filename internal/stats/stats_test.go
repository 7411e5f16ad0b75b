package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"amalTrackerAPI/internal/record"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(date time.Time, points, pages int, distance float64) record.DailyRecord {
	return record.DailyRecord{Date: date, Points: points, PagesRead: pages, DistanceKm: distance}
}

func TestWeekdayIndexIsMondayFirst(t *testing.T) {
	// 2026-01-05 is a Monday.
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayIndex(day(2026, time.January, 5+i)))
	}
}

func TestWeekStart(t *testing.T) {
	monday := day(2026, time.January, 5)
	for i := 0; i < 7; i++ {
		assert.Equal(t, monday, WeekStart(monday.AddDate(0, 0, i)))
	}
}

func TestDayPercent(t *testing.T) {
	assert.Equal(t, 0, DayPercent(0))
	assert.Equal(t, 0, DayPercent(-1))
	assert.Equal(t, 70, DayPercent(7))
	assert.Equal(t, 100, DayPercent(10))
}

func TestBuildTodayMissingRecordIsZero(t *testing.T) {
	asOf := day(2026, time.January, 7)
	records := []record.DailyRecord{rec(day(2026, time.January, 6), 8, 20, 1.0)}

	today := BuildToday(records, asOf)
	assert.Equal(t, TodayStats{}, today)
}

func TestBuildTodayProjectsCurrentDay(t *testing.T) {
	asOf := day(2026, time.January, 7)
	records := []record.DailyRecord{rec(asOf, 7, 15, 2.5)}

	today := BuildToday(records, asOf)
	assert.Equal(t, 7, today.Completed)
	assert.Equal(t, 15, today.PagesRead)
	assert.Equal(t, 2.5, today.DistanceKm)
	assert.Equal(t, 70, today.Percentage)
}

func TestBuildWeeklyMarksFutureDays(t *testing.T) {
	// Wednesday: Thursday through Sunday have not happened yet.
	asOf := day(2026, time.January, 7)

	weekly := BuildWeekly(nil, asOf)
	assert.Equal(t, [7]int{0, 0, 0, FutureDay, FutureDay, FutureDay, FutureDay}, weekly.DailyPoints)
	assert.Equal(t, 0, weekly.Percentage)
}

func TestBuildWeeklyAveragesElapsedDays(t *testing.T) {
	asOf := day(2026, time.January, 7) // Wednesday
	records := []record.DailyRecord{
		rec(day(2026, time.January, 5), 10, 30, 3.0), // Monday, 100%
		rec(day(2026, time.January, 6), 7, 0, 0),     // Tuesday, 70%
		// Wednesday has no record and counts as 0%.
	}

	weekly := BuildWeekly(records, asOf)
	assert.Equal(t, [7]int{10, 7, 0, FutureDay, FutureDay, FutureDay, FutureDay}, weekly.DailyPoints)
	assert.Equal(t, 17, weekly.Points)
	assert.Equal(t, 30, weekly.PagesRead)
	assert.Equal(t, 3.0, weekly.DistanceKm)
	// (100 + 70 + 0) / 3 = 56.67, rounded half-up.
	assert.Equal(t, 57, weekly.Percentage)
}

func TestBuildWeeklyRoundsHalfUp(t *testing.T) {
	asOf := day(2026, time.January, 8) // Thursday
	records := []record.DailyRecord{
		rec(day(2026, time.January, 5), 10, 0, 0),
		rec(day(2026, time.January, 6), 10, 0, 0),
		rec(day(2026, time.January, 7), 1, 0, 0),
	}

	weekly := BuildWeekly(records, asOf)
	// (100 + 100 + 10 + 0) / 4 = 52.5 rounds to 53, not 52.
	assert.Equal(t, 53, weekly.Percentage)
}

func TestBuildWeeklyIgnoresOtherWeeks(t *testing.T) {
	asOf := day(2026, time.January, 7)
	records := []record.DailyRecord{
		rec(day(2025, time.December, 29), 10, 50, 5.0), // previous week
		rec(day(2026, time.January, 12), 10, 50, 5.0),  // next week
	}

	weekly := BuildWeekly(records, asOf)
	assert.Equal(t, 0, weekly.Points)
	assert.Equal(t, 0, weekly.PagesRead)
}

func TestBuildAllTimeCountsActiveDaysOnly(t *testing.T) {
	records := []record.DailyRecord{
		rec(day(2026, time.January, 1), 5, 10, 1.0),
		rec(day(2026, time.January, 2), 0, 0, 0), // stored but empty day
		rec(day(2026, time.January, 3), 10, 20, 2.0),
	}

	all := BuildAllTime(records)
	assert.Equal(t, 15, all.TotalPoints)
	assert.Equal(t, 30, all.TotalPages)
	assert.Equal(t, 3.0, all.TotalDistance)
	assert.Equal(t, 2, all.TotalDays)
}

func TestBuildAggregateEmptyHistory(t *testing.T) {
	agg := BuildAggregate(nil, day(2026, time.January, 5))
	assert.Equal(t, TodayStats{}, agg.Today)
	assert.Equal(t, AllTimeStats{}, agg.AllTime)
	assert.Equal(t, 0, agg.Weekly.Percentage)
}
