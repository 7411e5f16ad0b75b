package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amalTrackerAPI/internal/checklist"
	"amalTrackerAPI/internal/record"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func perfectRec(date time.Time) record.DailyRecord {
	r := record.DailyRecord{Date: date, Points: checklist.TaskCount}
	for i := range r.Completion {
		r.Completion[i] = true
	}
	return r
}

func earlyRiseRec(date time.Time) record.DailyRecord {
	r := record.DailyRecord{Date: date, Points: 1}
	r.Completion[checklist.EarlyRiseID-1] = true
	return r
}

func progressByID(t *testing.T, progress []Progress, id string) Progress {
	t.Helper()
	for _, p := range progress {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("badge %s not found", id)
	return Progress{}
}

func TestEvaluateEmptyHistory(t *testing.T) {
	progress := Evaluate(nil, day(2026, time.March, 1))
	require.Len(t, progress, 5)
	for _, p := range progress {
		assert.Equal(t, 0.0, p.Current, p.ID)
		assert.False(t, p.Unlocked, p.ID)
	}
}

func TestEarlyBirdUnlocksAtTwentyOneConsecutiveDays(t *testing.T) {
	var records []record.DailyRecord
	start := day(2026, time.January, 1)
	for i := 0; i < EarlyBirdTarget; i++ {
		records = append(records, earlyRiseRec(start.AddDate(0, 0, i)))
	}
	asOf := start.AddDate(0, 0, EarlyBirdTarget-1)

	p := progressByID(t, Evaluate(records, asOf), EarlyBird)
	assert.Equal(t, float64(EarlyBirdTarget), p.Current)
	assert.True(t, p.Unlocked)
}

func TestEarlyBirdStreakResetsOnGapButStaysUnlocked(t *testing.T) {
	var records []record.DailyRecord
	start := day(2026, time.January, 1)
	for i := 0; i < EarlyBirdTarget; i++ {
		records = append(records, earlyRiseRec(start.AddDate(0, 0, i)))
	}
	// One missed day, then two more qualifying days.
	records = append(records,
		earlyRiseRec(start.AddDate(0, 0, EarlyBirdTarget+1)),
		earlyRiseRec(start.AddDate(0, 0, EarlyBirdTarget+2)),
	)
	asOf := start.AddDate(0, 0, EarlyBirdTarget+2)

	p := progressByID(t, Evaluate(records, asOf), EarlyBird)
	assert.Equal(t, 2.0, p.Current)
	assert.True(t, p.Unlocked, "a badge once earned is never revoked")
}

func TestCurrentStreakToleratesOpenDay(t *testing.T) {
	// Ten qualifying days through yesterday; today has no record yet, so the
	// streak is still alive.
	var records []record.DailyRecord
	start := day(2026, time.February, 1)
	for i := 0; i < 10; i++ {
		records = append(records, earlyRiseRec(start.AddDate(0, 0, i)))
	}
	asOf := start.AddDate(0, 0, 10)

	streaks := ComputeStreaks(records, asOf)
	assert.Equal(t, 10, streaks.CurrentEarlyRise)
}

func TestCurrentStreakZeroWhenTodayFailsPredicate(t *testing.T) {
	var records []record.DailyRecord
	start := day(2026, time.February, 1)
	for i := 0; i < 10; i++ {
		records = append(records, earlyRiseRec(start.AddDate(0, 0, i)))
	}
	// A stored record for today without the early-rise flag decides the day.
	today := start.AddDate(0, 0, 10)
	records = append(records, record.DailyRecord{Date: today, Points: 3})

	streaks := ComputeStreaks(records, today)
	assert.Equal(t, 0, streaks.CurrentEarlyRise)
	assert.Equal(t, 10, streaks.LongestEarlyRise)
}

func TestPerfectionistRequiresFullDays(t *testing.T) {
	var records []record.DailyRecord
	start := day(2026, time.January, 1)
	for i := 0; i < PerfectionistTarget; i++ {
		records = append(records, perfectRec(start.AddDate(0, 0, i)))
	}
	asOf := start.AddDate(0, 0, PerfectionistTarget-1)

	p := progressByID(t, Evaluate(records, asOf), Perfectionist)
	assert.True(t, p.Unlocked)

	// A 9/10 day anywhere in the run breaks it.
	records[15].Points = 9
	p = progressByID(t, Evaluate(records, asOf), Perfectionist)
	assert.False(t, p.Unlocked)
	assert.Equal(t, float64(PerfectionistTarget-16), p.Current)
}

func TestThresholdBadges(t *testing.T) {
	records := []record.DailyRecord{
		{Date: day(2026, time.January, 1), Points: 2, PagesRead: 19990, DistanceKm: 99.5},
		{Date: day(2026, time.January, 3), Points: 1, PagesRead: 10, DistanceKm: 0.5},
	}
	asOf := day(2026, time.January, 3)

	progress := Evaluate(records, asOf)
	assert.True(t, progressByID(t, progress, Reader).Unlocked)
	assert.True(t, progressByID(t, progress, Athlete).Unlocked)

	consistent := progressByID(t, progress, Consistent)
	assert.Equal(t, 2.0, consistent.Current)
	assert.False(t, consistent.Unlocked)
}

func TestComputeStreaksUnsortedInput(t *testing.T) {
	records := []record.DailyRecord{
		earlyRiseRec(day(2026, time.January, 3)),
		earlyRiseRec(day(2026, time.January, 1)),
		earlyRiseRec(day(2026, time.January, 2)),
	}

	streaks := ComputeStreaks(records, day(2026, time.January, 3))
	assert.Equal(t, 3, streaks.CurrentEarlyRise)
	assert.Equal(t, 3, streaks.LongestEarlyRise)
}

func TestUnlockedFromCountersMatchesEvaluate(t *testing.T) {
	ids := UnlockedFromCounters(Totals{ActiveDays: 30, TotalPages: 20000, TotalDistance: 100}, 30, 21)
	assert.Equal(t, []string{Consistent, Reader, Athlete, Perfectionist, EarlyBird}, ids)

	ids = UnlockedFromCounters(Totals{ActiveDays: 29, TotalPages: 19999, TotalDistance: 99.9}, 29, 20)
	assert.Empty(t, ids)
}
