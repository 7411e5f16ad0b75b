package stats

import (
	"math"
	"time"

	"amalTrackerAPI/internal/checklist"
	"amalTrackerAPI/internal/record"
)

// FutureDay marks weekly slots that have not happened yet. Those slots carry
// no information and are excluded from the weekly percentage.
const FutureDay = -1

// TodayStats projects the current day's record, zero-valued when absent.
type TodayStats struct {
	Completed  int     `json:"completed"`
	PagesRead  int     `json:"pages_read"`
	DistanceKm float64 `json:"distance_km"`
	Percentage int     `json:"percentage"`
}

// WeeklyStats is the Monday-first view of the current week.
type WeeklyStats struct {
	DailyPoints [7]int  `json:"dailyPoints"`
	Points      int     `json:"points"`
	PagesRead   int     `json:"pages_read"`
	DistanceKm  float64 `json:"distance_km"`
	Percentage  int     `json:"percentage"`
}

// AllTimeStats are lifetime totals across every stored record.
type AllTimeStats struct {
	TotalPoints   int     `json:"total_points"`
	TotalPages    int     `json:"total_pages"`
	TotalDistance float64 `json:"total_distance"`
	TotalDays     int     `json:"total_days"`
}

// AggregateStats is the derived rollup served by the statistics endpoint.
type AggregateStats struct {
	Today   TodayStats   `json:"today"`
	Weekly  WeeklyStats  `json:"weekly"`
	AllTime AllTimeStats `json:"all_time"`
}

// RoundPercent converts a 0..1 ratio to a whole percentage, half-up.
func RoundPercent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

// DayPercent is a single day's completion percentage.
func DayPercent(points int) int {
	if points <= 0 {
		return 0
	}
	return RoundPercent(float64(points) / checklist.TaskCount)
}

// WeekdayIndex maps a date to its Monday-first slot, 0..6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	return record.Midnight(t).AddDate(0, 0, -WeekdayIndex(t))
}

// BuildToday projects the record for the given day, or a zero projection when
// the user has not submitted yet.
func BuildToday(records []record.DailyRecord, asOf time.Time) TodayStats {
	for i := range records {
		if record.SameDay(records[i].Date, asOf) {
			return TodayStats{
				Completed:  records[i].Points,
				PagesRead:  records[i].PagesRead,
				DistanceKm: records[i].DistanceKm,
				Percentage: DayPercent(records[i].Points),
			}
		}
	}
	return TodayStats{}
}

// BuildWeekly reduces the current week's records into the 7-slot view. Days
// without a record score 0, days after asOf carry the future sentinel. The
// weekly percentage is the mean of the elapsed days' percentages, not the sum
// of points over 70.
func BuildWeekly(records []record.DailyRecord, asOf time.Time) WeeklyStats {
	weekly := WeeklyStats{}
	start := WeekStart(asOf)
	end := start.AddDate(0, 0, 6)
	todayIdx := WeekdayIndex(asOf)

	for i := todayIdx + 1; i < 7; i++ {
		weekly.DailyPoints[i] = FutureDay
	}

	for i := range records {
		day := records[i].Day()
		if day.Before(start) || day.After(end) {
			continue
		}
		idx := WeekdayIndex(day)
		if idx > todayIdx {
			continue
		}
		weekly.DailyPoints[idx] = records[i].Points
		weekly.Points += records[i].Points
		weekly.PagesRead += records[i].PagesRead
		weekly.DistanceKm += records[i].DistanceKm
	}

	percentSum := 0
	for i := 0; i <= todayIdx; i++ {
		percentSum += DayPercent(weekly.DailyPoints[i])
	}
	weekly.Percentage = int(math.Round(float64(percentSum) / float64(todayIdx+1)))

	return weekly
}

// BuildAllTime sums every record; a day is active when at least one task was
// completed.
func BuildAllTime(records []record.DailyRecord) AllTimeStats {
	all := AllTimeStats{}
	for i := range records {
		all.TotalPoints += records[i].Points
		all.TotalPages += records[i].PagesRead
		all.TotalDistance += records[i].DistanceKm
		if records[i].Points > 0 {
			all.TotalDays++
		}
	}
	return all
}

// BuildAggregate reduces a user's full history into the three views.
func BuildAggregate(records []record.DailyRecord, asOf time.Time) AggregateStats {
	return AggregateStats{
		Today:   BuildToday(records, asOf),
		Weekly:  BuildWeekly(records, asOf),
		AllTime: BuildAllTime(records),
	}
}
