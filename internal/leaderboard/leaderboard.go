package leaderboard

import (
	"fmt"
	"sort"
)

// Period is the time window a leaderboard query covers.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodAllTime Period = "all_time"
)

// Metric is the scalar a leaderboard query ranks by.
type Metric string

const (
	MetricOverall  Metric = "overall"
	MetricReading  Metric = "reading"
	MetricDistance Metric = "distance"
)

// InvalidQueryError rejects an unknown period or metric value.
type InvalidQueryError struct {
	Param string
	Value string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query parameter %s=%q", e.Param, e.Value)
}

// ParsePeriod accepts the canonical period names plus the client's legacy
// "all" alias. Empty defaults to all_time.
func ParsePeriod(raw string) (Period, error) {
	switch raw {
	case "daily":
		return PeriodDaily, nil
	case "weekly":
		return PeriodWeekly, nil
	case "all", "all_time", "":
		return PeriodAllTime, nil
	}
	return "", &InvalidQueryError{Param: "period", Value: raw}
}

// ParseMetric maps the query's type parameter to a metric.
func ParseMetric(raw string) (Metric, error) {
	switch raw {
	case "overall", "":
		return MetricOverall, nil
	case "reading":
		return MetricReading, nil
	case "distance":
		return MetricDistance, nil
	}
	return "", &InvalidQueryError{Param: "type", Value: raw}
}

// Entry is one participant's row in a ranked slice.
type Entry struct {
	Rank          int      `json:"rank"`
	TgID          int64    `json:"tg_id"`
	Name          string   `json:"name"`
	PhotoURL      *string  `json:"photo_url,omitempty"`
	Score         float64  `json:"score"`
	TotalPoints   int      `json:"total_points"`
	TotalPages    int      `json:"total_pages"`
	TotalDistance float64  `json:"total_distance"`
	Achievements  []string `json:"achievements"`
}

// Leaderboard is the full response for one (period, metric) query.
type Leaderboard struct {
	Success           bool    `json:"success"`
	Period            Period  `json:"period"`
	Type              Metric  `json:"type"`
	TotalParticipants int     `json:"total_participants"`
	Entries           []Entry `json:"leaderboard"`
	CurrentUser       *Entry  `json:"current_user,omitempty"`
}

// Rank orders entries by descending score with ascending tg_id as the
// deterministic tie break, then assigns positional 1-based ranks. Equal
// scores never share a rank, so repeated queries over identical inputs
// always reproduce the same ordering.
func Rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].TgID < entries[j].TgID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
