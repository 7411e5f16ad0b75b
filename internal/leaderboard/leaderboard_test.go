package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		raw  string
		want Period
	}{
		{"daily", PeriodDaily},
		{"weekly", PeriodWeekly},
		{"all_time", PeriodAllTime},
		{"all", PeriodAllTime},
		{"", PeriodAllTime},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParsePeriod("monthly")
	require.Error(t, err)
	var qerr *InvalidQueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "period", qerr.Param)
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		raw  string
		want Metric
	}{
		{"overall", MetricOverall},
		{"reading", MetricReading},
		{"distance", MetricDistance},
		{"", MetricOverall},
	}
	for _, tt := range tests {
		got, err := ParseMetric(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseMetric("points")
	var qerr *InvalidQueryError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, "type", qerr.Param)
}

func TestRankAssignsPositionalRanks(t *testing.T) {
	entries := []Entry{
		{TgID: 3, Score: 70},
		{TgID: 1, Score: 90},
		{TgID: 2, Score: 90},
	}

	Rank(entries)

	// Ties never share a rank; equal scores fall back to ascending tg_id.
	require.Len(t, entries, 3)
	assert.Equal(t, int64(1), entries[0].TgID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, int64(2), entries[1].TgID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, int64(3), entries[2].TgID)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestRankIsDeterministic(t *testing.T) {
	build := func() []Entry {
		return []Entry{
			{TgID: 9, Score: 10},
			{TgID: 4, Score: 55},
			{TgID: 7, Score: 55},
			{TgID: 1, Score: 55},
			{TgID: 2, Score: 100},
		}
	}

	a, b := build(), build()
	Rank(a)
	Rank(b)
	assert.Equal(t, a, b)

	for i := 1; i < len(a); i++ {
		assert.LessOrEqual(t, a[i].Score, a[i-1].Score)
		assert.Equal(t, i+1, a[i].Rank)
	}
}

func TestRankEmpty(t *testing.T) {
	entries := []Entry{}
	Rank(entries)
	assert.Empty(t, entries)
}
