package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalTodayResolvesTimezone(t *testing.T) {
	// 21:00 UTC on Jan 1 is already Jan 2 in Tashkent (UTC+5).
	now := time.Date(2026, time.January, 1, 21, 0, 0, 0, time.UTC)

	assert.Equal(t,
		time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC),
		LocalToday(now, "Asia/Tashkent"))

	assert.Equal(t,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		LocalToday(now, "UTC"))
}

func TestLocalTodayFallsBackToUTC(t *testing.T) {
	now := time.Date(2026, time.January, 1, 21, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, want, LocalToday(now, ""))
	assert.Equal(t, want, LocalToday(now, "Not/AZone"))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, time.March, 5, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, time.March, 5, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(b, c))
}

func TestMidnight(t *testing.T) {
	in := time.Date(2026, time.March, 5, 17, 30, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), Midnight(in))
}
