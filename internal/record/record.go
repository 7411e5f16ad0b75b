package record

import (
	"time"

	"github.com/google/uuid"

	"amalTrackerAPI/internal/checklist"
)

// DateLayout is the wire and storage format for calendar days.
const DateLayout = "2006-01-02"

// DailyRecord is one user's checklist submission for one calendar day.
type DailyRecord struct {
	ID         uuid.UUID                 `json:"id" db:"id"`
	UserID     uuid.UUID                 `json:"user_id" db:"user_id"`
	Date       time.Time                 `json:"date" db:"date"`
	Completion [checklist.TaskCount]bool `json:"completion" db:"completion"`
	Points     int                       `json:"points" db:"points"`
	PagesRead  int                       `json:"pages_read" db:"pages_read"`
	DistanceKm float64                   `json:"distance_km" db:"distance_km"`
	LoggedAt   time.Time                 `json:"logged_at" db:"logged_at"`
}

// Day returns the record's calendar day truncated to midnight UTC, which is
// how dates round-trip through the DATE column.
func (r *DailyRecord) Day() time.Time {
	return Midnight(r.Date)
}

// Midnight truncates t to its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// LocalToday resolves the current calendar day in the given IANA timezone,
// falling back to UTC for unknown or empty names.
func LocalToday(now time.Time, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
