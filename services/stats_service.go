package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"amalTrackerAPI/internal/record"
	"amalTrackerAPI/internal/stats"
)

// CalendarDay is one cell of the monthly grid.
type CalendarDay struct {
	Date       string `json:"date"`
	Points     int    `json:"points"`
	Percentage int    `json:"percentage"`
	IsToday    bool   `json:"is_today"`
}

// CalendarResponse is the month view of a user's activity.
type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}

// StatisticsResponse is AggregateStats plus an optional month calendar when
// the query carries year and month.
type StatisticsResponse struct {
	stats.AggregateStats
	Calendar *CalendarResponse `json:"calendar,omitempty"`
}

type StatsService struct {
	db *pgxpool.Pool
}

func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// GetStatistics reduces a user's history into today/weekly/all-time views.
// An unknown user gets a zero-valued aggregate rather than an error so the
// client can always render. Today is resolved in the user's stored timezone
// unless the request overrides it.
func (s *StatsService) GetStatistics(ctx context.Context, tgID int64, timezone string, year, month int) (*StatisticsResponse, error) {
	resp := &StatisticsResponse{}

	userID, err := resolveUserID(ctx, s.db, tgID)
	if errors.Is(err, ErrNotFound) {
		resp.AggregateStats = stats.BuildAggregate(nil, record.LocalToday(time.Now(), timezone))
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	if timezone == "" {
		if err := s.db.QueryRow(ctx, `SELECT timezone FROM users WHERE id = $1`, userID).Scan(&timezone); err != nil {
			return nil, fmt.Errorf("failed to fetch user timezone: %w", err)
		}
	}

	records, err := fetchUserRecords(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	asOf := record.LocalToday(time.Now(), timezone)
	resp.AggregateStats = stats.BuildAggregate(records, asOf)

	if year > 0 && month >= 1 && month <= 12 {
		resp.Calendar = buildCalendar(records, year, month, asOf)
	}

	return resp, nil
}

// GetCalendar returns the month grid on its own.
func (s *StatsService) GetCalendar(ctx context.Context, tgID int64, year, month int, timezone string) (*CalendarResponse, error) {
	asOf := record.LocalToday(time.Now(), timezone)

	userID, err := resolveUserID(ctx, s.db, tgID)
	if errors.Is(err, ErrNotFound) {
		return buildCalendar(nil, year, month, asOf), nil
	}
	if err != nil {
		return nil, err
	}

	records, err := fetchUserRecords(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	return buildCalendar(records, year, month, asOf), nil
}

func buildCalendar(records []record.DailyRecord, year, month int, asOf time.Time) *CalendarResponse {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	pointsByDay := make(map[string]int)
	for i := range records {
		pointsByDay[records[i].Day().Format(record.DateLayout)] = records[i].Points
	}

	var days []*CalendarDay
	today := asOf.Format(record.DateLayout)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(record.DateLayout)
		points := pointsByDay[dateStr]
		days = append(days, &CalendarDay{
			Date:       dateStr,
			Points:     points,
			Percentage: stats.DayPercent(points),
			IsToday:    dateStr == today,
		})
	}

	return &CalendarResponse{Year: year, Month: month, Days: days}
}
