package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"amalTrackerAPI/internal/cache"
	"amalTrackerAPI/internal/checklist"
	"amalTrackerAPI/internal/record"
	"amalTrackerAPI/internal/stats"
)

// SubmitRequest is the daily checklist payload the mini app posts.
type SubmitRequest struct {
	TgID       int64   `json:"tg_id"`
	Name       string  `json:"name"`
	Shart1     int     `json:"shart_1"`
	Shart2     int     `json:"shart_2"`
	Shart3     int     `json:"shart_3"`
	Shart4     int     `json:"shart_4"`
	Shart5     int     `json:"shart_5"`
	Shart6     int     `json:"shart_6"`
	Shart7     int     `json:"shart_7"`
	Shart8     int     `json:"shart_8"`
	Shart9     int     `json:"shart_9"`
	Shart10    int     `json:"shart_10"`
	PagesRead  float64 `json:"pages_read"`
	DistanceKm float64 `json:"distance_km"`
	Timezone   string  `json:"timezone"`
}

func (r *SubmitRequest) completed() map[int]bool {
	flags := []int{r.Shart1, r.Shart2, r.Shart3, r.Shart4, r.Shart5, r.Shart6, r.Shart7, r.Shart8, r.Shart9, r.Shart10}
	completed := make(map[int]bool, len(flags))
	for i, f := range flags {
		completed[i+1] = f != 0
	}
	return completed
}

// SubmitResult is the submit response.
type SubmitResult struct {
	Success     bool   `json:"success"`
	TotalPoints int    `json:"totalPoints"`
	Percentage  int    `json:"percentage"`
	Message     string `json:"message"`
}

// DayProgress is one stored day in the shape the checklist screen rehydrates
// from.
type DayProgress struct {
	Date       string  `json:"date"`
	Completion []bool  `json:"completion"`
	Points     int     `json:"points"`
	PagesRead  int     `json:"pages_read"`
	DistanceKm float64 `json:"distance_km"`
	Percentage int     `json:"percentage"`
}

type TaskService struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewTaskService(db *pgxpool.Pool, c *cache.Cache) *TaskService {
	return &TaskService{db: db, cache: c}
}

// SubmitDaily validates the checklist and upserts the (user, date) record.
// Resubmitting the same day replaces the previous values, it never adds to
// them; the unique constraint on (user_id, date) serializes concurrent
// double-submits so replace semantics hold under retried requests too.
func (s *TaskService) SubmitDaily(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	cl, err := checklist.ValidateSubmission(req.completed(), req.PagesRead, req.DistanceKm)
	if err != nil {
		return nil, err
	}

	date := record.LocalToday(time.Now(), req.Timezone)

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("User %d", req.TgID)
	}

	userQuery := `
	INSERT INTO users (tg_id, name, timezone)
	VALUES ($1, $2, $3)
	ON CONFLICT (tg_id)
	DO UPDATE SET name = EXCLUDED.name, timezone = EXCLUDED.timezone, updated_at = NOW()
	RETURNING id
	`

	var userID string
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if err := s.db.QueryRow(ctx, userQuery, req.TgID, name, tz).Scan(&userID); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	recordQuery := `
	INSERT INTO daily_records (user_id, date, completion, points, pages_read, distance_km, logged_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	ON CONFLICT (user_id, date)
	DO UPDATE SET
		completion = $3,
		points = $4,
		pages_read = $5,
		distance_km = $6,
		logged_at = NOW()
	`

	points := cl.Points()
	_, err = s.db.Exec(ctx, recordQuery, userID, date, cl.Completion[:], points, cl.PagesRead, cl.DistanceKm)
	if err != nil {
		return nil, fmt.Errorf("failed to store daily record: %w", err)
	}

	if err := s.cache.InvalidatePrefix(ctx, leaderboardCachePrefix); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate leaderboard cache")
	}

	return &SubmitResult{
		Success:     true,
		TotalPoints: points,
		Percentage:  stats.DayPercent(points),
		Message:     fmt.Sprintf("%d/%d vazifa saqlandi", points, checklist.TaskCount),
	}, nil
}

// GetDailyProgress returns the stored checklist for one day, zero-valued when
// the user has not submitted that day.
func (s *TaskService) GetDailyProgress(ctx context.Context, tgID int64, date time.Time) (*DayProgress, error) {
	empty := &DayProgress{
		Date:       date.Format(record.DateLayout),
		Completion: make([]bool, checklist.TaskCount),
	}

	userID, err := resolveUserID(ctx, s.db, tgID)
	if errors.Is(err, ErrNotFound) {
		return empty, nil
	}
	if err != nil {
		return nil, err
	}

	query := `
	SELECT completion, points, pages_read, distance_km
	FROM daily_records
	WHERE user_id = $1 AND date = $2
	`

	var completion []bool
	progress := &DayProgress{Date: date.Format(record.DateLayout)}
	err = s.db.QueryRow(ctx, query, userID, record.Midnight(date)).Scan(
		&completion,
		&progress.Points,
		&progress.PagesRead,
		&progress.DistanceKm,
	)
	if err != nil {
		if isNoRows(err) {
			return empty, nil
		}
		return nil, fmt.Errorf("failed to fetch daily progress: %w", err)
	}

	progress.Completion = completion
	progress.Percentage = stats.DayPercent(progress.Points)
	return progress, nil
}

// GetHistory returns the last N days of records, newest first.
func (s *TaskService) GetHistory(ctx context.Context, tgID int64, days int) ([]*DayProgress, error) {
	userID, err := resolveUserID(ctx, s.db, tgID)
	if errors.Is(err, ErrNotFound) {
		return []*DayProgress{}, nil
	}
	if err != nil {
		return nil, err
	}

	query := `
	SELECT date, completion, points, pages_read, distance_km
	FROM daily_records
	WHERE user_id = $1 AND date >= CURRENT_DATE - $2::int
	ORDER BY date DESC
	`

	rows, err := s.db.Query(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	defer rows.Close()

	history := []*DayProgress{}
	for rows.Next() {
		var date time.Time
		p := &DayProgress{}
		if err := rows.Scan(&date, &p.Completion, &p.Points, &p.PagesRead, &p.DistanceKm); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		p.Date = date.Format(record.DateLayout)
		p.Percentage = stats.DayPercent(p.Points)
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return history, nil
}
