package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"amalTrackerAPI/internal/achievement"
	"amalTrackerAPI/internal/cache"
	"amalTrackerAPI/internal/leaderboard"
)

const leaderboardCachePrefix = "leaderboard:v1:"

type LeaderboardService struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewLeaderboardService(db *pgxpool.Pool, c *cache.Cache) *LeaderboardService {
	return &LeaderboardService{db: db, cache: c}
}

// participant is one user's aggregate row before ranking.
type participant struct {
	tgID             int64
	name             string
	photoURL         *string
	dailyPoints      int
	dailyPages       int
	dailyDistance    float64
	weeklyPoints     int
	weeklyPages      int
	weeklyDistance   float64
	totalPoints      int
	totalPages       int
	totalDistance    float64
	totalDays        int
	longestPerfect   int
	longestEarlyRise int
}

func (p *participant) score(period leaderboard.Period, metric leaderboard.Metric) float64 {
	switch metric {
	case leaderboard.MetricReading:
		switch period {
		case leaderboard.PeriodDaily:
			return float64(p.dailyPages)
		case leaderboard.PeriodWeekly:
			return float64(p.weeklyPages)
		default:
			return float64(p.totalPages)
		}
	case leaderboard.MetricDistance:
		switch period {
		case leaderboard.PeriodDaily:
			return p.dailyDistance
		case leaderboard.PeriodWeekly:
			return p.weeklyDistance
		default:
			return p.totalDistance
		}
	default:
		switch period {
		case leaderboard.PeriodDaily:
			return float64(p.dailyPoints)
		case leaderboard.PeriodWeekly:
			return float64(p.weeklyPoints)
		default:
			return float64(p.totalPoints)
		}
	}
}

// GetLeaderboard returns the ranked slice for one (period, metric) query.
// When the requesting user is known but outside the returned slice, their own
// entry rides along as current_user. Results are served from the cache when a
// slice younger than the TTL exists.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, period leaderboard.Period, metric leaderboard.Metric, limit int, tgID *int64) (*leaderboard.Leaderboard, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	requester := int64(0)
	if tgID != nil {
		requester = *tgID
	}
	cacheKey := fmt.Sprintf("%s%s:%s:%d:%d", leaderboardCachePrefix, period, metric, limit, requester)

	if raw, err := s.cache.Get(ctx, cacheKey); err == nil {
		cached := &leaderboard.Leaderboard{}
		if err := json.Unmarshal(raw, cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Msg("leaderboard cache read failed")
	}

	ranked, err := s.loadRanked(ctx, period, metric)
	if err != nil {
		return nil, err
	}

	board := &leaderboard.Leaderboard{
		Success:           true,
		Period:            period,
		Type:              metric,
		TotalParticipants: len(ranked),
		Entries:           ranked,
	}
	if len(ranked) > limit {
		board.Entries = ranked[:limit]
	}

	if tgID != nil {
		for i := range ranked {
			if ranked[i].TgID == *tgID {
				entry := ranked[i]
				board.CurrentUser = &entry
				break
			}
		}
	}

	if raw, err := json.Marshal(board); err == nil {
		if err := s.cache.Set(ctx, cacheKey, raw); err != nil {
			log.Warn().Err(err).Msg("leaderboard cache write failed")
		}
	}

	return board, nil
}

// GetUserRank returns a single user's entry without the surrounding slice.
func (s *LeaderboardService) GetUserRank(ctx context.Context, tgID int64, period leaderboard.Period, metric leaderboard.Metric) (*leaderboard.Entry, error) {
	ranked, err := s.loadRanked(ctx, period, metric)
	if err != nil {
		return nil, err
	}
	for i := range ranked {
		if ranked[i].TgID == tgID {
			entry := ranked[i]
			return &entry, nil
		}
	}
	return nil, ErrNotFound
}

// loadRanked aggregates every participant in SQL and ranks them in memory.
// The longest-streak CTEs use the date minus row-number grouping trick so a
// run of consecutive qualifying days collapses to one group per user.
func (s *LeaderboardService) loadRanked(ctx context.Context, period leaderboard.Period, metric leaderboard.Metric) ([]leaderboard.Entry, error) {
	query := `
	WITH perfect_streaks AS (
		SELECT user_id, MAX(cnt) AS longest
		FROM (
			SELECT user_id, COUNT(*) AS cnt
			FROM (
				SELECT user_id, date,
					date - (ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY date))::int AS grp
				FROM daily_records
				WHERE points = 10
			) runs
			GROUP BY user_id, grp
		) lengths
		GROUP BY user_id
	),
	early_streaks AS (
		SELECT user_id, MAX(cnt) AS longest
		FROM (
			SELECT user_id, COUNT(*) AS cnt
			FROM (
				SELECT user_id, date,
					date - (ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY date))::int AS grp
				FROM daily_records
				WHERE completion[9]
			) runs
			GROUP BY user_id, grp
		) lengths
		GROUP BY user_id
	),
	sums AS (
		SELECT
			u.id,
			u.tg_id,
			u.name,
			u.photo_url,
			COALESCE(SUM(r.points) FILTER (WHERE r.date = CURRENT_DATE), 0) AS daily_points,
			COALESCE(SUM(r.pages_read) FILTER (WHERE r.date = CURRENT_DATE), 0) AS daily_pages,
			COALESCE(SUM(r.distance_km) FILTER (WHERE r.date = CURRENT_DATE), 0) AS daily_distance,
			COALESCE(SUM(r.points) FILTER (WHERE r.date >= DATE_TRUNC('week', CURRENT_DATE)), 0) AS weekly_points,
			COALESCE(SUM(r.pages_read) FILTER (WHERE r.date >= DATE_TRUNC('week', CURRENT_DATE)), 0) AS weekly_pages,
			COALESCE(SUM(r.distance_km) FILTER (WHERE r.date >= DATE_TRUNC('week', CURRENT_DATE)), 0) AS weekly_distance,
			COALESCE(SUM(r.points), 0) AS total_points,
			COALESCE(SUM(r.pages_read), 0) AS total_pages,
			COALESCE(SUM(r.distance_km), 0) AS total_distance,
			COUNT(DISTINCT r.date) FILTER (WHERE r.points > 0) AS total_days
		FROM users u
		LEFT JOIN daily_records r ON r.user_id = u.id
		GROUP BY u.id
	)
	SELECT
		s.tg_id, s.name, s.photo_url,
		s.daily_points, s.daily_pages, s.daily_distance,
		s.weekly_points, s.weekly_pages, s.weekly_distance,
		s.total_points, s.total_pages, s.total_distance, s.total_days,
		COALESCE(ps.longest, 0), COALESCE(es.longest, 0)
	FROM sums s
	LEFT JOIN perfect_streaks ps ON ps.user_id = s.id
	LEFT JOIN early_streaks es ON es.user_id = s.id
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []leaderboard.Entry{}
	for rows.Next() {
		var p participant
		err := rows.Scan(
			&p.tgID, &p.name, &p.photoURL,
			&p.dailyPoints, &p.dailyPages, &p.dailyDistance,
			&p.weeklyPoints, &p.weeklyPages, &p.weeklyDistance,
			&p.totalPoints, &p.totalPages, &p.totalDistance, &p.totalDays,
			&p.longestPerfect, &p.longestEarlyRise,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}

		badges := achievement.UnlockedFromCounters(achievement.Totals{
			ActiveDays:    p.totalDays,
			TotalPages:    p.totalPages,
			TotalDistance: p.totalDistance,
		}, p.longestPerfect, p.longestEarlyRise)

		entries = append(entries, leaderboard.Entry{
			TgID:          p.tgID,
			Name:          p.name,
			PhotoURL:      p.photoURL,
			Score:         p.score(period, metric),
			TotalPoints:   p.totalPoints,
			TotalPages:    p.totalPages,
			TotalDistance: p.totalDistance,
			Achievements:  badges,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	leaderboard.Rank(entries)
	return entries, nil
}
