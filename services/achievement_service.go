package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"amalTrackerAPI/internal/achievement"
	"amalTrackerAPI/internal/record"
)

type AchievementService struct {
	db *pgxpool.Pool
}

func NewAchievementService(db *pgxpool.Pool) *AchievementService {
	return &AchievementService{db: db}
}

// GetProgress recomputes every badge from the user's full history. Unknown
// users get the catalogue with zero progress so the client renders the same
// grid either way.
func (s *AchievementService) GetProgress(ctx context.Context, tgID int64, timezone string) ([]achievement.Progress, error) {
	asOf := record.LocalToday(time.Now(), timezone)

	userID, err := resolveUserID(ctx, s.db, tgID)
	if errors.Is(err, ErrNotFound) {
		return achievement.Evaluate(nil, asOf), nil
	}
	if err != nil {
		return nil, err
	}

	if timezone == "" {
		var tz string
		if err := s.db.QueryRow(ctx, `SELECT timezone FROM users WHERE id = $1`, userID).Scan(&tz); err == nil {
			asOf = record.LocalToday(time.Now(), tz)
		}
	}

	records, err := fetchUserRecords(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	return achievement.Evaluate(records, asOf), nil
}
