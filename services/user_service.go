package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"amalTrackerAPI/internal/achievement"
	"amalTrackerAPI/internal/record"
	"amalTrackerAPI/internal/user"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

// GetByTgID fetches one user row.
func (s *UserService) GetByTgID(ctx context.Context, tgID int64) (*user.User, error) {
	query := `
	SELECT id, tg_id, name, photo_url, timezone, created_at, updated_at
	FROM users
	WHERE tg_id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, tgID).Scan(
		&u.ID,
		&u.TgID,
		&u.Name,
		&u.PhotoURL,
		&u.Timezone,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetProfile returns the user plus their currently unlocked badge ids.
func (s *UserService) GetProfile(ctx context.Context, tgID int64) (*user.Profile, error) {
	u, err := s.GetByTgID(ctx, tgID)
	if err != nil {
		return nil, err
	}

	records, err := fetchUserRecords(ctx, s.db, u.ID)
	if err != nil {
		return nil, err
	}

	asOf := record.LocalToday(time.Now(), u.Timezone)
	progress := achievement.Evaluate(records, asOf)

	return &user.Profile{
		User:         *u,
		Achievements: achievement.Unlocked(progress),
	}, nil
}
