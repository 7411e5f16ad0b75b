package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"amalTrackerAPI/internal/record"
)

// ErrNotFound is returned when a tg_id has never submitted anything.
var ErrNotFound = errors.New("user not found")

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func resolveUserID(ctx context.Context, db *pgxpool.Pool, tgID int64) (uuid.UUID, error) {
	var userID uuid.UUID
	err := db.QueryRow(ctx, `SELECT id FROM users WHERE tg_id = $1`, tgID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

func fetchUserRecords(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID) ([]record.DailyRecord, error) {
	query := `
	SELECT id, user_id, date, completion, points, pages_read, distance_km, logged_at
	FROM daily_records
	WHERE user_id = $1
	ORDER BY date
	`

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily records: %w", err)
	}
	defer rows.Close()

	var records []record.DailyRecord
	for rows.Next() {
		var rec record.DailyRecord
		var completion []bool
		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Date,
			&completion,
			&rec.Points,
			&rec.PagesRead,
			&rec.DistanceKm,
			&rec.LoggedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily record: %w", err)
		}
		copy(rec.Completion[:], completion)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily records: %w", err)
	}

	return records, nil
}
