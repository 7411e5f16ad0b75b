package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"amalTrackerAPI/internal/leaderboard"
	"amalTrackerAPI/services"
)

type UserHandler struct {
	userService        *services.UserService
	statsService       *services.StatsService
	achievementService *services.AchievementService
	leaderboardService *services.LeaderboardService
}

func NewUserHandler(
	userService *services.UserService,
	statsService *services.StatsService,
	achievementService *services.AchievementService,
	leaderboardService *services.LeaderboardService,
) *UserHandler {
	return &UserHandler{
		userService:        userService,
		statsService:       statsService,
		achievementService: achievementService,
		leaderboardService: leaderboardService,
	}
}

// GetProfile handles GET /users/{id}.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tgID, ok := pathTgID(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(ctx, tgID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to fetch profile")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// GetStatistics handles GET /users/{id}/statistics[?year=&month=&timezone=].
// Unknown users get zero-valued aggregates, never an error.
func (h *UserHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tgID, ok := pathTgID(w, r)
	if !ok {
		return
	}

	year, month := 0, 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, _ = strconv.Atoi(raw)
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, _ = strconv.Atoi(raw)
	}
	timezone := r.URL.Query().Get("timezone")

	statistics, err := h.statsService.GetStatistics(ctx, tgID, timezone, year, month)
	if err != nil {
		log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to compute statistics")
		respondWithError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	respondWithJSON(w, http.StatusOK, statistics)
}

// GetCalendar handles GET /users/{id}/calendar?year=&month=.
func (h *UserHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tgID, ok := pathTgID(w, r)
	if !ok {
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, _ = strconv.Atoi(raw)
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, _ = strconv.Atoi(raw)
	}
	if year < 2000 || month < 1 || month > 12 {
		respondWithError(w, http.StatusBadRequest, "Invalid year or month")
		return
	}

	calendar, err := h.statsService.GetCalendar(ctx, tgID, year, month, r.URL.Query().Get("timezone"))
	if err != nil {
		log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to build calendar")
		respondWithError(w, http.StatusInternalServerError, "Failed to build calendar")
		return
	}

	respondWithJSON(w, http.StatusOK, calendar)
}

// GetAchievementsProgress handles GET /users/{id}/achievements/progress.
func (h *UserHandler) GetAchievementsProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tgID, ok := pathTgID(w, r)
	if !ok {
		return
	}

	progress, err := h.achievementService.GetProgress(ctx, tgID, r.URL.Query().Get("timezone"))
	if err != nil {
		log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to evaluate achievements")
		respondWithError(w, http.StatusInternalServerError, "Failed to evaluate achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

// GetRank handles GET /users/{id}/rank?period=&metric=.
func (h *UserHandler) GetRank(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tgID, ok := pathTgID(w, r)
	if !ok {
		return
	}

	period, err := leaderboard.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	metric, err := leaderboard.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.leaderboardService.GetUserRank(ctx, tgID, period, metric)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "rank": 0})
			return
		}
		log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to compute rank")
		respondWithError(w, http.StatusInternalServerError, "Failed to compute rank")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"rank":    entry.Rank,
		"score":   entry.Score,
		"period":  period,
		"metric":  metric,
	})
}
