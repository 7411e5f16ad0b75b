package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"amalTrackerAPI/internal/leaderboard"
	"amalTrackerAPI/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard handles GET /leaderboard?period=&type=&limit=&tg_id=.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()

	period, err := leaderboard.ParsePeriod(q.Get("period"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	metric, err := leaderboard.ParseMetric(q.Get("type"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 100
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	var tgID *int64
	if raw := q.Get("tg_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid tg_id parameter")
			return
		}
		tgID = &parsed
	}

	board, err := h.leaderboardService.GetLeaderboard(ctx, period, metric, limit, tgID)
	if err != nil {
		log.Error().Err(err).Str("period", string(period)).Str("type", string(metric)).Msg("failed to build leaderboard")
		respondWithError(w, http.StatusInternalServerError, "Failed to build leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}
