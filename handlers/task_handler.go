package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"amalTrackerAPI/internal/checklist"
	"amalTrackerAPI/internal/record"
	"amalTrackerAPI/middleware"
	"amalTrackerAPI/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// Submit handles POST /tasks/submit. Validation failures come back as 400
// and never touch stored state.
func (h *TaskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req services.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TgID == 0 {
		respondWithError(w, http.StatusBadRequest, "tg_id is required")
		return
	}

	result, err := h.taskService.SubmitDaily(ctx, &req)
	if err != nil {
		var verr *checklist.ValidationError
		if errors.As(err, &verr) {
			middleware.CountSubmission("invalid")
			respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   verr,
			})
			return
		}
		middleware.CountSubmission("error")
		log.Error().Err(err).Int64("tg_id", req.TgID).Msg("daily submit failed")
		respondWithError(w, http.StatusInternalServerError, "Failed to store submission")
		return
	}

	middleware.CountSubmission("saved")
	respondWithJSON(w, http.StatusOK, result)
}

// GetTasks handles GET /tasks — the fixed menu the client renders.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tasks":   checklist.Tasks(),
	})
}

// GetDailyProgress handles GET /tasks/progress/{id}/{date}.
func (h *TaskHandler) GetDailyProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tgID, ok := pathTgID(w, r)
	if !ok {
		return
	}

	date := time.Now().UTC()
	if raw := mux.Vars(r)["date"]; raw != "" {
		parsed, err := time.Parse(record.DateLayout, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	progress, err := h.taskService.GetDailyProgress(ctx, tgID, date)
	if err != nil {
		log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to fetch daily progress")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch progress")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

// GetHistory handles GET /tasks/history/{id}?days=N.
func (h *TaskHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tgID, ok := pathTgID(w, r)
	if !ok {
		return
	}

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		if parsed > 365 {
			parsed = 365
		}
		days = parsed
	}

	history, err := h.taskService.GetHistory(ctx, tgID, days)
	if err != nil {
		log.Error().Err(err).Int64("tg_id", tgID).Msg("failed to fetch history")
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"days":    days,
		"history": history,
	})
}

// pathTgID parses the {id} path variable shared by the per-user routes.
func pathTgID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	tgID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || tgID == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return 0, false
	}
	return tgID, true
}
