package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"schoolhub/backend/internal/models"
	"schoolhub/backend/internal/sports"

	"github.com/rs/zerolog/log"
)

type handler struct {
	deps Deps
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.deps.Checks))
	for name, c := range h.deps.Checks {
		if err := c.Health(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}

	respondJSON(w, status, map[string]interface{}{
		"status":    state,
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}

func (h *handler) schedule(w http.ResponseWriter, r *http.Request) {
	from, ok := h.day(w, r)
	if !ok {
		return
	}

	games, err := h.deps.Schedule.ListBetween(r.Context(), from, from.AddDate(0, 0, 1))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load schedule", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":  from.Format(dateLayout),
		"games": games,
		"count": len(games),
	})
}

func (h *handler) results(w http.ResponseWriter, r *http.Request) {
	from, ok := h.day(w, r)
	if !ok {
		return
	}

	results, err := h.deps.Results.ListBetween(r.Context(), from, from.AddDate(0, 0, 1))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load results", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    from.Format(dateLayout),
		"results": results,
		"count":   len(results),
	})
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	if h.deps.Refresh == nil {
		respondError(w, http.StatusServiceUnavailable, "sports refresh is not available", nil)
		return
	}

	if err := h.deps.Refresh(); err != nil {
		if errors.Is(err, sports.ErrRunInProgress) {
			respondError(w, http.StatusConflict, "a sports refresh is already running", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to start sports refresh", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

const dateLayout = "2006-01-02"

// day reads the ?date= parameter as a calendar day in the configured location.
// A missing parameter means today.
func (h *handler) day(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return models.StartOfDay(time.Now().In(h.deps.Location)), true
	}

	day, err := time.ParseInLocation(dateLayout, raw, h.deps.Location)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return time.Time{}, false
	}
	return day, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil && status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg(message)
	}

	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
