package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/preflight/internal/planner"
	"github.com/yegors/preflight/internal/weather"
	"github.com/yegors/preflight/pkg/logger"
)

// PostPlan computes a flight plan
func (h *Handler) PostPlan(w http.ResponseWriter, r *http.Request) {
	var plan planner.Plan
	if err := decodeBody(w, r, &plan); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	result, err := h.plannerService.Compute(r.Context(), plan)
	if err != nil {
		if errors.Is(err, planner.ErrInvalidPlan) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("Failed to compute plan", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to compute plan")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// GetWeather returns the briefing for a station. ?refresh=true bypasses the cache.
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	if h.weatherService == nil {
		writeError(w, http.StatusServiceUnavailable, "Weather service not available")
		return
	}

	station := chi.URLParam(r, "station")
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	var (
		briefing *weather.Briefing
		err      error
	)
	if refresh {
		briefing, err = h.weatherService.Refresh(r.Context(), station)
	} else {
		briefing, err = h.weatherService.Briefing(r.Context(), station)
	}
	if err != nil {
		if errors.Is(err, weather.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("Failed to get weather",
			logger.String("station", station),
			logger.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to get weather")
		return
	}

	WriteJSON(w, http.StatusOK, briefing)
}
