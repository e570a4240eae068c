package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/preflight/internal/aircraft"
	"github.com/yegors/preflight/internal/performance"
	"github.com/yegors/preflight/pkg/logger"
)

// aircraftResponse is a model with its code
type aircraftResponse struct {
	Code string `json:"code"`
	aircraft.Model
}

// GetAllAircraft lists the aircraft catalog
func (h *Handler) GetAllAircraft(w http.ResponseWriter, r *http.Request) {
	models := h.catalog.ListModels()
	WriteJSON(w, http.StatusOK, map[string]any{
		"count":  len(models),
		"models": models,
	})
}

// GetAircraft returns a full aircraft model
func (h *Handler) GetAircraft(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	m, ok := h.catalog.Model(code)
	if !ok {
		writeError(w, http.StatusNotFound, "Aircraft model not found")
		return
	}

	WriteJSON(w, http.StatusOK, aircraftResponse{Code: code, Model: m})
}

// PutAircraft inserts or wholly replaces an aircraft model
func (h *Handler) PutAircraft(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "Missing aircraft code")
		return
	}

	var m aircraft.Model
	if err := decodeBody(w, r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.catalog.Upsert(r.Context(), code, m); err != nil {
		// The model is live in memory; only persistence failed
		h.logger.Error("Failed to persist aircraft model",
			logger.String("code", code),
			logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Aircraft model saved but not persisted")
		return
	}

	stored, _ := h.catalog.Model(code)
	WriteJSON(w, http.StatusOK, aircraftResponse{Code: code, Model: stored})
}

// GetAircraftPerformance interpolates the takeoff and landing charts at
// ?alt= (pressure altitude, ft) and ?temp= (OAT, °C)
func (h *Handler) GetAircraftPerformance(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	alt, err := strconv.ParseFloat(r.URL.Query().Get("alt"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid alt parameter")
		return
	}
	temp, err := strconv.ParseFloat(r.URL.Query().Get("temp"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid temp parameter")
		return
	}

	perf, ok := h.catalog.Performance(code)
	if !ok {
		writeError(w, http.StatusNotFound, "No performance data for aircraft model")
		return
	}

	takeoff, err := performance.Interpolate(perf.Takeoff, alt, temp)
	if err != nil {
		h.writePerformanceError(w, code, err)
		return
	}
	landing, err := performance.Interpolate(perf.Landing, alt, temp)
	if err != nil {
		h.writePerformanceError(w, code, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"code":                 code,
		"pressure_altitude_ft": alt,
		"temp_c":               temp,
		"takeoff":              takeoff,
		"landing":              landing,
	})
}

func (h *Handler) writePerformanceError(w http.ResponseWriter, code string, err error) {
	switch {
	case errors.Is(err, performance.ErrNonFiniteQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, performance.ErrDegenerateTable):
		h.logger.Warn("Stored performance chart is degenerate",
			logger.String("code", code),
			logger.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
