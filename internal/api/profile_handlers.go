package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/preflight/internal/planner"
	"github.com/yegors/preflight/internal/storage/sqlite"
	"github.com/yegors/preflight/pkg/logger"
)

// profileRequest is the editable part of an aircraft profile
type profileRequest struct {
	Registration string  `json:"registration"`
	EmptyWeight  float64 `json:"empty_weight"`
	EmptyArm     float64 `json:"empty_arm"`
}

// moveRequest is the target position of a profile in the list
type moveRequest struct {
	Position int `json:"position"`
}

// GetProfiles lists aircraft profiles in display order
func (h *Handler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to retrieve profiles", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve profiles")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"count":    len(profiles),
		"profiles": profiles,
	})
}

// GetProfile returns a single aircraft profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// CreateProfile appends a new aircraft profile
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	p, err := h.profiles.Create(r.Context(), sqlite.ProfileRecord{
		Registration: req.Registration,
		EmptyWeight:  req.EmptyWeight,
		EmptyArm:     req.EmptyArm,
	})
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

// UpdateProfile replaces the fields of an aircraft profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var req profileRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	p, err := h.profiles.Update(r.Context(), sqlite.ProfileRecord{
		ID:           id,
		Registration: req.Registration,
		EmptyWeight:  req.EmptyWeight,
		EmptyArm:     req.EmptyArm,
	})
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// DeleteProfile removes an aircraft profile
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	if err := h.profiles.Delete(r.Context(), id); err != nil {
		h.writeProfileError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveProfile moves an aircraft profile to a new position in the list
func (h *Handler) MoveProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if err := h.profiles.Move(r.Context(), id, req.Position); err != nil {
		h.writeProfileError(w, err)
		return
	}
	h.GetProfiles(w, r)
}

func profileID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid profile ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sqlite.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sqlite.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Profile storage error", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Profile storage error")
	}
}

// PlannerProfiles adapts profile storage to the planner's profile lookup
func PlannerProfiles(store *sqlite.ProfileStorage) planner.Profiles {
	return planner.ProfilesFunc(func(ctx context.Context, id int64) (planner.AircraftProfile, error) {
		p, err := store.Get(ctx, id)
		if errors.Is(err, sqlite.ErrProfileNotFound) {
			return planner.AircraftProfile{}, fmt.Errorf("%w: %d", planner.ErrUnknownProfile, id)
		}
		if err != nil {
			return planner.AircraftProfile{}, err
		}
		return planner.AircraftProfile{
			Registration: p.Registration,
			EmptyWeight:  p.EmptyWeight,
			EmptyArm:     p.EmptyArm,
		}, nil
	})
}
