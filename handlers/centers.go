// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/center-roll/cliparse"
	"github.com/danielhkuo/center-roll/middleware"
	"github.com/danielhkuo/center-roll/models"
	"github.com/danielhkuo/center-roll/store"
)

type CenterHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewCenterHandler(s *store.Store, cfg cliparse.Config) *CenterHandler {
	return &CenterHandler{store: s, cfg: cfg}
}

// ListCenters handles GET /centers
func (h *CenterHandler) ListCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := h.store.ListCenters(r.Context())
	if err != nil {
		storeError(w, r, err, "Failed to list centers")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, centers)
}

// CenterNames handles GET /centers/names
func (h *CenterHandler) CenterNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.CenterNames(r.Context())
	if err != nil {
		storeError(w, r, err, "Failed to list center names")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, names)
}

// CreateCenter handles POST /centers
func (h *CenterHandler) CreateCenter(w http.ResponseWriter, r *http.Request) {
	var req models.CenterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.store.AddCenter(r.Context(), req.Name)
	if err != nil {
		storeError(w, r, err, "Failed to create center")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// RenameCenter handles PUT /centers/{id}
func (h *CenterHandler) RenameCenter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.CenterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.RenameCenter(r.Context(), id, req.Name); err != nil {
		storeError(w, r, err, "Failed to rename center")
		return
	}

	center, err := h.store.GetCenter(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "Failed to load center")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, center)
}

// DeleteCenter handles DELETE /centers/{id}. The center's students and
// their attendance go with it.
func (h *CenterHandler) DeleteCenter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	removed, err := h.store.DeleteCenter(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "Failed to delete center")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.DeleteCenterResponse{
		CenterID: id,
		Removed:  removed,
	})
}
