// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/center-roll/cliparse"
	"github.com/danielhkuo/center-roll/middleware"
	"github.com/danielhkuo/center-roll/models"
	"github.com/danielhkuo/center-roll/store"
)

type AttendanceHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewAttendanceHandler(s *store.Store, cfg cliparse.Config) *AttendanceHandler {
	return &AttendanceHandler{store: s, cfg: cfg}
}

// ListAttendance handles GET /attendance?center=&type=&today=
// Only today's rows are returned unless today=false.
func (h *AttendanceHandler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := models.NewAttendanceFilter()
	f.Center = q.Get("center")
	f.LearningType = q.Get("type")
	if v := q.Get("today"); v != "" {
		today, err := strconv.ParseBool(v)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "today must be true or false")
			return
		}
		f.TodayOnly = today
	}

	rows, err := h.store.ListAttendance(r.Context(), f)
	if err != nil {
		storeError(w, r, err, "Failed to list attendance")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, rows)
}

// Stats handles GET /attendance/stats?center=&type=
func (h *AttendanceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stats, err := h.store.Stats(r.Context(), models.StatsFilter{
		Center:       q.Get("center"),
		LearningType: q.Get("type"),
	})
	if err != nil {
		storeError(w, r, err, "Failed to compute stats")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}

// CheckIn handles POST /attendance/checkin
func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	checkIn, err := h.store.CheckIn(r.Context(), req.Barcode)
	if err != nil {
		storeError(w, r, err, "Failed to record attendance")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, checkIn)
}

// SetMarks handles PUT /attendance/{id}/marks
func (h *AttendanceHandler) SetMarks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.MarksRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.SetMarks(r.Context(), id, req.Marks); err != nil {
		storeError(w, r, err, "Failed to update marks")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAttendance handles DELETE /attendance/{id}
func (h *AttendanceHandler) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteAttendance(r.Context(), id); err != nil {
		storeError(w, r, err, "Failed to delete attendance")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
