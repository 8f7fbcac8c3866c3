// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danielhkuo/center-roll/cliparse"
	"github.com/danielhkuo/center-roll/middleware"
	"github.com/danielhkuo/center-roll/models"
	"github.com/danielhkuo/center-roll/sheets"
	"github.com/danielhkuo/center-roll/store"
)

// maxImportSize bounds an uploaded student workbook
const maxImportSize = 10 << 20

type StudentHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewStudentHandler(s *store.Store, cfg cliparse.Config) *StudentHandler {
	return &StudentHandler{store: s, cfg: cfg}
}

// ListStudents handles GET /students?center=&type=&grade=
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	students, err := h.store.ListStudents(r.Context(), models.StudentFilter{
		Center:       q.Get("center"),
		LearningType: q.Get("type"),
		Grade:        q.Get("grade"),
	})
	if err != nil {
		storeError(w, r, err, "Failed to list students")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, students)
}

// Grades handles GET /students/grades
func (h *StudentHandler) Grades(w http.ResponseWriter, r *http.Request) {
	grades, err := h.store.Grades(r.Context())
	if err != nil {
		storeError(w, r, err, "Failed to list grades")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, grades)
}

// CheckBarcode handles GET /students/barcode?barcode=&exclude=
func (h *StudentHandler) CheckBarcode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	barcode := q.Get("barcode")

	var exclude int64
	if v := q.Get("exclude"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "exclude must be a student id")
			return
		}
		exclude = id
	}

	available, err := h.store.BarcodeAvailable(r.Context(), barcode, exclude)
	if err != nil {
		storeError(w, r, err, "Failed to check barcode")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.BarcodeResponse{
		Barcode:   barcode,
		Available: available,
	})
}

// GenerateBarcode handles POST /students/barcode
func (h *StudentHandler) GenerateBarcode(w http.ResponseWriter, r *http.Request) {
	barcode, err := h.store.NewBarcode(r.Context())
	if err != nil {
		storeError(w, r, err, "Failed to generate barcode")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.BarcodeResponse{
		Barcode:   barcode,
		Available: true,
	})
}

// CreateStudent handles POST /students
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.StudentInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.store.AddStudent(r.Context(), req)
	if err != nil {
		storeError(w, r, err, "Failed to create student")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// UpdateStudent handles PUT /students/{id}
func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.StudentInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.UpdateStudent(r.Context(), id, req); err != nil {
		storeError(w, r, err, "Failed to update student")
		return
	}

	student, err := h.store.GetStudent(r.Context(), id)
	if err != nil {
		storeError(w, r, err, "Failed to load student")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, student)
}

// DeleteStudent handles DELETE /students/{id}
func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteStudent(r.Context(), id); err != nil {
		storeError(w, r, err, "Failed to delete student")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportStudents handles POST /students/import with an XLSX upload in the
// "file" form field
func (h *StudentHandler) ImportStudents(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Expected a multipart upload")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := sheets.ImportStudents(r.Context(), h.store, file)
	if errors.Is(err, sheets.ErrUnreadable) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		storeError(w, r, err, "Failed to import students")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}
