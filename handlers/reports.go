// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/center-roll/cliparse"
	"github.com/danielhkuo/center-roll/middleware"
	"github.com/danielhkuo/center-roll/models"
	"github.com/danielhkuo/center-roll/sheets"
	"github.com/danielhkuo/center-roll/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewReportHandler(s *store.Store, cfg cliparse.Config) *ReportHandler {
	return &ReportHandler{store: s, cfg: cfg}
}

func reportFilter(r *http.Request) models.ReportFilter {
	q := r.URL.Query()
	return models.ReportFilter{
		Barcode:      q.Get("barcode"),
		Month:        q.Get("month"),
		Center:       q.Get("center"),
		LearningType: q.Get("type"),
	}
}

// GetReport handles GET /reports?barcode=&month=&center=&type=
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.Report(r.Context(), reportFilter(r))
	if err != nil {
		storeError(w, r, err, "Failed to build report")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ReportResponse{
		Count: len(rows),
		Rows:  rows,
	})
}

// ExportReport handles GET /reports/export with the same query as GetReport
// and returns the rows as an XLSX download
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	f := reportFilter(r)
	rows, err := h.store.Report(r.Context(), f)
	if err != nil {
		storeError(w, r, err, "Failed to build report")
		return
	}

	var buf bytes.Buffer
	if err := sheets.WriteReport(&buf, rows); err != nil {
		slog.Error("failed to write report workbook", "error", err, "request_id", middleware.RequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export report")
		return
	}

	name := "report-" + f.Barcode
	if f.Month != "" {
		name += "-" + f.Month
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to send report", "error", err)
	}
}
