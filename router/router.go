// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/center-roll/cliparse"
	"github.com/danielhkuo/center-roll/handlers"
	"github.com/danielhkuo/center-roll/middleware"
	"github.com/danielhkuo/center-roll/store"
)

func NewRouter(s *store.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	centerHandler := handlers.NewCenterHandler(s, cfg)
	studentHandler := handlers.NewStudentHandler(s, cfg)
	attendanceHandler := handlers.NewAttendanceHandler(s, cfg)
	reportHandler := handlers.NewReportHandler(s, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Centers
	mux.HandleFunc("GET /centers", middleware.WithLogging(centerHandler.ListCenters))
	mux.HandleFunc("GET /centers/names", middleware.WithLogging(centerHandler.CenterNames))
	mux.HandleFunc("POST /centers", middleware.WithLogging(centerHandler.CreateCenter))
	mux.HandleFunc("PUT /centers/{id}", middleware.WithLogging(centerHandler.RenameCenter))
	mux.HandleFunc("DELETE /centers/{id}", middleware.WithLogging(centerHandler.DeleteCenter))

	// Students
	mux.HandleFunc("GET /students", middleware.WithLogging(studentHandler.ListStudents))
	mux.HandleFunc("GET /students/grades", middleware.WithLogging(studentHandler.Grades))
	mux.HandleFunc("GET /students/barcode", middleware.WithLogging(studentHandler.CheckBarcode))
	mux.HandleFunc("POST /students/barcode", middleware.WithLogging(studentHandler.GenerateBarcode))
	mux.HandleFunc("POST /students", middleware.WithLogging(studentHandler.CreateStudent))
	mux.HandleFunc("POST /students/import", middleware.WithLogging(studentHandler.ImportStudents))
	mux.HandleFunc("PUT /students/{id}", middleware.WithLogging(studentHandler.UpdateStudent))
	mux.HandleFunc("DELETE /students/{id}", middleware.WithLogging(studentHandler.DeleteStudent))

	// Attendance
	mux.HandleFunc("GET /attendance", middleware.WithLogging(attendanceHandler.ListAttendance))
	mux.HandleFunc("GET /attendance/stats", middleware.WithLogging(attendanceHandler.Stats))
	mux.HandleFunc("POST /attendance/checkin", middleware.WithLogging(attendanceHandler.CheckIn))
	mux.HandleFunc("PUT /attendance/{id}/marks", middleware.WithLogging(attendanceHandler.SetMarks))
	mux.HandleFunc("DELETE /attendance/{id}", middleware.WithLogging(attendanceHandler.DeleteAttendance))

	// Reports
	mux.HandleFunc("GET /reports", middleware.WithLogging(reportHandler.GetReport))
	mux.HandleFunc("GET /reports/export", middleware.WithLogging(reportHandler.ExportReport))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("center-roll API v1"))
	})

	return mux
}
