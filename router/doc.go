// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the center-roll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store.New(db), cfg)

# Endpoints

Health:

	GET /health

Centers:

	GET    /centers        - All centers, newest first
	GET    /centers/names  - Center names for filter lists
	POST   /centers        - Create center
	PUT    /centers/{id}   - Rename center
	DELETE /centers/{id}   - Delete center with its students and attendance

Students:

	GET    /students?center=&type=&grade=      - Filtered list
	GET    /students/grades                    - Grades in use
	GET    /students/barcode?barcode=&exclude= - Barcode availability
	POST   /students/barcode                   - Generate an unused barcode
	POST   /students                           - Create student
	POST   /students/import                    - XLSX upload (field "file")
	PUT    /students/{id}                      - Update student
	DELETE /students/{id}                      - Delete student

Attendance:

	GET    /attendance?center=&type=&today= - Today's rows unless today=false
	GET    /attendance/stats?center=&type=  - Total and present counts
	POST   /attendance/checkin              - Barcode scan
	PUT    /attendance/{id}/marks           - Set or clear marks
	DELETE /attendance/{id}                 - Delete one row

Reports:

	GET /reports?barcode=&month=&center=&type= - One student's history
	GET /reports/export?...                    - Same rows as XLSX

All API routes are wrapped in middleware.WithLogging.
*/
package router
