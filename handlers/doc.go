// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the center-roll API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - CenterHandler: Center list, create, rename and cascading delete
  - StudentHandler: Filtered student lists, barcodes and XLSX import
  - AttendanceHandler: Barcode check-in, marks and daily stats
  - ReportHandler: Per-student reports as JSON or XLSX

Handlers are created via constructor functions that accept *store.Store and Config:

	studentHandler := handlers.NewStudentHandler(store.New(db), cfg)

# Filters

List endpoints take the same query parameters. An empty or missing value
leaves that filter off:

	GET /students?center=Main&type=scientific&grade=G3
	GET /attendance?center=Main&today=false

Reports require a barcode and take an optional month as MM-YYYY:

	GET /reports?barcode=AB12345678&month=03-2025

# Check-in

	POST /attendance/checkin {"barcode": "AB12345678"}

Every scan adds a row dated today. The response carries the student so the
station can show who was scanned.

# Errors

Store errors map onto status codes in one place (storeError):

  - invalid input, missing barcode: 400
  - unknown id, center or barcode: 404
  - duplicate barcode or center name: 409
  - anything else: 500, logged with the request id
*/
package handlers
