// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the center-roll API server.

center-roll keeps the students, centers and daily attendance of a group of
tutoring centers in one local SQLite file. Students are checked in by
scanning their barcode; staff enter marks, filter lists by center, learning
type and grade, and pull per-student monthly reports.

# Starting the Server

Everything has a default, so a bare start works:

	go run .

Or with flags:

	go run . -p 3318 -d students.db

A .env file in the working directory is read first.

# Configuration

  - PORT (-p): Server port (default: 3318)
  - DATABASE_PATH (-d): SQLite file (default: students.db)
  - LOG_LEVEL (-log-level): debug, info, warn or error
  - LICENSE_SALT, LICENSE_KEY, STATION_SERIAL: station license; the check is
    skipped while LICENSE_SALT is empty

# Demo Data

	go run . -seed-students 50
	go run . -seed-month 2024-08

Either flag generates data and exits instead of serving.

# Start-up

Before serving, the schema is created if missing and a legacy store (center
names on each student) is migrated to center ids in a single transaction.
Failing to open or migrate the store exits with status 1.

# Architecture

  - handlers: HTTP request handlers (centers, students, attendance, reports)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging with request ids, JSON helpers
  - store: Filtered queries and mutations over the SQLite store
  - db: Opening, schema creation and legacy migration
  - sheets: XLSX student import and report export
  - seed: Demo data
  - models: Domain, request and response types
  - auth: Barcodes and the license check
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
