// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, filter, request and response types.

# Domain Types

  - Center: tutoring location (id, name, created_at)
  - Student: enrolled learner, joined with its center name
  - StudentView: denormalized student returned by a check-in
  - AttendanceRow: attendance record joined with student and center
  - CheckIn: result of a barcode scan
  - Stats: total / present / unfiltered counters
  - CascadeResult: rows removed together with a center

# Filters

Every list query takes an explicit filter value. Empty fields impose no
constraint; set fields are ANDed together.

  - StudentFilter: center, learning type, grade
  - AttendanceFilter: center, learning type, today only
  - ReportFilter: barcode (required), month (MM-YYYY), center, learning type
  - StatsFilter: center, learning type

NewAttendanceFilter returns the default filter with TodayOnly set.

# Constants

Learning types:

	LearningScientific = "scientific"
	LearningLiterary   = "literary"

Date layouts:

	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
	MonthLayout     = "01-2006"
*/
package models
