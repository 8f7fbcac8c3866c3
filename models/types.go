// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Learning type constants
const (
	LearningScientific = "scientific"
	LearningLiterary   = "literary"
)

// LearningTypes lists the legal learning type values in display order.
var LearningTypes = []string{LearningScientific, LearningLiterary}

// Date layouts used by the store
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
	MonthLayout     = "01-2006"
)

// Domain types

type Center struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type Student struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	CenterID     int64  `json:"center_id"`
	CenterName   string `json:"center_name"`
	LearningType string `json:"learning_type"`
	ParentMobile string `json:"parent_mobile"`
	Barcode      string `json:"barcode"`
	Grade        string `json:"grade"`
}

// StudentView is the denormalized student shown after a check-in
type StudentView struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	CenterName   string `json:"center_name"`
	LearningType string `json:"learning_type"`
	ParentMobile string `json:"parent_mobile"`
	Grade        string `json:"grade"`
}

// AttendanceRow is one attendance record joined with its student and center
type AttendanceRow struct {
	ID           int64  `json:"id"`
	StudentID    int64  `json:"student_id"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	CenterName   string `json:"center_name"`
	LearningType string `json:"learning_type"`
	ParentMobile string `json:"parent_mobile"`
	Grade        string `json:"grade"`
	Date         string `json:"date"`
	Marks        string `json:"marks"`
}

// AttendanceRecord is a raw attendance row for bulk inserts
type AttendanceRecord struct {
	StudentID int64
	Date      string
	Marks     string
}

type CheckIn struct {
	AttendanceID int64       `json:"attendance_id"`
	Date         string      `json:"date"`
	Student      StudentView `json:"student"`
}

// Stats holds the attendance counters. Unfiltered is only set when a
// center or learning type filter is active.
type Stats struct {
	Total      int  `json:"total"`
	Present    int  `json:"present"`
	Unfiltered int  `json:"unfiltered,omitempty"`
	Filtered   bool `json:"filtered"`
}

// CascadeResult counts the rows removed together with a center
type CascadeResult struct {
	Attendance int64 `json:"attendance"`
	Students   int64 `json:"students"`
}

// Filters

type StudentFilter struct {
	Center       string
	LearningType string
	Grade        string
}

type AttendanceFilter struct {
	Center       string
	LearningType string
	TodayOnly    bool
}

// NewAttendanceFilter returns the default attendance filter (today only)
func NewAttendanceFilter() AttendanceFilter {
	return AttendanceFilter{TodayOnly: true}
}

// ReportFilter selects a student's attendance history. Barcode is
// mandatory; Month is MM-YYYY.
type ReportFilter struct {
	Barcode      string
	Month        string
	Center       string
	LearningType string
}

type StatsFilter struct {
	Center       string
	LearningType string
}

// Request types

// StudentInput carries the editable student fields for create and update
type StudentInput struct {
	Name         string `json:"name" validate:"required"`
	Mobile       string `json:"mobile" validate:"required"`
	CenterID     int64  `json:"center_id" validate:"required,gt=0"`
	LearningType string `json:"learning_type" validate:"required,oneof=scientific literary"`
	ParentMobile string `json:"parent_mobile" validate:"required"`
	Barcode      string `json:"barcode" validate:"required"`
	Grade        string `json:"grade" validate:"required"`
}

type CenterRequest struct {
	Name string `json:"name"`
}

type CheckInRequest struct {
	Barcode string `json:"barcode"`
}

type MarksRequest struct {
	Marks string `json:"marks"`
}

// Response types

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type DeleteCenterResponse struct {
	CenterID int64         `json:"center_id"`
	Removed  CascadeResult `json:"removed"`
}

type BarcodeResponse struct {
	Barcode   string `json:"barcode"`
	Available bool   `json:"available"`
}

type ReportResponse struct {
	Count int             `json:"count"`
	Rows  []AttendanceRow `json:"rows"`
}

type ImportResponse struct {
	Imported int           `json:"imported"`
	Skipped  []ImportIssue `json:"skipped"`
}

// ImportIssue describes a spreadsheet row that was not imported
type ImportIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
