// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package sheets reads student imports from and writes attendance reports to XLSX files.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/center-roll/models"
	"github.com/danielhkuo/center-roll/store"
)

// ReportSheet is the sheet name used by WriteReport
const ReportSheet = "Attendance"

// ErrUnreadable wraps failures to parse an uploaded workbook
var ErrUnreadable = errors.New("unreadable workbook")

// StudentHeader is the expected first row of an import file
var StudentHeader = []string{"Name", "Mobile", "Center", "Learning Type", "Parent Mobile", "Barcode", "Grade"}

var reportHeader = []any{"ID", "Student ID", "Name", "Mobile", "Center", "Learning Type", "Parent Mobile", "Grade", "Date", "Marks"}

// StudentRow is one data row of an import file. Row is 1-based as shown in
// spreadsheet programs.
type StudentRow struct {
	Row          int
	Name         string
	Mobile       string
	Center       string
	LearningType string
	ParentMobile string
	Barcode      string
	Grade        string
}

// ReadStudents reads student rows from the first sheet of an XLSX file.
// The header row and blank rows are skipped.
func ReadStudents(r io.Reader) ([]StudentRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close excel file", "error", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no sheets", ErrUnreadable)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %v", ErrUnreadable, sheetName, err)
	}

	var students []StudentRow
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if blank(row) {
			continue
		}
		students = append(students, StudentRow{
			Row:          i + 1,
			Name:         cell(row, 0),
			Mobile:       cell(row, 1),
			Center:       cell(row, 2),
			LearningType: strings.ToLower(cell(row, 3)),
			ParentMobile: cell(row, 4),
			Barcode:      cell(row, 5),
			Grade:        cell(row, 6),
		})
	}
	return students, nil
}

// ImportStudents adds every student of an XLSX file. Rows naming an
// unknown center, failing validation or reusing a barcode are skipped and
// reported; a row without a barcode gets a generated one.
func ImportStudents(ctx context.Context, s *store.Store, r io.Reader) (models.ImportResponse, error) {
	result := models.ImportResponse{Skipped: []models.ImportIssue{}}

	rows, err := ReadStudents(r)
	if err != nil {
		return result, err
	}

	for _, row := range rows {
		centerID, err := s.CenterID(ctx, row.Center)
		if errors.Is(err, store.ErrNotFound) {
			result.Skipped = append(result.Skipped, models.ImportIssue{
				Row:    row.Row,
				Reason: fmt.Sprintf("unknown center %q", row.Center),
			})
			continue
		}
		if err != nil {
			return result, err
		}

		barcode := row.Barcode
		if barcode == "" {
			if barcode, err = s.NewBarcode(ctx); err != nil {
				return result, err
			}
		}

		_, err = s.AddStudent(ctx, models.StudentInput{
			Name:         row.Name,
			Mobile:       row.Mobile,
			CenterID:     centerID,
			LearningType: row.LearningType,
			ParentMobile: row.ParentMobile,
			Barcode:      barcode,
			Grade:        row.Grade,
		})
		switch {
		case errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrDuplicateBarcode):
			result.Skipped = append(result.Skipped, models.ImportIssue{Row: row.Row, Reason: err.Error()})
		case err != nil:
			return result, err
		default:
			result.Imported++
		}
	}

	slog.Info("students imported", "imported", result.Imported, "skipped", len(result.Skipped))
	return result, nil
}

// WriteReport writes attendance rows as a single-sheet XLSX workbook
func WriteReport(w io.Writer, rows []models.AttendanceRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &reportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetRowStyle(ReportSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			r.ID, r.StudentID, r.Name, r.Mobile, r.CenterName,
			r.LearningType, r.ParentMobile, r.Grade, r.Date, marksValue(r.Marks),
		}
		if err := f.SetSheetRow(ReportSheet, axis, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(ReportSheet, "C", "I", 16); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Numeric marks are written as numbers so they can be summed
func marksValue(marks string) any {
	if n, err := strconv.Atoi(marks); err == nil {
		return n
	}
	return marks
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
