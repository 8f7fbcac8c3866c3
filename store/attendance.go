// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/center-roll/models"
)

const attendanceColumns = `
	a.id, a.student_id, COALESCE(s.name, ''), COALESCE(s.mobile, ''), COALESCE(c.name, ''),
	COALESCE(s.learning_type, ''), COALESCE(s.parent_mobile, ''), COALESCE(s.grade, ''),
	COALESCE(a.date, ''), COALESCE(CAST(a.marks AS TEXT), '')`

// Orphaned attendance (student deleted) drops out of the inner join.
const attendanceFrom = `
	FROM attendance a
	JOIN students s ON a.student_id = s.id
	LEFT JOIN centers c ON s.center_id = c.id`

// ListAttendance returns attendance rows matching f, newest first
func (s *Store) ListAttendance(ctx context.Context, f models.AttendanceFilter) ([]models.AttendanceRow, error) {
	var where conditions
	if f.TodayOnly {
		where.add("a.date = ?", s.Today())
	}
	where.addIf("c.name = ?", f.Center)
	where.addIf("s.learning_type = ?", f.LearningType)

	return s.attendanceRows(ctx, where)
}

// Report returns one student's attendance history, newest first
func (s *Store) Report(ctx context.Context, f models.ReportFilter) ([]models.AttendanceRow, error) {
	barcode := strings.TrimSpace(f.Barcode)
	if barcode == "" {
		return nil, ErrBarcodeRequired
	}

	var where conditions
	where.add("s.barcode = ?", barcode)
	if month := strings.TrimSpace(f.Month); month != "" {
		if _, err := time.Parse(models.MonthLayout, month); err != nil {
			return nil, fmt.Errorf("%w: month must be MM-YYYY", ErrInvalidInput)
		}
		where.add("strftime('%m-%Y', a.date) = ?", month)
	}
	where.addIf("c.name = ?", f.Center)
	where.addIf("s.learning_type = ?", f.LearningType)

	return s.attendanceRows(ctx, where)
}

func (s *Store) attendanceRows(ctx context.Context, where conditions) ([]models.AttendanceRow, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT"+attendanceColumns+attendanceFrom+where.String()+" ORDER BY a.id DESC",
		where.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	records := []models.AttendanceRow{}
	for rows.Next() {
		var r models.AttendanceRow
		if err := rows.Scan(&r.ID, &r.StudentID, &r.Name, &r.Mobile, &r.CenterName,
			&r.LearningType, &r.ParentMobile, &r.Grade, &r.Date, &r.Marks); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CheckIn records a scan of barcode for today. Repeated scans on the
// same day each get their own row.
func (s *Store) CheckIn(ctx context.Context, barcode string) (models.CheckIn, error) {
	var result models.CheckIn

	st, err := s.FindByBarcode(ctx, barcode)
	if err != nil {
		return result, err
	}

	date := s.Today()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO attendance (student_id, date, marks) VALUES (?, ?, ?)",
		st.ID, date, "",
	)
	if err != nil {
		return result, fmt.Errorf("failed to insert attendance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return result, fmt.Errorf("failed to read attendance id: %w", err)
	}

	slog.Info("attendance recorded", "attendance_id", id, "student_id", st.ID, "date", date)

	result = models.CheckIn{
		AttendanceID: id,
		Date:         date,
		Student: models.StudentView{
			ID:           st.ID,
			Name:         st.Name,
			Mobile:       st.Mobile,
			CenterName:   st.CenterName,
			LearningType: st.LearningType,
			ParentMobile: st.ParentMobile,
			Grade:        st.Grade,
		},
	}
	return result, nil
}

// SetMarks replaces the marks of one attendance row. marks is either empty
// (cleared) or a whole number from 0 to 100.
func (s *Store) SetMarks(ctx context.Context, id int64, marks string) error {
	value, err := parseMarks(marks)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "UPDATE attendance SET marks = ? WHERE id = ?", value, id)
	if err != nil {
		return fmt.Errorf("failed to update marks: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("attendance %d: %w", id, ErrNotFound)
	}

	slog.Info("marks updated", "attendance_id", id, "marks", value)
	return nil
}

func parseMarks(marks string) (any, error) {
	marks = strings.TrimSpace(marks)
	if marks == "" {
		return "", nil
	}
	n, err := strconv.Atoi(marks)
	if err != nil || n < 0 || n > 100 {
		return nil, fmt.Errorf("%w: marks must be a whole number from 0 to 100", ErrInvalidInput)
	}
	return n, nil
}

func (s *Store) DeleteAttendance(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM attendance WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("attendance %d: %w", id, ErrNotFound)
	}

	slog.Info("attendance deleted", "attendance_id", id)
	return nil
}

// RecordAttendance inserts pre-built attendance rows in one transaction and
// returns how many were written. Used for bulk loads.
func (s *Store) RecordAttendance(ctx context.Context, records []models.AttendanceRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO attendance (student_id, date, marks) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare attendance insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := time.Parse(models.DateLayout, r.Date); err != nil {
			return 0, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, r.Date)
		}
		marks, err := parseMarks(r.Marks)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, r.StudentID, r.Date, marks); err != nil {
			return 0, fmt.Errorf("failed to insert attendance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit attendance: %w", err)
	}
	return len(records), nil
}

// Stats counts students matching f and how many of them checked in today.
// With a filter set, Unfiltered carries the overall student count.
func (s *Store) Stats(ctx context.Context, f models.StatsFilter) (models.Stats, error) {
	var stats models.Stats

	var where conditions
	where.addIf("c.name = ?", f.Center)
	where.addIf("s.learning_type = ?", f.LearningType)

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT s.id)"+studentsFrom+where.String(),
		where.args...,
	).Scan(&stats.Total)
	if err != nil {
		return stats, fmt.Errorf("failed to count students: %w", err)
	}

	present := conditions{}
	present.add("a.date = ?", s.Today())
	present.clauses = append(present.clauses, where.clauses...)
	present.args = append(present.args, where.args...)
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT s.id)"+attendanceFrom+present.String(),
		present.args...,
	).Scan(&stats.Present)
	if err != nil {
		return stats, fmt.Errorf("failed to count present students: %w", err)
	}

	if len(where.clauses) > 0 {
		stats.Filtered = true
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT id) FROM students").Scan(&stats.Unfiltered)
		if err != nil {
			return stats, fmt.Errorf("failed to count all students: %w", err)
		}
	}
	return stats, nil
}
