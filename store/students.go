// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/center-roll/models"
)

const studentColumns = `
	s.id, COALESCE(s.name, ''), COALESCE(s.mobile, ''), COALESCE(s.center_id, 0),
	COALESCE(c.name, ''), COALESCE(s.learning_type, ''), COALESCE(s.parent_mobile, ''),
	COALESCE(s.barcode, ''), COALESCE(s.grade, '')`

const studentsFrom = `
	FROM students s
	LEFT JOIN centers c ON s.center_id = c.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (models.Student, error) {
	var st models.Student
	err := row.Scan(&st.ID, &st.Name, &st.Mobile, &st.CenterID, &st.CenterName,
		&st.LearningType, &st.ParentMobile, &st.Barcode, &st.Grade)
	return st, err
}

// ListStudents returns the students matching every set field of f
func (s *Store) ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	var where conditions
	where.addIf("c.name = ?", f.Center)
	where.addIf("s.learning_type = ?", f.LearningType)
	where.addIf("s.grade = ?", f.Grade)

	rows, err := s.db.QueryContext(ctx,
		"SELECT"+studentColumns+studentsFrom+where.String()+" ORDER BY s.id",
		where.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// Grades returns the distinct grades in use, for filter lists
func (s *Store) Grades(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT DISTINCT grade FROM students
		WHERE grade IS NOT NULL AND grade != ''
		ORDER BY grade
	`)
}

func (s *Store) GetStudent(ctx context.Context, id int64) (models.Student, error) {
	st, err := scanStudent(s.db.QueryRowContext(ctx,
		"SELECT"+studentColumns+studentsFrom+" WHERE s.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return st, fmt.Errorf("student %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return st, fmt.Errorf("failed to query student: %w", err)
	}
	return st, nil
}

// FindByBarcode returns the one student holding barcode
func (s *Store) FindByBarcode(ctx context.Context, barcode string) (models.Student, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return models.Student{}, ErrBarcodeRequired
	}
	st, err := scanStudent(s.db.QueryRowContext(ctx,
		"SELECT"+studentColumns+studentsFrom+" WHERE s.barcode = ?", barcode))
	if errors.Is(err, sql.ErrNoRows) {
		return st, fmt.Errorf("barcode %q: %w", barcode, ErrNotFound)
	}
	if err != nil {
		return st, fmt.Errorf("failed to query student: %w", err)
	}
	return st, nil
}

// BarcodeAvailable reports whether no student other than excludeID holds
// barcode. Pass 0 when creating.
func (s *Store) BarcodeAvailable(ctx context.Context, barcode string, excludeID int64) (bool, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return false, ErrBarcodeRequired
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM students WHERE barcode = ? AND id != ?", barcode, excludeID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check barcode: %w", err)
	}
	return false, nil
}

func (s *Store) AddStudent(ctx context.Context, in models.StudentInput) (int64, error) {
	in = normalize(in)
	if err := s.checkStudent(ctx, in, 0); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO students (name, mobile, center_id, learning_type, parent_mobile, barcode, grade)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, in.Name, in.Mobile, in.CenterID, in.LearningType, in.ParentMobile, in.Barcode, in.Grade)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("barcode %q: %w", in.Barcode, ErrDuplicateBarcode)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read student id: %w", err)
	}

	slog.Info("student created", "student_id", id, "center_id", in.CenterID)
	return id, nil
}

func (s *Store) UpdateStudent(ctx context.Context, id int64, in models.StudentInput) error {
	in = normalize(in)
	if _, err := s.GetStudent(ctx, id); err != nil {
		return err
	}
	if err := s.checkStudent(ctx, in, id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE students
		SET name = ?, mobile = ?, center_id = ?, learning_type = ?, parent_mobile = ?, barcode = ?, grade = ?
		WHERE id = ?
	`, in.Name, in.Mobile, in.CenterID, in.LearningType, in.ParentMobile, in.Barcode, in.Grade, id)
	if isUniqueViolation(err) {
		return fmt.Errorf("barcode %q: %w", in.Barcode, ErrDuplicateBarcode)
	}
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	slog.Info("student updated", "student_id", id)
	return nil
}

// DeleteStudent removes only the student row; its attendance stays.
func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("student %d: %w", id, ErrNotFound)
	}

	slog.Info("student deleted", "student_id", id)
	return nil
}

// checkStudent validates in and enforces center existence and barcode
// uniqueness before anything is written
func (s *Store) checkStudent(ctx context.Context, in models.StudentInput, excludeID int64) error {
	if err := validate.Struct(in); err != nil {
		return validationError(err)
	}

	if _, err := s.GetCenter(ctx, in.CenterID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: center %d does not exist", ErrInvalidInput, in.CenterID)
		}
		return err
	}

	ok, err := s.BarcodeAvailable(ctx, in.Barcode, excludeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("barcode %q: %w", in.Barcode, ErrDuplicateBarcode)
	}
	return nil
}

func normalize(in models.StudentInput) models.StudentInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.LearningType = strings.TrimSpace(in.LearningType)
	in.ParentMobile = strings.TrimSpace(in.ParentMobile)
	in.Barcode = strings.TrimSpace(in.Barcode)
	in.Grade = strings.TrimSpace(in.Grade)
	return in
}
