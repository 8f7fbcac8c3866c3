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

// ListCenters returns all centers, newest first
func (s *Store) ListCenters(ctx context.Context) ([]models.Center, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(created_at, '')
		FROM centers
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query centers: %w", err)
	}
	defer rows.Close()

	centers := []models.Center{}
	for rows.Next() {
		var c models.Center
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan center: %w", err)
		}
		centers = append(centers, c)
	}
	return centers, rows.Err()
}

// CenterNames returns center names in alphabetical order
func (s *Store) CenterNames(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "SELECT name FROM centers ORDER BY name")
}

func (s *Store) GetCenter(ctx context.Context, id int64) (models.Center, error) {
	var c models.Center
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, COALESCE(created_at, '') FROM centers WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("center %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("failed to query center: %w", err)
	}
	return c, nil
}

// AddCenter creates a center. Names are unique.
func (s *Store) AddCenter(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: center name is required", ErrInvalidInput)
	}
	if err := s.checkCenterName(ctx, name, 0); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO centers (name, created_at) VALUES (?, ?)",
		name, s.now().Format(models.TimestampLayout),
	)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("center %q: %w", name, ErrDuplicateCenter)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert center: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read center id: %w", err)
	}

	slog.Info("center created", "center_id", id, "name", name)
	return id, nil
}

// EnsureCenter returns the id of the named center, creating it if needed
func (s *Store) EnsureCenter(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: center name is required", ErrInvalidInput)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO centers (name, created_at) VALUES (?, ?)",
		name, s.now().Format(models.TimestampLayout),
	); err != nil {
		return 0, fmt.Errorf("failed to insert center: %w", err)
	}
	return s.centerID(ctx, name)
}

// CenterID resolves a center name
func (s *Store) CenterID(ctx context.Context, name string) (int64, error) {
	return s.centerID(ctx, strings.TrimSpace(name))
}

func (s *Store) centerID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM centers WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("center %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query center: %w", err)
	}
	return id, nil
}

func (s *Store) RenameCenter(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: center name is required", ErrInvalidInput)
	}
	if err := s.checkCenterName(ctx, name, id); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "UPDATE centers SET name = ? WHERE id = ?", name, id)
	if isUniqueViolation(err) {
		return fmt.Errorf("center %q: %w", name, ErrDuplicateCenter)
	}
	if err != nil {
		return fmt.Errorf("failed to update center: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("center %d: %w", id, ErrNotFound)
	}

	slog.Info("center renamed", "center_id", id, "name", name)
	return nil
}

// DeleteCenter removes a center with its students and their attendance.
// Order is attendance, students, center, in one transaction.
func (s *Store) DeleteCenter(ctx context.Context, id int64) (models.CascadeResult, error) {
	var result models.CascadeResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM centers WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return result, fmt.Errorf("center %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return result, fmt.Errorf("failed to query center: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM attendance
		WHERE student_id IN (SELECT id FROM students WHERE center_id = ?)
	`, id)
	if err != nil {
		return result, fmt.Errorf("failed to delete center attendance: %w", err)
	}
	result.Attendance, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, "DELETE FROM students WHERE center_id = ?", id)
	if err != nil {
		return result, fmt.Errorf("failed to delete center students: %w", err)
	}
	result.Students, _ = res.RowsAffected()

	if _, err := tx.ExecContext(ctx, "DELETE FROM centers WHERE id = ?", id); err != nil {
		return result, fmt.Errorf("failed to delete center: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.CascadeResult{}, fmt.Errorf("failed to commit center deletion: %w", err)
	}

	slog.Info("center deleted",
		"center_id", id,
		"students", result.Students,
		"attendance", result.Attendance,
	)
	return result, nil
}

func (s *Store) checkCenterName(ctx context.Context, name string, excludeID int64) error {
	var existing int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM centers WHERE name = ? AND id != ?", name, excludeID,
	).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check center name: %w", err)
	}
	return fmt.Errorf("center %q: %w", name, ErrDuplicateCenter)
}

func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
