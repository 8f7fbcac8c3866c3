// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/center-roll/models"
)

// MigrationReport describes what CreateSchema did
type MigrationReport struct {
	Migrated   bool
	Centers    int
	Students   int
	Attendance int
}

// CreateSchema makes sure the centers, students and attendance tables exist.
// A legacy store (students.center_name without students.center_id) is
// migrated to center ids once. Safe to call on every start.
func CreateSchema(db *sql.DB) (MigrationReport, error) {
	var report MigrationReport

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(centersTable); err != nil {
		return report, fmt.Errorf("failed to create centers table: %w", err)
	}
	if err := renameCreatedDate(tx); err != nil {
		return report, err
	}

	legacy, err := isLegacy(tx)
	if err != nil {
		return report, err
	}

	if legacy {
		report, err = migrateLegacy(tx, time.Now())
		if err != nil {
			return MigrationReport{}, err
		}
	} else {
		if _, err := tx.Exec(studentsTable); err != nil {
			return report, fmt.Errorf("failed to create students table: %w", err)
		}
	}

	if _, err := tx.Exec(attendanceTable); err != nil {
		return report, fmt.Errorf("failed to create attendance table: %w", err)
	}
	if _, err := tx.Exec(indexes); err != nil {
		return report, fmt.Errorf("failed to create indexes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return MigrationReport{}, fmt.Errorf("failed to commit schema: %w", err)
	}

	if report.Migrated {
		slog.Info("legacy schema migrated",
			"centers", report.Centers,
			"students", report.Students,
			"attendance", report.Attendance,
		)
	}

	return report, nil
}

// IsLegacy reports whether the students table still stores center names
func IsLegacy(db *sql.DB) (bool, error) {
	return isLegacy(db)
}

// Older stores named the center timestamp created_date
func renameCreatedDate(tx *sql.Tx) error {
	cols, err := tableColumns(tx, "centers")
	if err != nil {
		return err
	}
	if !cols["created_date"] || cols["created_at"] {
		return nil
	}
	if _, err := tx.Exec("ALTER TABLE centers RENAME COLUMN created_date TO created_at"); err != nil {
		return fmt.Errorf("failed to rename centers.created_date: %w", err)
	}
	return nil
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func isLegacy(q queryer) (bool, error) {
	cols, err := tableColumns(q, "students")
	if err != nil {
		return false, err
	}
	return cols["center_name"] && !cols["center_id"], nil
}

func tableColumns(q queryer, table string) (map[string]bool, error) {
	rows, err := q.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan %s column: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

type legacyStudent struct {
	id           int64
	name         sql.NullString
	mobile       sql.NullString
	centerName   sql.NullString
	learningType sql.NullString
	parentMobile sql.NullString
	barcode      sql.NullString
	grade        sql.NullString
}

type legacyAttendance struct {
	id        int64
	studentID sql.NullInt64
	date      sql.NullString
	marks     any
}

func migrateLegacy(tx *sql.Tx, now time.Time) (MigrationReport, error) {
	report := MigrationReport{Migrated: true}

	students, err := readLegacyStudents(tx)
	if err != nil {
		return report, err
	}
	attendance, err := readLegacyAttendance(tx)
	if err != nil {
		return report, err
	}

	if _, err := tx.Exec("DROP TABLE IF EXISTS students"); err != nil {
		return report, fmt.Errorf("failed to drop legacy students: %w", err)
	}
	if _, err := tx.Exec(studentsTable); err != nil {
		return report, fmt.Errorf("failed to recreate students: %w", err)
	}

	createdAt := now.Format(models.TimestampLayout)
	centerIDs := make(map[string]int64)
	for _, s := range students {
		// A student without a center name keeps a NULL center_id
		var centerID sql.NullInt64
		if s.centerName.String == "" {
			slog.Warn("legacy student has no center", "student_id", s.id)
		} else if id, ok := centerIDs[s.centerName.String]; ok {
			centerID = sql.NullInt64{Int64: id, Valid: true}
		} else {
			if _, err := tx.Exec(
				"INSERT OR IGNORE INTO centers (name, created_at) VALUES (?, ?)",
				s.centerName.String, createdAt,
			); err != nil {
				return report, fmt.Errorf("failed to create center %q: %w", s.centerName.String, err)
			}
			if err := tx.QueryRow(
				"SELECT id FROM centers WHERE name = ?", s.centerName.String,
			).Scan(&id); err != nil {
				return report, fmt.Errorf("failed to look up center %q: %w", s.centerName.String, err)
			}
			centerIDs[s.centerName.String] = id
			centerID = sql.NullInt64{Int64: id, Valid: true}
		}

		if _, err := tx.Exec(`
			INSERT INTO students (id, name, mobile, center_id, learning_type, parent_mobile, barcode, grade)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, s.id, s.name, s.mobile, centerID, s.learningType, s.parentMobile, s.barcode, s.grade); err != nil {
			return report, fmt.Errorf("failed to migrate student %d: %w", s.id, err)
		}
	}

	if _, err := tx.Exec("DROP TABLE IF EXISTS attendance"); err != nil {
		return report, fmt.Errorf("failed to drop legacy attendance: %w", err)
	}
	if _, err := tx.Exec(attendanceTable); err != nil {
		return report, fmt.Errorf("failed to recreate attendance: %w", err)
	}
	for _, a := range attendance {
		if _, err := tx.Exec(
			"INSERT INTO attendance (id, student_id, date, marks) VALUES (?, ?, ?, ?)",
			a.id, a.studentID, a.date, a.marks,
		); err != nil {
			return report, fmt.Errorf("failed to migrate attendance %d: %w", a.id, err)
		}
	}

	report.Centers = len(centerIDs)
	report.Students = len(students)
	report.Attendance = len(attendance)
	return report, nil
}

func readLegacyStudents(tx *sql.Tx) ([]legacyStudent, error) {
	rows, err := tx.Query(`
		SELECT id, name, mobile, center_name, learning_type, parent_mobile, barcode, grade
		FROM students
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy students: %w", err)
	}
	defer rows.Close()

	var students []legacyStudent
	for rows.Next() {
		var s legacyStudent
		if err := rows.Scan(&s.id, &s.name, &s.mobile, &s.centerName,
			&s.learningType, &s.parentMobile, &s.barcode, &s.grade); err != nil {
			return nil, fmt.Errorf("failed to scan legacy student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func readLegacyAttendance(tx *sql.Tx) ([]legacyAttendance, error) {
	cols, err := tableColumns(tx, "attendance")
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, nil
	}

	rows, err := tx.Query("SELECT id, student_id, date, marks FROM attendance ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy attendance: %w", err)
	}
	defer rows.Close()

	var records []legacyAttendance
	for rows.Next() {
		var a legacyAttendance
		if err := rows.Scan(&a.id, &a.studentID, &a.date, &a.marks); err != nil {
			return nil, fmt.Errorf("failed to scan legacy attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

const centersTable = `
CREATE TABLE IF NOT EXISTS centers (
    id INTEGER PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    created_at TEXT
)`

const studentsTable = `
CREATE TABLE IF NOT EXISTS students (
    id INTEGER PRIMARY KEY,
    name TEXT,
    mobile TEXT,
    center_id INTEGER,
    learning_type TEXT,
    parent_mobile TEXT,
    barcode TEXT UNIQUE,
    grade TEXT,
    FOREIGN KEY(center_id) REFERENCES centers(id)
)`

// No uniqueness on (student_id, date): every scan is its own row.
const attendanceTable = `
CREATE TABLE IF NOT EXISTS attendance (
    id INTEGER PRIMARY KEY,
    student_id INTEGER,
    date TEXT,
    marks INTEGER,
    FOREIGN KEY(student_id) REFERENCES students(id)
)`

const indexes = `
CREATE INDEX IF NOT EXISTS idx_attendance_student_id ON attendance(student_id);
CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date);
`
