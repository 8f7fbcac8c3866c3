// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"testing"
)

const legacySchema = `
CREATE TABLE centers (
    id INTEGER PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    created_date TEXT
);
CREATE TABLE students (
    id INTEGER PRIMARY KEY,
    name TEXT,
    mobile TEXT,
    center_name TEXT,
    learning_type TEXT,
    parent_mobile TEXT,
    barcode TEXT,
    grade TEXT
);
CREATE TABLE attendance (
    id INTEGER PRIMARY KEY,
    student_id INTEGER,
    date TEXT,
    marks INTEGER
);
`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func seedLegacy(t *testing.T, conn *sql.DB) {
	t.Helper()
	stmts := []string{
		legacySchema,
		`INSERT INTO centers (id, name, created_date) VALUES (1, 'Main', '2024-01-01 08:00:00')`,
		`INSERT INTO students VALUES (3, 'Ali', '010', 'Main', 'scientific', '011', 'AB12345678', 'G3')`,
		`INSERT INTO students VALUES (5, 'Badr', '012', 'Branch', 'literary', '015', 'BD12345678', 'G2')`,
		`INSERT INTO students VALUES (9, 'Chris', '010', 'Main', 'literary', '011', 'CH12345678', 'G1')`,
		`INSERT INTO students VALUES (12, 'Dina', '010', '', 'scientific', '011', 'DN12345678', 'G1')`,
		`INSERT INTO attendance VALUES (10, 3, '2025-03-01', 80)`,
		`INSERT INTO attendance VALUES (11, 5, '2025-03-01', NULL)`,
		`INSERT INTO attendance VALUES (14, 9, '2025-03-02', '')`,
	}
	for _, s := range stmts {
		if _, err := conn.Exec(s); err != nil {
			t.Fatalf("failed to seed legacy store: %v", err)
		}
	}
}

func count(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("query %q failed: %v", query, err)
	}
	return n
}

func TestCreateSchemaFresh(t *testing.T) {
	conn := openTestDB(t)

	report, err := CreateSchema(conn)
	if err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	if report.Migrated {
		t.Error("fresh store reported a migration")
	}

	for _, table := range []string{"centers", "students", "attendance"} {
		cols, err := tableColumns(conn, table)
		if err != nil {
			t.Fatalf("tableColumns(%s) error = %v", table, err)
		}
		if len(cols) == 0 {
			t.Errorf("table %s was not created", table)
		}
	}

	legacy, err := IsLegacy(conn)
	if err != nil {
		t.Fatalf("IsLegacy() error = %v", err)
	}
	if legacy {
		t.Error("fresh store reported as legacy")
	}

	// Second run is a no-op
	if _, err := CreateSchema(conn); err != nil {
		t.Fatalf("second CreateSchema() error = %v", err)
	}
}

func TestMigrateLegacy(t *testing.T) {
	conn := openTestDB(t)
	seedLegacy(t, conn)

	legacy, err := IsLegacy(conn)
	if err != nil {
		t.Fatalf("IsLegacy() error = %v", err)
	}
	if !legacy {
		t.Fatal("seeded store not detected as legacy")
	}

	report, err := CreateSchema(conn)
	if err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}

	want := MigrationReport{Migrated: true, Centers: 2, Students: 4, Attendance: 3}
	if report != want {
		t.Errorf("report = %+v, want %+v", report, want)
	}

	cols, err := tableColumns(conn, "students")
	if err != nil {
		t.Fatalf("tableColumns() error = %v", err)
	}
	if cols["center_name"] || !cols["center_id"] {
		t.Errorf("students columns after migration = %v", cols)
	}

	centerCols, err := tableColumns(conn, "centers")
	if err != nil {
		t.Fatalf("tableColumns() error = %v", err)
	}
	if centerCols["created_date"] || !centerCols["created_at"] {
		t.Errorf("centers columns after migration = %v", centerCols)
	}

	// Existing center keeps its id and timestamp
	var createdAt string
	if err := conn.QueryRow("SELECT created_at FROM centers WHERE id = 1").Scan(&createdAt); err != nil {
		t.Fatalf("failed to read Main: %v", err)
	}
	if createdAt != "2024-01-01 08:00:00" {
		t.Errorf("Main created_at = %q", createdAt)
	}

	tests := []struct {
		id     int64
		center sql.NullString
	}{
		{id: 3, center: sql.NullString{String: "Main", Valid: true}},
		{id: 5, center: sql.NullString{String: "Branch", Valid: true}},
		{id: 9, center: sql.NullString{String: "Main", Valid: true}},
		{id: 12},
	}
	for _, tt := range tests {
		var name sql.NullString
		err := conn.QueryRow(`
			SELECT c.name FROM students s LEFT JOIN centers c ON s.center_id = c.id
			WHERE s.id = ?
		`, tt.id).Scan(&name)
		if err != nil {
			t.Fatalf("student %d missing after migration: %v", tt.id, err)
		}
		if name != tt.center {
			t.Errorf("student %d center = %+v, want %+v", tt.id, name, tt.center)
		}
	}

	if n := count(t, conn, "SELECT COUNT(*) FROM attendance WHERE id IN (10, 11, 14)"); n != 3 {
		t.Errorf("attendance ids preserved = %d, want 3", n)
	}
	if n := count(t, conn, "SELECT COUNT(*) FROM attendance WHERE id = 10 AND student_id = 3 AND marks = 80"); n != 1 {
		t.Error("attendance 10 changed during migration")
	}
	if n := count(t, conn, "SELECT COUNT(*) FROM attendance WHERE id = 11 AND marks IS NULL"); n != 1 {
		t.Error("attendance 11 marks not kept as NULL")
	}
}

func TestMigrateLegacyIdempotent(t *testing.T) {
	conn := openTestDB(t)
	seedLegacy(t, conn)

	if _, err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	report, err := CreateSchema(conn)
	if err != nil {
		t.Fatalf("second CreateSchema() error = %v", err)
	}
	if report.Migrated {
		t.Error("second run migrated again")
	}

	if n := count(t, conn, "SELECT COUNT(*) FROM centers"); n != 2 {
		t.Errorf("centers = %d, want 2", n)
	}
	if n := count(t, conn, "SELECT COUNT(*) FROM students"); n != 4 {
		t.Errorf("students = %d, want 4", n)
	}
	if n := count(t, conn, "SELECT COUNT(*) FROM attendance"); n != 3 {
		t.Errorf("attendance = %d, want 3", n)
	}
}

func TestMigrateLegacyWithoutAttendance(t *testing.T) {
	conn := openTestDB(t)
	if _, err := conn.Exec(`
		CREATE TABLE students (id INTEGER PRIMARY KEY, name TEXT, mobile TEXT, center_name TEXT,
			learning_type TEXT, parent_mobile TEXT, barcode TEXT, grade TEXT);
		INSERT INTO students VALUES (1, 'Ali', '010', 'Main', 'scientific', '011', 'AB12345678', 'G3');
	`); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	report, err := CreateSchema(conn)
	if err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	if !report.Migrated || report.Students != 1 || report.Attendance != 0 {
		t.Errorf("report = %+v", report)
	}
	if n := count(t, conn, "SELECT COUNT(*) FROM attendance"); n != 0 {
		t.Errorf("attendance = %d, want 0", n)
	}
}

func TestMigrateLegacyRollback(t *testing.T) {
	conn := openTestDB(t)
	seedLegacy(t, conn)

	// The new schema makes barcodes unique, so this copy cannot be migrated
	if _, err := conn.Exec(
		`INSERT INTO students VALUES (20, 'Copy', '010', 'North', 'scientific', '011', 'AB12345678', 'G3')`,
	); err != nil {
		t.Fatalf("failed to insert duplicate: %v", err)
	}

	if _, err := CreateSchema(conn); err == nil {
		t.Fatal("expected migration to fail on duplicate barcodes")
	}

	legacy, err := IsLegacy(conn)
	if err != nil {
		t.Fatalf("IsLegacy() error = %v", err)
	}
	if !legacy {
		t.Error("failed migration left a partially migrated students table")
	}
	if n := count(t, conn, "SELECT COUNT(*) FROM students"); n != 5 {
		t.Errorf("legacy students = %d, want 5", n)
	}
	if n := count(t, conn, "SELECT COUNT(*) FROM centers"); n != 1 {
		t.Errorf("centers = %d, want 1 after rollback", n)
	}
	cols, err := tableColumns(conn, "centers")
	if err != nil {
		t.Fatalf("tableColumns() error = %v", err)
	}
	if !cols["created_date"] {
		t.Error("centers rename was not rolled back")
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: MemoryPath, want: "file::memory:?_pragma=busy_timeout(5000)"},
		{path: "students.db", want: "students.db?_pragma=busy_timeout(5000)"},
	}
	for _, tt := range tests {
		if got := dsn(tt.path); got != tt.want {
			t.Errorf("dsn(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
