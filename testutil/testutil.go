// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/center-roll/cliparse"
	"github.com/danielhkuo/center-roll/db"
	"github.com/danielhkuo/center-roll/models"
)

// Today is the fixed date test clocks report
const Today = "2025-03-10"

// Clock returns a fixed time on Today, for store.WithClock
func Clock() time.Time {
	return time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)
}

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabasePath: db.MemoryPath,
		LogLevel:     "info",
	}
}

// CreateTestCenter inserts a center and returns its ID
func CreateTestCenter(t *testing.T, conn *sql.DB, name string) int64 {
	t.Helper()

	res, err := conn.Exec(`
		INSERT INTO centers (name, created_at)
		VALUES (?, ?)
	`, name, Clock().Format(models.TimestampLayout))
	if err != nil {
		t.Fatalf("Failed to create test center: %v", err)
	}

	id, _ := res.LastInsertId()
	return id
}

// TestStudent returns a valid student input for the given center and barcode
func TestStudent(centerID int64, name, barcode string) models.StudentInput {
	return models.StudentInput{
		Name:         name,
		Mobile:       "01012345678",
		CenterID:     centerID,
		LearningType: models.LearningScientific,
		ParentMobile: "01187654321",
		Barcode:      barcode,
		Grade:        "G3",
	}
}

// CreateTestStudent inserts a student and returns its ID
func CreateTestStudent(t *testing.T, conn *sql.DB, in models.StudentInput) int64 {
	t.Helper()

	res, err := conn.Exec(`
		INSERT INTO students (name, mobile, center_id, learning_type, parent_mobile, barcode, grade)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, in.Name, in.Mobile, in.CenterID, in.LearningType, in.ParentMobile, in.Barcode, in.Grade)
	if err != nil {
		t.Fatalf("Failed to create test student: %v", err)
	}

	id, _ := res.LastInsertId()
	return id
}

// CreateTestAttendance inserts an attendance row and returns its ID
func CreateTestAttendance(t *testing.T, conn *sql.DB, studentID int64, date, marks string) int64 {
	t.Helper()

	res, err := conn.Exec(`
		INSERT INTO attendance (student_id, date, marks)
		VALUES (?, ?, ?)
	`, studentID, date, marks)
	if err != nil {
		t.Fatalf("Failed to create test attendance: %v", err)
	}

	id, _ := res.LastInsertId()
	return id
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
