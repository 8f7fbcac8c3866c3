// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/center-roll/models"
	"github.com/danielhkuo/center-roll/testutil"
)

func TestCheckIn(t *testing.T) {
	s, conn := setupStore(t)
	handler := NewAttendanceHandler(s, testutil.GetTestConfig())
	centerID := testutil.CreateTestCenter(t, conn, "Main")
	studentID := testutil.CreateTestStudent(t, conn, testutil.TestStudent(centerID, "Ali", "AB12345678"))

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"known barcode", models.CheckInRequest{Barcode: "AB12345678"}, http.StatusCreated},
		{"same student again", models.CheckInRequest{Barcode: "AB12345678"}, http.StatusCreated},
		{"unknown barcode", models.CheckInRequest{Barcode: "ZZ00000000"}, http.StatusNotFound},
		{"empty barcode", models.CheckInRequest{}, http.StatusBadRequest},
		{"invalid JSON", 42, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/attendance/checkin", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CheckIn(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.CheckIn
				testutil.AssertJSON(t, w, &resp)
				if resp.Student.ID != studentID || resp.Date != testutil.Today {
					t.Errorf("Unexpected check-in: %+v", resp)
				}
			}
		})
	}

	if n := testutil.CountRows(t, conn, "attendance"); n != 2 {
		t.Errorf("Expected 2 attendance rows, got %d", n)
	}
}

func TestListAttendance(t *testing.T) {
	s, conn := setupStore(t)
	handler := NewAttendanceHandler(s, testutil.GetTestConfig())

	mainID := testutil.CreateTestCenter(t, conn, "Main")
	branchID := testutil.CreateTestCenter(t, conn, "Branch")
	ali := testutil.CreateTestStudent(t, conn, testutil.TestStudent(mainID, "Ali", "S000000001"))
	chris := testutil.CreateTestStudent(t, conn, testutil.TestStudent(branchID, "Chris", "S000000002"))
	testutil.CreateTestAttendance(t, conn, ali, testutil.Today, "")
	testutil.CreateTestAttendance(t, conn, ali, "2025-03-07", "55")
	testutil.CreateTestAttendance(t, conn, chris, testutil.Today, "")

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		want           int
	}{
		{"today by default", "", http.StatusOK, 2},
		{"all days", "?today=false", http.StatusOK, 3},
		{"today in center", "?center=Main", http.StatusOK, 1},
		{"all days in center", "?center=Main&today=0", http.StatusOK, 2},
		{"other type", "?type=literary", http.StatusOK, 0},
		{"bad today flag", "?today=maybe", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ListAttendance(w, testutil.MakeRequest("GET", "/attendance"+tt.query, nil, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var rows []models.AttendanceRow
				testutil.AssertJSON(t, w, &rows)
				if len(rows) != tt.want {
					t.Errorf("Expected %d rows, got %d", tt.want, len(rows))
				}
			}
		})
	}
}

func TestStats(t *testing.T) {
	s, conn := setupStore(t)
	handler := NewAttendanceHandler(s, testutil.GetTestConfig())

	mainID := testutil.CreateTestCenter(t, conn, "Main")
	branchID := testutil.CreateTestCenter(t, conn, "Branch")
	ali := testutil.CreateTestStudent(t, conn, testutil.TestStudent(mainID, "Ali", "S000000001"))
	testutil.CreateTestStudent(t, conn, testutil.TestStudent(branchID, "Chris", "S000000002"))
	testutil.CreateTestAttendance(t, conn, ali, testutil.Today, "")

	tests := []struct {
		name  string
		query string
		want  models.Stats
	}{
		{"overall", "", models.Stats{Total: 2, Present: 1}},
		{"one center", "?center=Branch", models.Stats{Total: 1, Present: 0, Unfiltered: 2, Filtered: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Stats(w, testutil.MakeRequest("GET", "/attendance/stats"+tt.query, nil, nil))

			testutil.AssertStatus(t, w, http.StatusOK)
			var got models.Stats
			testutil.AssertJSON(t, w, &got)
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestSetMarks(t *testing.T) {
	s, conn := setupStore(t)
	handler := NewAttendanceHandler(s, testutil.GetTestConfig())
	centerID := testutil.CreateTestCenter(t, conn, "Main")
	studentID := testutil.CreateTestStudent(t, conn, testutil.TestStudent(centerID, "Ali", "AB12345678"))
	id := testutil.CreateTestAttendance(t, conn, studentID, testutil.Today, "")

	tests := []struct {
		name           string
		id             int64
		marks          string
		expectedStatus int
	}{
		{"valid marks", id, "88", http.StatusNoContent},
		{"clear marks", id, "", http.StatusNoContent},
		{"out of range", id, "150", http.StatusBadRequest},
		{"not a number", id, "A+", http.StatusBadRequest},
		{"unknown row", 999, "50", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withID(testutil.MakeRequest("PUT", "/attendance/x/marks", models.MarksRequest{Marks: tt.marks}, nil), tt.id)
			w := httptest.NewRecorder()

			handler.SetMarks(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestDeleteAttendance(t *testing.T) {
	s, conn := setupStore(t)
	handler := NewAttendanceHandler(s, testutil.GetTestConfig())
	centerID := testutil.CreateTestCenter(t, conn, "Main")
	studentID := testutil.CreateTestStudent(t, conn, testutil.TestStudent(centerID, "Ali", "AB12345678"))
	id := testutil.CreateTestAttendance(t, conn, studentID, testutil.Today, "")

	w := httptest.NewRecorder()
	handler.DeleteAttendance(w, withID(testutil.MakeRequest("DELETE", "/attendance/x", nil, nil), id))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	handler.DeleteAttendance(w, withID(testutil.MakeRequest("DELETE", "/attendance/x", nil, nil), id))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
