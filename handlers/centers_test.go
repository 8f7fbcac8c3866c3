// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/center-roll/models"
	"github.com/danielhkuo/center-roll/store"
	"github.com/danielhkuo/center-roll/testutil"
)

// setupStore returns a store over a fresh in-memory database with the
// clock fixed on testutil.Today
func setupStore(t *testing.T) (*store.Store, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return store.New(conn, store.WithClock(testutil.Clock)), conn
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func withID(req *http.Request, id int64) *http.Request {
	req.SetPathValue("id", itoa(id))
	return req
}

func TestCreateCenter(t *testing.T) {
	s, conn := setupStore(t)
	handler := NewCenterHandler(s, testutil.GetTestConfig())
	testutil.CreateTestCenter(t, conn, "Main")

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"valid center", models.CenterRequest{Name: "Branch"}, http.StatusCreated},
		{"duplicate name", models.CenterRequest{Name: "Main"}, http.StatusConflict},
		{"empty name", models.CenterRequest{Name: "  "}, http.StatusBadRequest},
		{"invalid JSON", "not json", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/centers", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CreateCenter(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.CreatedResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ID == 0 {
					t.Error("Expected a center id")
				}
			}
		})
	}
}

func TestListCenters(t *testing.T) {
	s, conn := setupStore(t)
	handler := NewCenterHandler(s, testutil.GetTestConfig())
	testutil.CreateTestCenter(t, conn, "Main")
	testutil.CreateTestCenter(t, conn, "Branch")

	t.Run("centers", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListCenters(w, testutil.MakeRequest("GET", "/centers", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var centers []models.Center
		testutil.AssertJSON(t, w, &centers)
		if len(centers) != 2 || centers[0].Name != "Branch" {
			t.Errorf("Expected newest first, got %+v", centers)
		}
	})

	t.Run("names", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CenterNames(w, testutil.MakeRequest("GET", "/centers/names", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var names []string
		testutil.AssertJSON(t, w, &names)
		if len(names) != 2 || names[0] != "Branch" || names[1] != "Main" {
			t.Errorf("Expected alphabetical names, got %v", names)
		}
	})
}

func TestRenameCenter(t *testing.T) {
	s, conn := setupStore(t)
	handler := NewCenterHandler(s, testutil.GetTestConfig())
	mainID := testutil.CreateTestCenter(t, conn, "Main")
	testutil.CreateTestCenter(t, conn, "Branch")

	tests := []struct {
		name           string
		id             string
		body           interface{}
		expectedStatus int
	}{
		{"rename", itoa(mainID), models.CenterRequest{Name: "Central"}, http.StatusOK},
		{"name taken", itoa(mainID), models.CenterRequest{Name: "Branch"}, http.StatusConflict},
		{"unknown center", "999", models.CenterRequest{Name: "Ghost"}, http.StatusNotFound},
		{"bad id", "abc", models.CenterRequest{Name: "Ghost"}, http.StatusBadRequest},
		{"zero id", "0", models.CenterRequest{Name: "Ghost"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PUT", "/centers/"+tt.id, tt.body, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.RenameCenter(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var c models.Center
				testutil.AssertJSON(t, w, &c)
				if c.Name != "Central" {
					t.Errorf("Expected renamed center, got %+v", c)
				}
			}
		})
	}
}

func TestDeleteCenter(t *testing.T) {
	s, conn := setupStore(t)
	handler := NewCenterHandler(s, testutil.GetTestConfig())

	mainID := testutil.CreateTestCenter(t, conn, "Main")
	studentID := testutil.CreateTestStudent(t, conn, testutil.TestStudent(mainID, "Ali", "AB12345678"))
	testutil.CreateTestAttendance(t, conn, studentID, testutil.Today, "")
	testutil.CreateTestAttendance(t, conn, studentID, "2025-03-09", "70")

	w := httptest.NewRecorder()
	handler.DeleteCenter(w, withID(testutil.MakeRequest("DELETE", "/centers/1", nil, nil), mainID))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.DeleteCenterResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.CenterID != mainID || resp.Removed.Students != 1 || resp.Removed.Attendance != 2 {
		t.Errorf("Unexpected delete response: %+v", resp)
	}

	w = httptest.NewRecorder()
	handler.DeleteCenter(w, withID(testutil.MakeRequest("DELETE", "/centers/1", nil, nil), mainID))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
