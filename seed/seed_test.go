// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/center-roll/models"
	"github.com/danielhkuo/center-roll/store"
	"github.com/danielhkuo/center-roll/testutil"
)

func newTestSeeder(t *testing.T) (*Seeder, *store.Store) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, store.WithClock(testutil.Clock))
	return New(s, rand.New(rand.NewPCG(1, 2))), s
}

func TestWeekdays(t *testing.T) {
	tests := []struct {
		month     time.Time
		wantCount int
		wantFirst string
		wantLast  string
	}{
		{time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC), 22, "2024-08-01", "2024-08-30"},
		{time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), 21, "2025-03-03", "2025-03-31"},
		{time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), 20, "2025-02-03", "2025-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.month.Format("2006-01"), func(t *testing.T) {
			days := Weekdays(tt.month)
			if len(days) != tt.wantCount {
				t.Fatalf("Weekdays() returned %d days, want %d", len(days), tt.wantCount)
			}
			if days[0] != tt.wantFirst || days[len(days)-1] != tt.wantLast {
				t.Errorf("range = %s..%s, want %s..%s", days[0], days[len(days)-1], tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestCentersIdempotent(t *testing.T) {
	sd, s := newTestSeeder(t)
	ctx := context.Background()

	first, err := sd.Centers(ctx)
	if err != nil {
		t.Fatalf("Centers() error = %v", err)
	}
	second, err := sd.Centers(ctx)
	if err != nil {
		t.Fatalf("second Centers() error = %v", err)
	}
	if len(first) != len(centerNames) || len(second) != len(first) {
		t.Fatalf("got %d then %d centers, want %d", len(first), len(second), len(centerNames))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("center %d id changed from %d to %d", i, first[i], second[i])
		}
	}

	centers, err := s.ListCenters(ctx)
	if err != nil {
		t.Fatalf("ListCenters() error = %v", err)
	}
	if len(centers) != len(centerNames) {
		t.Errorf("store has %d centers, want %d", len(centers), len(centerNames))
	}
}

func TestStudents(t *testing.T) {
	sd, s := newTestSeeder(t)
	ctx := context.Background()

	n, err := sd.Students(ctx, 30)
	if err != nil {
		t.Fatalf("Students() error = %v", err)
	}
	if n != 30 {
		t.Errorf("Students() = %d, want 30", n)
	}

	students, err := s.ListStudents(ctx, models.StudentFilter{})
	if err != nil {
		t.Fatalf("ListStudents() error = %v", err)
	}
	if len(students) != 30 {
		t.Fatalf("store has %d students, want 30", len(students))
	}

	barcodes := make(map[string]bool)
	for _, st := range students {
		if barcodes[st.Barcode] {
			t.Errorf("duplicate barcode %q", st.Barcode)
		}
		barcodes[st.Barcode] = true

		for _, m := range []string{st.Mobile, st.ParentMobile} {
			if len(m) != 11 {
				t.Errorf("mobile %q has length %d, want 11", m, len(m))
			}
			ok := false
			for _, p := range mobilePrefixes {
				ok = ok || strings.HasPrefix(m, p)
			}
			if !ok {
				t.Errorf("mobile %q has an unknown prefix", m)
			}
		}
		if st.CenterName == "" {
			t.Errorf("student %d has no center", st.ID)
		}
	}
}

func TestAttendance(t *testing.T) {
	sd, s := newTestSeeder(t)
	ctx := context.Background()

	if _, err := sd.Attendance(ctx, time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)); !errors.Is(err, ErrNoStudents) {
		t.Fatalf("Attendance() on empty store error = %v, want ErrNoStudents", err)
	}

	if _, err := sd.Students(ctx, 20); err != nil {
		t.Fatalf("Students() error = %v", err)
	}

	n, err := sd.Attendance(ctx, time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Attendance() error = %v", err)
	}
	// 20 students over 22 working days at 60% or more is well past the cap
	if n != MaxAttendance {
		t.Errorf("Attendance() = %d, want %d", n, MaxAttendance)
	}

	rows, err := s.ListAttendance(ctx, models.AttendanceFilter{})
	if err != nil {
		t.Fatalf("ListAttendance() error = %v", err)
	}
	if len(rows) != MaxAttendance {
		t.Fatalf("store has %d attendance rows, want %d", len(rows), MaxAttendance)
	}

	weekdays := make(map[string]bool)
	for _, d := range Weekdays(time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)) {
		weekdays[d] = true
	}
	for _, r := range rows {
		if !weekdays[r.Date] {
			t.Errorf("attendance on %s is not an August 2024 weekday", r.Date)
		}
		if r.Marks == "" {
			t.Errorf("attendance %d has no marks", r.ID)
		}
	}
}
