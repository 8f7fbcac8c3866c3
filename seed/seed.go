// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package seed fills a store with demo centers, students and a month of attendance.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/center-roll/models"
	"github.com/danielhkuo/center-roll/store"
)

// MaxAttendance caps the rows written by one Attendance call
const MaxAttendance = 100

// ErrNoStudents is returned when attendance is requested for an empty store
var ErrNoStudents = errors.New("no students to record attendance for")

var centerNames = []string{
	"Al Noor Learning Center", "Ibdaa Institute", "Excellence Academy", "Knowledge Center",
	"Success Institute", "Distinction Academy", "Smart Learning Center", "Development Institute",
}

var studentNames = []string{
	"Ahmed Mohamed", "Fatma Ali", "Ali Hassan", "Mariam Ahmed", "Mohamed Abdallah",
	"Khadija Mohamed", "Abdallah Ali", "Aisha Mohamed", "Hassan Ali", "Zeinab Ahmed",
	"Youssef Mohamed", "Nour El Hoda", "Ibrahim Ali", "Rana Mohamed", "Omar Ahmed",
	"Sara Mohamed", "Abdelrahman Ali", "Laila Mohamed", "Mohamed Hassan", "Youssef Ali",
}

var grades = []string{"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5", "Grade 6"}

var mobilePrefixes = []string{"010", "011", "012", "015"}

// Seeder writes demo data through the store
type Seeder struct {
	store *store.Store
	rng   *rand.Rand
}

// New returns a Seeder. A nil rng uses a randomly seeded source.
func New(s *store.Store, rng *rand.Rand) *Seeder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Seeder{store: s, rng: rng}
}

// Centers makes sure every demo center exists and returns their ids
func (sd *Seeder) Centers(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(centerNames))
	for _, name := range centerNames {
		id, err := sd.store.EnsureCenter(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure center %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Students adds n demo students spread over the demo centers
func (sd *Seeder) Students(ctx context.Context, n int) (int, error) {
	centerIDs, err := sd.Centers(ctx)
	if err != nil {
		return 0, err
	}

	for i := range n {
		barcode, err := sd.store.NewBarcode(ctx)
		if err != nil {
			return i, err
		}
		in := models.StudentInput{
			Name:         pick(sd.rng, studentNames),
			Mobile:       sd.mobile(),
			CenterID:     pick(sd.rng, centerIDs),
			LearningType: pick(sd.rng, models.LearningTypes),
			ParentMobile: sd.mobile(),
			Barcode:      barcode,
			Grade:        pick(sd.rng, grades),
		}
		if _, err := sd.store.AddStudent(ctx, in); err != nil {
			return i, fmt.Errorf("failed to add demo student: %w", err)
		}
		if (i+1)%10 == 0 {
			slog.Debug("demo students added", "count", i+1)
		}
	}

	slog.Info("demo students added",
		"count", humanize.Comma(int64(n)),
		"centers", len(centerIDs),
	)
	return n, nil
}

// Attendance records a month of weekday attendance for existing students.
// Each student attends with a fixed probability between 60% and 95%, marks
// are 0 to 100, and at most MaxAttendance rows are kept.
func (sd *Seeder) Attendance(ctx context.Context, month time.Time) (int, error) {
	students, err := sd.store.ListStudents(ctx, models.StudentFilter{})
	if err != nil {
		return 0, err
	}
	if len(students) == 0 {
		return 0, ErrNoStudents
	}

	days := Weekdays(month)

	var records []models.AttendanceRecord
	for _, st := range students {
		p := 0.6 + sd.rng.Float64()*0.35
		for _, day := range days {
			if sd.rng.Float64() < p {
				records = append(records, models.AttendanceRecord{
					StudentID: st.ID,
					Date:      day,
					Marks:     fmt.Sprint(sd.rng.IntN(101)),
				})
			}
		}
	}

	sd.rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
	if len(records) > MaxAttendance {
		records = records[:MaxAttendance]
	}

	n, err := sd.store.RecordAttendance(ctx, records)
	if err != nil {
		return 0, err
	}

	slog.Info("demo attendance added",
		"month", month.Format("January 2006"),
		"rows", humanize.Comma(int64(n)),
		"working_days", len(days),
		"students", humanize.Comma(int64(len(students))),
	)
	return n, nil
}

// Weekdays returns the Monday to Friday dates of month's calendar month
func Weekdays(month time.Time) []string {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	var days []string
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, d.Format(models.DateLayout))
		}
	}
	return days
}

func (sd *Seeder) mobile() string {
	var b strings.Builder
	b.WriteString(pick(sd.rng, mobilePrefixes))
	for range 8 {
		b.WriteByte(byte('0' + sd.rng.IntN(10)))
	}
	return b.String()
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.IntN(len(values))]
}
