// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/center-roll/auth"
	"github.com/danielhkuo/center-roll/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicateBarcode = errors.New("duplicate barcode")
	ErrDuplicateCenter  = errors.New("duplicate center name")
	ErrInvalidInput     = errors.New("invalid input")
	ErrBarcodeRequired  = errors.New("barcode required")
)

// Store runs every list query and mutation against the SQLite store
type Store struct {
	db  *sql.DB
	now func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, which decides what "today" is
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar date as stored in attendance.date
func (s *Store) Today() string {
	return s.now().Format(models.DateLayout)
}

// NewBarcode generates a barcode no student uses yet
func (s *Store) NewBarcode(ctx context.Context) (string, error) {
	for range 8 {
		code, err := auth.GenerateBarcode()
		if err != nil {
			return "", err
		}
		ok, err := s.BarcodeAvailable(ctx, code, 0)
		if err != nil {
			return "", err
		}
		if ok {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to find an unused barcode: %w", ErrDuplicateBarcode)
}

// conditions collects ANDed WHERE clauses and their arguments
type conditions struct {
	clauses []string
	args    []any
}

func (c *conditions) add(clause string, arg any) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, arg)
}

// addIf adds clause only when value is set
func (c *conditions) addIf(clause, value string) {
	if value != "" {
		c.add(clause, value)
	}
}

func (c *conditions) String() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, fe.Field())
	case "oneof":
		return fmt.Errorf("%w: %s must be one of: %s", ErrInvalidInput, fe.Field(),
			strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, fe.Field())
	}
	return fmt.Errorf("%w: %s is invalid", ErrInvalidInput, fe.Field())
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE"))
}
