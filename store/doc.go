// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store runs every filtered query and mutation against the SQLite store.

# Filters

List operations take a filter object from models. Each non-empty field adds
one parameterized clause; empty fields leave that dimension unfiltered:

	students, err := s.ListStudents(ctx, models.StudentFilter{Center: "Main", Grade: "G3"})

AttendanceFilter defaults to today's rows (models.NewAttendanceFilter).
Reports require a barcode and accept a month as MM-YYYY.

# Today

"Today" is the local calendar date from the store's clock. Tests pin it:

	s := store.New(conn, store.WithClock(fixed))

# Errors

Operations return one of the sentinel errors, wrapped with context:

  - ErrInvalidInput: validation failures, bad marks or month
  - ErrBarcodeRequired: a report without a barcode
  - ErrNotFound: unknown id or barcode
  - ErrDuplicateBarcode, ErrDuplicateCenter: uniqueness violations

Test with errors.Is. Nothing is written when an operation fails.

# Deletes

DeleteCenter removes the center's attendance, then its students, then the
center, in one transaction. DeleteStudent removes only the student; its
attendance rows stay and drop out of every joined list.
*/
package store
