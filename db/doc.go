// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the SQLite store and keeps its schema current.

# Opening

	conn, err := db.Open("students.db")

Open uses the pure-Go modernc.org/sqlite driver and pins the pool to a
single connection. db.MemoryPath gives a private in-memory store for tests.

# Schema Creation

CreateSchema initializes all required tables:

	report, err := db.CreateSchema(conn)

Safe to call on every start - uses IF NOT EXISTS for all tables and indexes.

# Legacy Migration

Early stores kept the center as free text in students.center_name. When
that column is present and students.center_id is not, CreateSchema:

  - reads every student and attendance row
  - recreates students with center_id, creating one center per distinct name
  - re-inserts students with their original ids
  - recreates attendance and re-inserts every row unchanged

All of it runs in one transaction; any error leaves the store untouched.
There is no later schema version, so once migrated the check is a no-op.

# Tables

  - centers: id, name (unique), created_at
  - students: id, name, mobile, center_id, learning_type, parent_mobile,
    barcode (unique), grade
  - attendance: id, student_id, date (YYYY-MM-DD), marks

# Relationships

	centers 1──* students
	students 1──* attendance

Foreign keys are declared but not enforced. Deleting a center removes its
students and their attendance explicitly (see package store); deleting a
student leaves its attendance rows in place.
*/
package db
