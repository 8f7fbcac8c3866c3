// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabasePath: SQLite file (default: students.db)
  - LogLevel: debug, info, warn or error (default: info)
  - LicenseSalt: Secret for the station license check (optional)
  - LicenseKey: License key issued for this station
  - StationSerial: Serial number the key was issued for
  - SeedStudents: Number of demo students to generate
  - SeedMonth: Month (YYYY-MM) to generate demo attendance for

# CLI Flags

	-p               Server port
	-d               Database file
	-log-level       Log level
	-license-salt    License salt
	-license-key     License key
	-station         Station serial
	-seed-students   Demo students to generate
	-seed-month      Demo attendance month

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_PATH   → -d
	LOG_LEVEL       → -log-level
	LICENSE_SALT    → -license-salt
	LICENSE_KEY     → -license-key
	STATION_SERIAL  → -station
	SEED_STUDENTS   → -seed-students
	SEED_MONTH      → -seed-month

CLI flags take precedence over environment variables. LoadEnv reads a .env
file into the environment first; variables that are already set win.

# Example

	// In main.go
	if err := cliparse.LoadEnv(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
*/
package cliparse
