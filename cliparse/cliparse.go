// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SeedMonthLayout is the format of -seed-month
const SeedMonthLayout = "2006-01"

type Config struct {
	Port         int
	DatabasePath string
	LogLevel     string

	// Start-up license gate, disabled while LicenseSalt is empty
	LicenseSalt   string
	LicenseKey    string
	StationSerial string

	// Demo data; when either is set the process seeds and exits
	SeedStudents int
	SeedMonth    string
}

// Seeding reports whether the run should generate demo data instead of serving
func (c Config) Seeding() bool {
	return c.SeedStudents > 0 || c.SeedMonth != ""
}

// SlogLevel maps LogLevel onto a slog level
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadEnv loads KEY=value pairs from the given files into the environment.
// Missing files are skipped and variables already set are left alone.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags validates flags and fills unset values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("center-roll", flag.ContinueOnError)

	// Server and store (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabasePath, "d", "", "SQLite database file")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// License (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.LicenseSalt, "license-salt", "", "License salt (prefer env)")
	fs.StringVar(&cfg.LicenseKey, "license-key", "", "License key for this station")
	fs.StringVar(&cfg.StationSerial, "station", "", "Station serial number")

	// Demo data
	fs.IntVar(&cfg.SeedStudents, "seed-students", -1, "Generate this many demo students and exit")
	fs.StringVar(&cfg.SeedMonth, "seed-month", "", "Generate demo attendance for YYYY-MM and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = os.Getenv("DATABASE_PATH")
		if cfg.DatabasePath == "" {
			cfg.DatabasePath = "students.db"
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}

	if cfg.LicenseSalt == "" {
		cfg.LicenseSalt = os.Getenv("LICENSE_SALT")
	}
	if cfg.LicenseKey == "" {
		cfg.LicenseKey = os.Getenv("LICENSE_KEY")
	}
	if cfg.StationSerial == "" {
		cfg.StationSerial = os.Getenv("STATION_SERIAL")
	}

	if cfg.SeedStudents < 0 {
		cfg.SeedStudents = 0
		if n := os.Getenv("SEED_STUDENTS"); n != "" {
			count, err := strconv.Atoi(n)
			if err != nil || count < 0 {
				return Config{}, errors.New("invalid SEED_STUDENTS env variable")
			}
			cfg.SeedStudents = count
		}
	}
	if cfg.SeedMonth == "" {
		cfg.SeedMonth = os.Getenv("SEED_MONTH")
	}
	if cfg.SeedMonth != "" {
		if _, err := time.Parse(SeedMonthLayout, cfg.SeedMonth); err != nil {
			return Config{}, fmt.Errorf("seed month %q must be YYYY-MM", cfg.SeedMonth)
		}
	}

	return cfg, nil
}
