// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/center-roll/auth"
	"github.com/danielhkuo/center-roll/cliparse"
	"github.com/danielhkuo/center-roll/db"
	"github.com/danielhkuo/center-roll/middleware"
	"github.com/danielhkuo/center-roll/router"
	"github.com/danielhkuo/center-roll/seed"
	"github.com/danielhkuo/center-roll/store"
)

func main() {
	// .env first so flags and real env vars still win
	if err := cliparse.LoadEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	// Refuse to touch the store on an unlicensed station
	if err := auth.CheckLicense(cfg.StationSerial, cfg.LicenseKey, cfg.LicenseSalt); err != nil {
		slog.Error("license check failed", "error", err, "station", cfg.StationSerial)
		os.Exit(1)
	}

	// Open SQLite
	dbConn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("database open failed", "error", err, "path", cfg.DatabasePath)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema, migrating a legacy store once
	report, err := db.CreateSchema(dbConn)
	if err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "path", cfg.DatabasePath, "migrated", report.Migrated)

	s := store.New(dbConn)

	if cfg.Seeding() {
		if err := runSeed(s, cfg); err != nil {
			slog.Error("seeding failed", "error", err)
			dbConn.Close()
			os.Exit(1)
		}
		return
	}

	serve(s, cfg)
}

func serve(s *store.Store, cfg cliparse.Config) {
	mux := router.NewRouter(s, cfg)

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	slog.Info("Listening", "port", cfg.Port)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

func runSeed(s *store.Store, cfg cliparse.Config) error {
	ctx := context.Background()
	sd := seed.New(s, nil)

	if cfg.SeedStudents > 0 {
		if _, err := sd.Students(ctx, cfg.SeedStudents); err != nil {
			return err
		}
	}
	if cfg.SeedMonth != "" {
		month, err := time.Parse(cliparse.SeedMonthLayout, cfg.SeedMonth)
		if err != nil {
			return err
		}
		if _, err := sd.Attendance(ctx, month); err != nil {
			return err
		}
	}
	return nil
}

// newLogger writes text to a terminal and JSON otherwise
func newLogger(cfg cliparse.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
