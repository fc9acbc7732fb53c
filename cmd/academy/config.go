package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"academy/internal/adapters/http/perf"
	"academy/internal/adapters/storage"
	"academy/internal/adapters/storage/catalog"
	favoriteStore "academy/internal/adapters/storage/favorite"
	"academy/internal/adapters/storage/localstorage"
	"academy/internal/application/favorites"
)

// Config is the process configuration. Environment first, flags override.
type Config struct {
	Addr          string
	BaseURL       string
	DBPath        string
	Env           string
	CatalogPath   string
	CSRFKeyHex    string
	ResendKey     string
	ResendFrom    string
	LogLevel      string
	SlowRequestMs int
	SlowQueryMs   int
}

var cfg Config

// loadConfig reads ACADEMY_* variables and applies any flags set on cmd.
func loadConfig(cmd *cobra.Command) Config {
	c := Config{
		Addr:          envOrDefault("ACADEMY_ADDR", ":8080"),
		BaseURL:       envOrDefault("ACADEMY_BASE_URL", "http://localhost:8080"),
		DBPath:        envOrDefault("ACADEMY_DB", "academy.db"),
		Env:           envOrDefault("ACADEMY_ENV", "development"),
		CatalogPath:   os.Getenv("ACADEMY_CATALOG"),
		CSRFKeyHex:    os.Getenv("ACADEMY_CSRF_KEY"),
		ResendKey:     os.Getenv("ACADEMY_RESEND_KEY"),
		ResendFrom:    envOrDefault("ACADEMY_RESEND_FROM", "HTAgency Academy <academy@example.com>"),
		LogLevel:      envOrDefault("ACADEMY_LOG_LEVEL", "info"),
		SlowRequestMs: envInt("ACADEMY_SLOW_REQUEST_MS", 200),
		SlowQueryMs:   envInt("ACADEMY_SLOW_QUERY_MS", 50),
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = flagDB
	}
	if flags.Changed("catalog") {
		c.CatalogPath = flagCatalog
	}
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		c.Addr = serveAddr
	}
	if flags.Lookup("base-url") != nil && flags.Changed("base-url") {
		c.BaseURL = serveBaseURL
	}
	return c
}

// envOrDefault returns the environment variable value or a default.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config_invalid_int", "key", key, "value", v)
		return fallback
	}
	return n
}

// app is the wiring shared by serve and the offline commands.
type app struct {
	db       *sql.DB
	timedDB  *storage.TimedDB
	perf     *perf.Collector
	kv       localstorage.Store
	registry *favorites.Registry
	catalog  *catalog.YAMLStore
}

// openApp opens and migrates the database and loads the catalog.
// POST: caller must call close
func openApp(c Config) (*app, error) {
	courses, err := loadCatalog(c.CatalogPath)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(c.DBPath)
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, c.SlowQueryMs)
	kv := localstorage.NewSQLiteStore(timedDB)
	registry := favorites.NewRegistry(func(visitorID string) favorites.Repository {
		return favoriteStore.NewRepository(kv, visitorID)
	}, slog.Default())

	return &app{
		db:       db,
		timedDB:  timedDB,
		perf:     collector,
		kv:       kv,
		registry: registry,
		catalog:  courses,
	}, nil
}

func (a *app) close() error {
	return a.db.Close()
}

func loadCatalog(path string) (*catalog.YAMLStore, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	courses, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return courses, nil
}
