// Package server parses server command flags and starts the HTTP service.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	entrypoint "github.com/louisbranch/taskboard/internal/platform/cmd"
	httpserver "github.com/louisbranch/taskboard/internal/server"
	"github.com/louisbranch/taskboard/internal/storage/sqlite"
)

// Config holds server command configuration.
type Config struct {
	HTTPAddr string `env:"TASKBOARD_HTTP_ADDR" envDefault:":8080"`
	DBPath   string `env:"TASKBOARD_DB_PATH" envDefault:"data/taskboard.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the store, applies pending migrations, and serves HTTP until
// the context is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}
		}
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()

		srv, err := httpserver.NewServer(ctx, httpserver.Config{
			HTTPAddr: cfg.HTTPAddr,
			Tasks:    store,
			Items:    store,
			Users:    store,
			Logger:   log.Default(),
		})
		if err != nil {
			return err
		}
		defer srv.Close()

		log.Printf("listening addr=%s db=%s", cfg.HTTPAddr, cfg.DBPath)
		return srv.ListenAndServe(ctx)
	})
}
