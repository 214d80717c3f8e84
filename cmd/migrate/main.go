// Package main runs taskboard schema migrations.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	migratecmd "github.com/louisbranch/taskboard/internal/cmd/migrate"
	"github.com/louisbranch/taskboard/internal/platform/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	cfg, err := migratecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[MIGRATE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := migratecmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("migration failed: %v", err)
	}
}
