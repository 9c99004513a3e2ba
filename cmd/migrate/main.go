// Package main provides a CLI tool for running database migrations.
package main

import (
	"flag"
	"log"

	"github.com/stevenovak55/bmnboston-sub015/internal/config"
	"github.com/stevenovak55/bmnboston-sub015/internal/storage"
)

func main() {
	action := flag.String("action", "up", "Migration action: up, down, version")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch *action {
	case "up":
		log.Println("Running migrations...")
		if err := storage.RunMigrations(&cfg.Database.Postgres); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
	case "down":
		log.Println("Rolling back last migration...")
		if err := storage.RollbackMigrations(&cfg.Database.Postgres); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Println("Rollback completed successfully")
	case "version":
		version, dirty, err := storage.MigrationVersion(&cfg.Database.Postgres)
		if err != nil {
			log.Fatalf("Failed to read migration version: %v", err)
		}
		log.Printf("Current version: %d (dirty: %v)", version, dirty)
	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}
