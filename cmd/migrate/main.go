package main

import (
	"flag"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logger"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory holding *.sql migrations applied after the schema")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(string(cfg.Env))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}

	if err := database.RunMigrations(db, *migrationsDir, log); err != nil {
		log.Fatal("Migration failed", "error", err)
	}
	log.Info("All migrations applied successfully")
}
