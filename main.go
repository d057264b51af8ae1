// @title Nihongo Learning API
// @version 1.0
// @description Backend of the Japanese vocabulary learning app.

// @host localhost:5000
// @BasePath /api

package main

import (
	"flag"
	"log"
	"nihongo_backend/internal/app"
	"nihongo_backend/internal/config"
	"nihongo_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Database migration completed, exiting")
		return
	}

	application.Run()
}
