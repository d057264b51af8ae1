// Loads the sample lessons into an empty database.
//
// The server does this on startup when seed.enabled is true. This script is
// for databases where seeding was switched off, or to load a different file.
//
// Usage: go run scripts/seed_lessons.go [-file configs/seed_lessons.yaml]

package main

import (
	"flag"
	"log"
	"nihongo_backend/internal/config"
	"nihongo_backend/pkg/database"
	"nihongo_backend/pkg/logger"
)

func main() {
	file := flag.String("file", "", "seed file (defaults to seed.lessons_file from the config)")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)

	path := cfg.Seed.LessonsFile
	if *file != "" {
		path = *file
	}

	lessons, err := database.LoadSeedLessons(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	n, err := database.SeedLessons(db, lessons)
	if err != nil {
		log.Fatalf("Failed to seed lessons: %v", err)
	}
	if n == 0 {
		log.Println("Lessons table is not empty, nothing inserted")
		return
	}
	log.Printf("Inserted %d lessons", n)
}
