package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/vncsmyrnk/swingmap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/swingmap/internal/config"
)

var basePath = filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

// Usage: migrations <name|all> [up|down]
func main() {
	if len(os.Args) < 2 {
		log.Fatal("a migration name (or \"all\") is required.")
	}
	migrationName := os.Args[1]
	direction := "up"
	if len(os.Args) > 2 {
		direction = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := postgres.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	files, err := postgres.MigrationFiles(basePath, migrationName, direction)
	if err != nil {
		log.Fatal(err)
	}

	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(basePath, name))
		if err != nil {
			log.Fatal(err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("Failed to execute SQL file %s: %v", name, err)
		}
		fmt.Printf("Migration %s executed successfully.\n", name)
	}
}
