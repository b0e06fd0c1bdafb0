package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/spounge-ai/playerkits/internal/infra/config"
)

// Usage: migrate [up|down|version]
func main() {
	cfg, err := config.Load(os.Getenv("PLAYERKITS_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	dbURL := cfg.Persistence.Database.URL
	if dbURL == "" {
		log.Fatal("persistence.database.url is not configured")
	}

	source := os.Getenv("PLAYERKITS_MIGRATIONS")
	if source == "" {
		source = "file://migrations"
	}
	m, err := migrate.New(source, dbURL)
	if err != nil {
		log.Fatalf("failed to create migration instance: %v", err)
	}
	defer m.Close()

	action := "up"
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	switch action {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatalf("failed to read version: %v", verr)
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return
	default:
		log.Fatalf("unknown action %q (want up, down or version)", action)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration %s failed: %v", action, err)
	}
	fmt.Printf("Migrations %s completed successfully.\n", action)

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database for verification: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name`)
	if err != nil {
		log.Fatalf("failed to query tables: %v", err)
	}
	defer rows.Close()

	fmt.Println("Tables found:")
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			log.Fatalf("failed to scan table name: %v", err)
		}
		fmt.Printf("- %s\n", name)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("failed to list tables: %v", err)
	}
}
