package main

import (
	"authfront/internal/config"
	"authfront/internal/db"
	"flag"
	"fmt"
	"os"
)

func main() {
	migrationsPath := flag.String("path", "migrations", "directory with SQL migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := db.Migrate(*migrationsPath, cfg.PostgresqlURL); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Migrations applied.")
}
