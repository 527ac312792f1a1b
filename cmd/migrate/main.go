package main

import (
	"database/sql"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/dompetapp/dompet-api/internal/repository"
)

func main() {
	_ = godotenv.Load()

	direction := flag.String("direction", "up", "up applies all pending migrations, down rolls back one step")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	switch *direction {
	case "up":
		err = repository.MigrateUp(db)
	case "down":
		err = repository.MigrateDown(db)
	default:
		slog.Error("unknown direction", "direction", *direction)
		os.Exit(1)
	}

	if err != nil {
		slog.Error("migration failed", "direction", *direction, "error", err)
		os.Exit(1)
	}
	slog.Info("migration complete", "direction", *direction)
}
