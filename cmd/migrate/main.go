package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pageza/reciperoulette/backend/config"
	"github.com/pageza/reciperoulette/backend/internal/database"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "Directory holding the SQL migration files")
	flag.Parse()

	// DATABASE_URL wins so the tool can run outside the service's secrets setup
	var (
		db  *database.DB
		err error
	)
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err = database.Open(dsn)
	} else {
		var cfg *config.Config
		cfg, err = config.LoadConfig()
		if err != nil {
			logrus.Fatalf("Failed to load configuration: %v", err)
		}
		db, err = database.New(cfg)
	}
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, *migrationsDir); err != nil {
		logrus.Fatalf("Migration failed: %v", err)
	}
	logrus.Info("All migrations applied successfully")
}
