package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/faturado/faturado/internal/config"
	"github.com/faturado/faturado/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	dir := flag.String("dir", "migrations", "Directory containing .sql migration files")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		logger.Fatalw("Failed to list migration files", "error", err)
	}
	if len(files) == 0 {
		logger.Fatalw("No migration files found", "dir", *dir)
	}
	sort.Strings(files)

	if *dryRun {
		logger.Info("Dry run mode - printing migration SQL without executing")
		for _, f := range files {
			sql, err := os.ReadFile(f)
			if err != nil {
				logger.Fatalw("Failed to read migration file", "file", f, "error", err)
			}
			fmt.Printf("-- %s\n%s\n", f, sql)
		}
		return
	}

	dsn := cfg.Postgres.GetDSN()
	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	for _, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			logger.Fatalw("Failed to read migration file", "file", f, "error", err)
		}
		if _, err := db.Exec(string(sql)); err != nil {
			logger.Fatalw("Migration failed", "file", f, "error", err)
		}
		logger.Infow("Applied migration", "file", f)
	}

	fmt.Println("Migration process completed")
}
