package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"nullsim/adapters/engine"
	"nullsim/adapters/memory"
	"nullsim/adapters/postgres"
	"nullsim/adapters/report"
	"nullsim/adapters/rng"
	"nullsim/app"
	"nullsim/internal"
	"nullsim/internal/config"
	"nullsim/ports"
	"nullsim/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	resamplingEngine := engine.NewResamplingEngine(rng.NewStreamAdapter())
	resamplingEngine.SetNumWorkers(cfg.Engine.Workers)

	var runs ports.RunRepositoryPort
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := postgres.InitSchema(db); err != nil {
			log.Fatalf("Failed to initialize database schema: %v", err)
		}
		runs = postgres.NewRunRepository(db)
		logger.Info("persisting runs to postgres")
	} else {
		runs = memory.NewRunRepository()
		logger.Warn("DATABASE_URL not set, keeping runs in memory only")
	}

	service := app.NewTestService(resamplingEngine, runs, report.NewMarkdownRenderer(), cfg.Engine, logger)

	httpApp := ui.NewApp(service, logger)
	if err := httpApp.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
