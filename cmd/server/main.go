package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"govista/adapters/stats"
	"govista/adapters/tabular"
	"govista/app"
	"govista/domain/indicator"
	"govista/internal/config"
	"govista/internal/testkit"
	"govista/ui"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	dataset, err := loadDataset(cfg)
	if err != nil {
		log.Fatal("Failed to load dataset:", err)
	}

	engine := stats.NewEngine()
	service := app.NewAnalyticsService(dataset, engine, engine, cfg.Data.HistogramBins)

	dashboard, err := ui.NewApp(ui.Config{Port: cfg.Server.Port}, service)
	if err != nil {
		log.Fatal("Failed to create dashboard app:", err)
	}

	log.Printf("Starting dashboard API on http://localhost:%s", cfg.Server.Port)
	log.Fatal(dashboard.Start())
}

// loadDataset reads the configured data file, or falls back to the
// synthetic demo dataset when none is configured
func loadDataset(cfg *config.Config) (*indicator.Dataset, error) {
	if cfg.Data.File == "" {
		log.Println("DATA_FILE not set, serving the synthetic demo dataset")
		return testkit.NewKit().GenerateDataset(), nil
	}
	return tabular.NewReader(cfg.Data.File).Load(context.Background())
}
