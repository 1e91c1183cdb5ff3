package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/vacancy-scraper/infrastructure"
	"github.com/vacancy-scraper/internal/config"
	"github.com/vacancy-scraper/internal/logging"
	"github.com/vacancy-scraper/internal/models"
	"github.com/vacancy-scraper/internal/pipeline"
	"github.com/vacancy-scraper/internal/repo"
	"github.com/vacancy-scraper/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	var vacancyRepo *repo.VacancyRepository
	dbConfig := infrastructure.LoadConfigFromEnv()
	if dbConfig.Enabled() {
		vacancyRepo = connectMirror(dbConfig, logger)
	}

	scraper, err := pipeline.NewScraper(pipeline.Config{
		BaseURL:        cfg.BaseURL,
		RequestTimeout: cfg.RequestTimeout,
	}, utils.NewBrowserHeaders(), logger)
	if err != nil {
		log.Fatalf("Failed to create scraper: %v", err)
	}

	vacancyPipeline := pipeline.NewVacancyPipeline(scraper, models.SearchQuery{
		Areas:        cfg.Areas,
		Text:         cfg.SearchText,
		SearchPeriod: cfg.SearchPeriod,
		OrderBy:      "publication_time",
	}, cfg.MaxPages, cfg.FilterKeywords, logger)

	result := vacancyPipeline.Run(context.Background())

	switch result.Outcome() {
	case pipeline.OutcomeCompleted:
		logger.Info("scraping finished", "pages", result.PagesVisited, "matched", len(result.Vacancies))
	case pipeline.OutcomeTransportFailure:
		logger.Error("error during request", "error", result.Err, "pages", result.PagesVisited, "matched", len(result.Vacancies))
	case pipeline.OutcomeStructureFailure:
		logger.Error("unexpected page structure", "error", result.Err, "pages", result.PagesVisited, "matched", len(result.Vacancies))
	default:
		logger.Error("an unexpected error occurred", "error", result.Err, "pages", result.PagesVisited, "matched", len(result.Vacancies))
	}

	fileRepo := repo.NewVacancyFileRepository(cfg.OutputFile)
	if err := fileRepo.SaveVacancies(result.Vacancies); err != nil {
		logger.Error("failed to write vacancies", "file", cfg.OutputFile, "error", err)
		logger.Sync()
		log.Fatalf("Failed to write %s: %v", cfg.OutputFile, err)
	}
	logger.Info("vacancies written", "file", cfg.OutputFile, "count", len(result.Vacancies))

	if vacancyRepo != nil {
		runID, err := vacancyRepo.SaveVacancies(result.Vacancies)
		if err != nil {
			logger.Error("failed to mirror vacancies to db", "error", err)
			return
		}
		logger.Info("vacancies mirrored to db", "run_id", runID, "count", len(result.Vacancies))
	}
}

// connectMirror returns nil when the database is unreachable; the JSON file is still written.
func connectMirror(dbConfig infrastructure.DBConfig, logger *logging.Logger) *repo.VacancyRepository {
	db, err := infrastructure.NewConnection(dbConfig)
	if err != nil {
		logger.Error("error connecting to db", "error", err)
		return nil
	}

	if err := db.Ping(); err != nil {
		logger.Error("error pinging db", "host", dbConfig.Host, "error", err)
		return nil
	}

	// Run database migrations
	if err := infrastructure.RunMigrations(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		return nil
	}

	logger.Info("successfully connected to db", "host", dbConfig.Host)
	return repo.NewVacancyRepository(db)
}
