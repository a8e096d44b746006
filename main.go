package main

import (
	"context"
	"embed"
	"log"

	"winesense/adapters/model"
	"winesense/adapters/postgres"
	"winesense/app"
	"winesense/internal/config"
	"winesense/internal/errors"
	"winesense/internal/migration"
	"winesense/ports"
	"winesense/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

//go:embed ui/templates/*.html ui/static/*
var embeddedFiles embed.FS

// loadArtifacts deserializes the fitted scaler and trained classifier.
// Both must load or the process cannot serve predictions; the two files
// are independent so they load in parallel.
func loadArtifacts(cfg config.ArtifactConfig) (*model.StandardScaler, *model.Forest, error) {
	var scaler *model.StandardScaler
	var classifier *model.Forest

	var g errgroup.Group
	g.Go(func() error {
		var err error
		scaler, err = model.LoadScaler(cfg.ScalerPath())
		return err
	})
	g.Go(func() error {
		var err error
		classifier, err = model.LoadClassifier(cfg.ClassifierPath())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return scaler, classifier, nil
}

// initHistory connects the optional prediction-history store. Returns
// nil when no DATABASE_URL is configured.
func initHistory(appConfig *config.Config) (ports.PredictionRepository, *sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, nil, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "database migration failed")
	}

	return postgres.NewPredictionRepository(db), db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	// Artifact loading is the one startup acquisition; a missing or
	// corrupt artifact aborts here and no prediction service starts.
	scaler, classifier, err := loadArtifacts(appConfig.Artifacts)
	if err != nil {
		log.Fatalf("Failed to load model artifacts: %v", err)
	}
	log.Printf("Loaded scaler (%d features) and classifier (%d classes)",
		len(scaler.FeatureNames()), len(classifier.Classes()))

	service := app.NewInferenceService(scaler, classifier)

	history, db, err := initHistory(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize prediction history: %v", err)
	}
	if db != nil {
		defer db.Close()
		log.Println("Prediction history enabled")
	} else {
		log.Println("No DATABASE_URL configured, prediction history disabled")
	}

	server := ui.NewServer(embeddedFiles)
	if err := server.Initialize(service, history, appConfig.Paths.ModelCard); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Starting winesense server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
