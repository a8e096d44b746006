// Headless JSON API for the wine quality predictor: the same inference
// service as the web UI, without templates or history.
package main

import (
	"encoding/json"
	"log"
	"net/http"

	"winesense/adapters/model"
	"winesense/app"
	"winesense/domain/wine"
	"winesense/internal/config"
	"winesense/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	scaler, err := model.LoadScaler(appConfig.Artifacts.ScalerPath())
	if err != nil {
		log.Fatalf("Failed to load scaler artifact: %v", err)
	}
	classifier, err := model.LoadClassifier(appConfig.Artifacts.ClassifierPath())
	if err != nil {
		log.Fatalf("Failed to load classifier artifact: %v", err)
	}

	service := app.NewInferenceService(scaler, classifier)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/predict", func(w http.ResponseWriter, r *http.Request) {
		var sample wine.Sample
		if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "invalid request body", "code": errors.CodeInvalidInput})
			return
		}

		prediction, err := service.Predict(r.Context(), sample)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.HasCode(err, errors.CodeScalingError) {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, map[string]string{"error": err.Error(), "code": errors.GetCode(err)})
			return
		}
		writeJSON(w, http.StatusOK, prediction)
	})

	r.Get("/importances", func(w http.ResponseWriter, r *http.Request) {
		ranked, err := service.RankedFeatureImportances()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": err.Error(), "code": errors.GetCode(err)})
			return
		}
		writeJSON(w, http.StatusOK, ranked)
	})

	r.Get("/presets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, wine.Presets())
	})

	addr := ":" + appConfig.Server.Port
	log.Printf("Starting winesense API on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal("Server failed:", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
