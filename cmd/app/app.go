package main

import (
	"os"

	"github.com/ecosort-tech/go-backend/internal/app"
	config "github.com/ecosort-tech/go-backend/internal/cfg"
	"github.com/ecosort-tech/go-backend/pkg/logger"
	"github.com/joho/godotenv"
)

//	@title						EcoSort Prediction API
//	@version					1.0
//	@description				Классификация изображений отходов и история предсказаний
//	@host						localhost:8080
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Firebase ID token: Bearer <token>
func main() {
	log := logger.NewSlogLogger()

	// .env необязателен, переменные окружения приоритетнее
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env: %v", err)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
