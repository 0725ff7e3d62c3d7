package main

import (
	"log"
	"os"

	"apgcal/app"
	"apgcal/internal"
	"apgcal/internal/api"
	"apgcal/internal/config"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.DefaultLogger
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logger = internal.NewLogger(internal.ParseLogLevel(level))
	}

	svc, err := app.NewServiceFromConfig(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to load calibration table: %v", err)
	}

	server := api.NewServer(svc, appConfig, logger)
	log.Printf("Starting apgcal server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
