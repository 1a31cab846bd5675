package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/andreyxaxa/photo-thumbnailer/config"
	"github.com/andreyxaxa/photo-thumbnailer/internal/app"
)

func main() {
	// Config
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	if _, err := os.Stat(envFile); err == nil {
		err = godotenv.Load(envFile)
		if err != nil {
			log.Fatalf("config error: %s", err)
		}
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("config error: %s", err)
	}

	// Run
	app.Run(cfg)
}
