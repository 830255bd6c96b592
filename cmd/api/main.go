package main

import (
	"log"
	"os"

	"github.com/andreyxaxa/Access-Gate/config"
	"github.com/andreyxaxa/Access-Gate/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// Config
	if _, err := os.Stat(".env"); err == nil {
		err = godotenv.Load()
		if err != nil {
			log.Fatalf("config error: %s", err)
		}
	}

	cfg, err := config.NewAPI()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Run
	app.RunAPI(cfg)
}
