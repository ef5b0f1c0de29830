package main

import (
	"log"

	"github.com/relabs-tech/marine_dashboard/internal/app"
	"github.com/relabs-tech/marine_dashboard/internal/config"
)

func main() {
	log.Println("starting marine-dashboard console (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal("marine_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
