// @title UTransfer
// @version 1.0
// @description Share files across the local network. Every file is protected by a PIN chosen at upload time.

// @BasePath /
// @schemes http

package main

import (
	"log"

	_ "tush00nka/utransfer/docs"
	"tush00nka/utransfer/internal/app"
	"tush00nka/utransfer/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if err := app.Run(cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
