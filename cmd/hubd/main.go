package main

import (
	"log"

	"github.com/assistantai/hub/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ hub failed to start: %v", err)
	}
}
