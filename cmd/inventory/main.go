package main

import (
	"log"

	"github.com/MrSnakeDoc/inventory/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ inventory failed to start: %v", err)
	}
}
