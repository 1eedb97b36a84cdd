package main

import (
	"fmt"
	"log"
	"os"

	"ladder-api/config"
	"ladder-api/fixtures"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.ConnectDatabase()
	fixtureManager := fixtures.NewFixtures(config.DB)

	if len(os.Args) < 2 || os.Args[1] != "generate" {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/fixtures generate - Seed dev users and play fixture games")
		return
	}

	if err := fixtureManager.GenerateTestData(); err != nil {
		log.Fatal("Fixtures generation failed:", err)
	}
}
