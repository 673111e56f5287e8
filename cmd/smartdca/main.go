package main

import (
	"github.com/joho/godotenv"

	"github.com/kenkkoko/SmartDCA-BOT/internal/cli"
)

func main() {
	// A missing .env is fine; hosted deploys inject real environment.
	_ = godotenv.Load()

	cli.Execute()
}
