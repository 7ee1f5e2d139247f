package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/injhive/injhive/internal/app"
)

func main() {
	// A .env in the working directory supplies keys in development.
	_ = godotenv.Load()
	os.Exit(app.Execute())
}
