package main

import (
	"github.com/joho/godotenv"

	"iq-home/invoice_backend/internal/app"
)

func main() {
	_ = godotenv.Load()

	app.Run()
}
