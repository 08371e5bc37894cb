package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/venuepass/checkin-api/cmd/app"
)

// @contact.name   API Support
// @contact.email  support@venuepass.dev
//
// @license.name  MIT
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
