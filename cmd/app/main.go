package main

import (
	"guestroom/config"
	"guestroom/di"
	"guestroom/helper"
	"guestroom/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Guest Room Booking API
// @version 1.0
// @description Hostel guest room bookings, enquiries and staff administration.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
