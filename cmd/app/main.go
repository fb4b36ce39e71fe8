package main

import (
	"prestige/config"
	"prestige/di"
	"prestige/helper"
	"prestige/shared/logger"

	"github.com/rs/zerolog/log"

	_ "prestige/docs"
)

// @title Prestige Car Rental API
// @version 1.0
// @description Booking backend for a premium car rental: fleet catalogue, bookings, reviews and galleries.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Run(cfg, helper.ActionUp); err != nil {
			log.Fatal().Err(err).Msg("Auto migration failed")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
