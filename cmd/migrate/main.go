package main

import (
	"errors"
	"os"
	"prestige/config"
	"prestige/helper"
	"prestige/shared/logger"

	"github.com/rs/zerolog/log"
)

const argLength = 2

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action (up/step-up/down/drop) is required")
	}

	cfg := config.Get()

	logger.Configure(cfg)

	if err := helper.Run(cfg, helper.Action(os.Args[1])); err != nil {
		if errors.Is(err, helper.ErrUnknownAction) {
			log.Fatal().Err(err).Msg("Use 'up', 'step-up', 'down' or 'drop'")
		}

		log.Fatal().Err(err).Msg("Migration failed")
	}
}
