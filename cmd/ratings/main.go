// Command ratings rebuilds the rating columns of every vehicle from its reviews.
package main

import (
	"context"
	"prestige/config"
	"prestige/di"
	"prestige/shared/logger"
	"time"

	"github.com/rs/zerolog/log"
)

const timeout = 10 * time.Minute

func main() {
	logger.InitLogger()

	logger.Configure(config.Get())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	count, err := di.InitializeAggregator().RecomputeAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Int("vehicles", count).Msg("Rating recompute failed")
	}

	log.Info().Int("vehicles", count).Msg("Ratings recomputed")
}
