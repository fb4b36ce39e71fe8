// Command notifier tells the rental admins about every new review.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"prestige/config"
	"prestige/infras/kafka"
	"prestige/internal/domains/review/model/dto"
	"prestige/shared/logger"
	"syscall"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const defaultConsumerGroup = "prestige-notifier"

func notify(_ context.Context, msg kafkaGo.Message) error {
	event, err := kafka.Decode[dto.ReviewCreatedEvent](msg)
	if err != nil {
		// commit it anyway, redelivery cannot fix a bad payload
		log.Error().Err(err).Int64("offset", msg.Offset).Msg("skipping undecodable review event")

		return nil
	}

	log.Info().
		Str("reviewID", event.ReviewID).
		Str("vehicle", event.VehicleName).
		Int("rating", event.Rating).
		Bool("public", event.IsPublic).
		Msg("New review waiting for moderation")

	return nil
}

func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.Configure(cfg)

	group := cfg.Kafka.ConsumerGroup
	if group == "" {
		group = defaultConsumerGroup
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := kafka.New(cfg)
	defer client.Close()

	log.Info().Str("topic", cfg.ReviewCreatedTopic()).Str("group", group).Msg("Listening for review events")

	if err := client.Consume(ctx, group, cfg.ReviewCreatedTopic(), notify); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Review consumer stopped")
	}
}
