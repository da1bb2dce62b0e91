package consumer

import (
	"context"
	"guestroom/config"
	"guestroom/infras/kafka"
	notificationService "guestroom/internal/domains/notification/service"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Consumer delivers notifications queued on the notification topic.
type Consumer struct {
	Config   *config.Config
	Kafka    kafka.Client
	Notifier notificationService.Notifier
}

func New(cfg *config.Config, client kafka.Client, notifier notificationService.Notifier) *Consumer {
	return &Consumer{
		Config:   cfg,
		Kafka:    client,
		Notifier: notifier,
	}
}

// Run blocks until SIGINT or SIGTERM.
func (c *Consumer) Run() {
	if !c.Kafka.Enabled() {
		log.Fatal().Msg("KAFKA_BROKERS is empty, nothing to consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topic := c.Config.Kafka.NotificationTopic

	log.Info().Str("topic", topic).Msg("Starting notification consumer.")

	c.Kafka.Consume(ctx, c.Config.Kafka.ConsumerGroup, topic, c.Notifier.HandleMessage)

	if err := c.Kafka.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Kafka client")
	}

	log.Info().Msg("Notification consumer stopped.")
}
