package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"guestroom/config"
	"guestroom/infras/kafka"
	"guestroom/infras/mailer"
	"guestroom/infras/otel"
	"guestroom/internal/domains/notification/model"
	"guestroom/internal/domains/notification/render"
	"guestroom/shared/constant"
	"sync"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const TransportKafka = "kafka"

// Notifier sends notification emails. Notify never blocks the caller and never fails it:
// delivery problems are logged and traced only.
type Notifier interface {
	Notify(ctx context.Context, notification model.Notification)
	Deliver(ctx context.Context, notification model.Notification) error
	HandleMessage(ctx context.Context, message kafkaGo.Message) error
	// Wait blocks until every pending Notify has finished.
	Wait()
}

type serviceImpl struct {
	mailer   mailer.Mailer
	kafka    kafka.Client
	renderer render.Renderer
	cfg      *config.Config
	otel     otel.Otel
	wg       sync.WaitGroup
}

func New(mailer mailer.Mailer, kafka kafka.Client, renderer render.Renderer, cfg *config.Config, otel otel.Otel) Notifier {
	return &serviceImpl{
		mailer:   mailer,
		kafka:    kafka,
		renderer: renderer,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) viaKafka() bool {
	return s.cfg.Mail.Transport == TransportKafka && s.kafka.Enabled()
}

func (s *serviceImpl) Notify(ctx context.Context, notification model.Notification) {
	c := context.WithoutCancel(ctx)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		var err error

		c, scope := s.otel.NewScope(c, constant.OtelEventScopeName, constant.OtelEventScopeName+".Notify")
		defer scope.End()
		defer func() { scope.TraceIfError(err) }()

		scope.SetAttribute("notification.kind", notification.Kind)

		if s.viaKafka() {
			err = s.kafka.SendMessages(c, s.cfg.Kafka.NotificationTopic, kafka.Message{
				Key:   notification.Kind,
				Value: notification,
			})
			if err != nil {
				log.Error().Err(err).Str("kind", notification.Kind).Msg("failed to publish notification")
			}

			return
		}

		if err = s.Deliver(c, notification); err != nil {
			log.Error().Err(err).Str("kind", notification.Kind).Msg("failed to deliver notification")
		}
	}()
}

func (s *serviceImpl) Wait() {
	s.wg.Wait()
}

// Deliver renders and sends one email per recipient. Every recipient is attempted; the
// failures are joined.
func (s *serviceImpl) Deliver(ctx context.Context, notification model.Notification) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Deliver")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !s.mailer.Enabled() {
		log.Warn().Str("kind", notification.Kind).Msg("mailer disabled, notification dropped")

		return nil
	}

	recipients := notification.Recipients(s.cfg.Mail.ManagerEmails)
	if len(recipients) == 0 {
		log.Debug().Str("kind", notification.Kind).Msg("notification has no recipients")

		return nil
	}

	var errs []error

	for _, recipient := range recipients {
		rendered, err := s.renderer.Render(recipient, notification)
		if err != nil {
			errs = append(errs, fmt.Errorf("render for %s: %w", recipient.Role, err))

			continue
		}

		messageID, err := s.mailer.Send(ctx, mailer.Message{
			ToEmail: recipient.Email,
			ToName:  recipient.Name,
			Subject: rendered.Subject,
			Text:    rendered.Text,
			HTML:    rendered.HTML,
		})
		if err != nil {
			log.Error().Err(err).Str("kind", notification.Kind).Str("role", recipient.Role).Msg("failed to send notification email")
			errs = append(errs, fmt.Errorf("send to %s: %w", recipient.Role, err))

			continue
		}

		log.Info().Str("kind", notification.Kind).Str("role", recipient.Role).Str("message_id", messageID).Msg("notification email sent")
	}

	return errors.Join(errs...)
}

// HandleMessage delivers a notification read from the notification topic.
func (s *serviceImpl) HandleMessage(ctx context.Context, message kafkaGo.Message) error {
	notification, err := kafka.DecodeKafkaMessage[model.Notification](message)
	if err != nil {
		return fmt.Errorf("failed to decode notification: %w", err)
	}

	return s.Deliver(ctx, notification)
}
