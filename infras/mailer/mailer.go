package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"guestroom/config"
	"guestroom/infras/otel"
	"guestroom/shared/constant"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
	"github.com/rs/zerolog/log"
)

const headerMessageID = "X-Message-Id"

var ErrDisabled = errors.New("mailer disabled: missing api key or sender address")

type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) (messageID string, err error)
	Enabled() bool
}

type mailerSendImpl struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	timeout time.Duration
	enabled bool
	otel    otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Mailer {
	mail := cfg.Mail

	m := &mailerSendImpl{
		enabled: mail.APIKey != "" && mail.FromEmail != "",
		from: mailersend.From{
			Name:  mail.FromName,
			Email: mail.FromEmail,
		},
		timeout: time.Duration(max(mail.TimeoutSecond, 1)) * time.Second,
		otel:    otel,
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(mail.APIKey)

		log.Info().Str("from", mail.FromEmail).Msg("MailerSend client initialized")
	} else {
		log.Warn().Msg("MailerSend is not configured, outgoing email is disabled")
	}

	return m
}

func (m *mailerSendImpl) Enabled() bool {
	return m.enabled
}

func (m *mailerSendImpl) Send(ctx context.Context, msg Message) (messageID string, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelMailerScopeName, constant.OtelMailerScopeName+".Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !m.enabled {
		return "", ErrDisabled
	}

	scope.SetAttribute("mail.subject", msg.Subject)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	message := m.client.Email.NewMessage()
	message.SetFrom(m.from)
	message.SetRecipients([]mailersend.Recipient{{Name: msg.ToName, Email: msg.ToEmail}})
	message.SetSubject(msg.Subject)

	if strings.TrimSpace(msg.Text) != "" {
		message.SetText(msg.Text)
	}

	if strings.TrimSpace(msg.HTML) != "" {
		message.SetHTML(msg.HTML)
	}

	res, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(res.Body)

		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	return res.Header.Get(headerMessageID), nil
}
