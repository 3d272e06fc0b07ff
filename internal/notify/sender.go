package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Leganyst/dj-booking/internal/config"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Email struct {
	From        string
	To          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// EmailSender отправляет письмо и возвращает id сообщения у провайдера.
type EmailSender interface {
	Send(ctx context.Context, msg Email) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// NewEmailSender выбирает транспорт: Resend, SMTP или только лог.
func NewEmailSender(cfg config.MailConfig, log *zap.Logger) EmailSender {
	switch {
	case cfg.ResendAPIKey != "":
		log.Info("email transport: resend")
		return NewResendSender(cfg.ResendAPIKey, nil, log)
	case cfg.SMTPEnabled():
		log.Info("email transport: smtp", zap.String("server", cfg.Server), zap.Int("port", cfg.Port))
		return NewSMTPSender(cfg)
	default:
		log.Warn("email transport not configured, emails are only logged")
		return NewLogSender(log)
	}
}

// NewSMSSender возвращает nil, если Twilio не настроен.
func NewSMSSender(cfg config.SMSConfig) SMSSender {
	if !cfg.Enabled() {
		return nil
	}
	return NewTwilioSender(cfg)
}

// LogSender ничего не отправляет, только пишет в лог. Для разработки.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Email) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.log.Info("email (not sent)",
		zap.String("to", strings.Join(msg.To, ",")),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
	)
	// письмо никуда не ушло, вызывающий должен видеть Sent=false
	return "", ErrTransportNotConfigured
}
