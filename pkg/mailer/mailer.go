// Package mailer отправляет письма по SMTP.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"repair-tracker/pkg/config"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Plain   string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New возвращает SMTP-отправителя, если задан MAIL_SERVER, иначе
// отправителя, который пишет письма в лог.
func New(cfg config.MailConfig, logger *zap.Logger) Sender {
	if !cfg.Enabled() {
		logger.Warn("MAIL_SERVER is not set, emails will only be logged")
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg)
}

type SMTPSender struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Plain)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	// gomail не принимает контекст, поэтому ждем отправку не дольше ctx.
	// Брошенная отправка завершится сама по ошибке соединения.
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email to %s: %w", msg.To, ctx.Err())
	}
}

// LogSender пишет письмо в лог вместо отправки. Используется, когда SMTP не настроен.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not sent, SMTP disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
