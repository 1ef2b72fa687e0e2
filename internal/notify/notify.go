// Package notify sends user-facing emails. Delivery is best effort.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/Skotchmaster/football_store/pkg/logging"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp: host is required")
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	if from == "" {
		return nil, errors.New("smtp: sender address is required")
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   from,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(s.build(msg)); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}

// LogSender stands in for SMTP when it is not configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	l := s.Logger
	if l == nil {
		l = logging.FromContext(ctx)
	}
	l.Info("email_not_sent", "reason", "smtp disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}

type Notifier struct {
	Sender Sender
}

// Notify never fails the caller; delivery errors are logged.
func (n *Notifier) Notify(ctx context.Context, to, subject, body string) {
	l := logging.FromContext(ctx).With("component", "notify")
	if n == nil || n.Sender == nil {
		l.Warn("email_skipped", "to", to, "reason", "no sender")
		return
	}

	if err := n.Sender.Send(ctx, Message{To: to, Subject: subject, Body: body}); err != nil {
		l.Error("email_send_error", "to", to, "subject", subject, "error", err)
		return
	}
	l.Debug("email_sent", "to", to, "subject", subject)
}
