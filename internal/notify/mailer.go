package notify

import (
	"context"
	"fmt"

	"jp_storefront/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

// Email is one outgoing HTML message.
type Email struct {
	FromName string
	To       string
	Subject  string
	HTML     string
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// SMTPMailer sends through an authenticated SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, e Email) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(e.FromName, m.from); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if err := msg.To(e.To); err != nil {
		return fmt.Errorf("to: %w", err)
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(mail.TypeTextHTML, e.HTML)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Info().Str("to", e.To).Str("subject", e.Subject).Msg("📤 Sending email")
	return client.DialAndSendWithContext(ctx, msg)
}

// LogMailer stands in when SMTP is not configured: it logs and succeeds.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, e Email) error {
	log.Info().Str("to", e.To).Str("subject", e.Subject).Msg("📧 Email logged (SMTP not configured)")
	return nil
}

// MailerFromConfig picks SMTP when configured.
func MailerFromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPEnabled() {
		return NewSMTPMailer(cfg)
	}
	return LogMailer{}
}
