package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"bizboost/api/internal/config"
)

// Mailer dispatches signup verification codes. The transport is a
// collaborator: a failed send surfaces to the caller and the pending
// registration is not persisted.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to string, code string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTP returns a Mailer backed by a plain SMTP relay.
func NewSMTP(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendVerificationCode(ctx context.Context, to string, code string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := buildMessage(m.cfg.From, to, code)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send verification mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send verification mail: %w", ctx.Err())
	}
}

func buildMessage(from string, to string, code string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your Byte-Sized Business Boost verification code\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Your verification code is %s. It expires in a few minutes.\r\n", code)
	return []byte(b.String())
}

type logMailer struct {
	log zerolog.Logger
}

// NewLog returns a development Mailer that only logs the code instead of
// sending it.
func NewLog(log zerolog.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) SendVerificationCode(_ context.Context, to string, code string) error {
	m.log.Info().Str("to", to).Str("code", code).Msg("verification code (dev mailer)")
	return nil
}
