package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/config"
)

// SMTPMailer sends HTML email through an SMTP relay using STARTTLS.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
	FromAddr string

	log zerolog.Logger
}

func NewSMTPMailer(cfg *config.Config, log zerolog.Logger) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" || cfg.SMTPFromEmail == "" {
		return nil, fmt.Errorf("%w: SMTP_HOST and SMTP_FROM_EMAIL are required", ErrNotConfigured)
	}
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
		FromAddr: cfg.SMTPFromEmail,
		log:      log.With().Str("mailer", ProviderSMTP).Logger(),
	}, nil
}

func (e *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := e.deliver(ctx, msg.To, buildMIME(e.from(), msg)); err != nil {
		e.log.Error().Err(err).Str("to", msg.To).Msg("smtp send failed")
		return fmt.Errorf("failed to send email: %w", err)
	}
	e.log.Debug().Str("to", msg.To).Msg("email sent")
	return nil
}

func (e *SMTPMailer) from() string {
	if e.FromName == "" {
		return e.FromAddr
	}
	return fmt.Sprintf("%s <%s>", e.FromName, e.FromAddr)
}

func buildMIME(from string, msg Message) []byte {
	headers := [][2]string{
		{"From", from},
		{"To", msg.To},
		{"Subject", msg.Subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="UTF-8"`},
	}
	var b strings.Builder
	for _, h := range headers {
		b.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

func (e *SMTPMailer) deliver(ctx context.Context, to string, message []byte) error {
	addr := net.JoinHostPort(e.Host, e.Port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, e.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(&tls.Config{ServerName: e.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if e.Username != "" {
		if err = client.Auth(smtp.PlainAuth("", e.Username, e.Password, e.Host)); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	if err = client.Mail(e.FromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", to, err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = writer.Write(message); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return client.Quit()
}
