package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/config"
)

// ResendMailer sends through the Resend transactional email API.
type ResendMailer struct {
	apiKey  string
	baseURL string
	from    string
	client  *http.Client
	log     zerolog.Logger
}

func NewResendMailer(cfg *config.Config, log zerolog.Logger) (*ResendMailer, error) {
	if cfg.ResendAPIKey == "" || cfg.SMTPFromEmail == "" {
		return nil, fmt.Errorf("%w: RESEND_API_KEY and SMTP_FROM_EMAIL are required", ErrNotConfigured)
	}
	from := cfg.SMTPFromEmail
	if cfg.SMTPFromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.SMTPFromName, cfg.SMTPFromEmail)
	}
	return &ResendMailer{
		apiKey:  cfg.ResendAPIKey,
		baseURL: strings.TrimRight(cfg.ResendBaseURL, "/"),
		from:    from,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log.With().Str("mailer", ProviderResend).Logger(),
	}, nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		m.log.Warn().Int("status", resp.StatusCode).Str("to", msg.To).Msg("resend rejected email")
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
