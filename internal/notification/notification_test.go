package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sharath018/golftrip-backend/config"
)

func TestRenderInvitation(t *testing.T) {
	msg, err := RenderInvitation(Invitation{
		EventID:    "evt-1",
		EventName:  "Bandon Dunes <2026>",
		Email:      "pat@club.test",
		PlayerName: "Pat",
		InvitedBy:  "Alex",
		Link:       "https://app.test/invitation/evt-1?email=pat%40club.test",
	})
	if err != nil {
		t.Fatal(err)
	}
	if msg.To != "pat@club.test" || msg.EventID != "evt-1" {
		t.Fatalf("msg = %+v", msg)
	}
	if !strings.Contains(msg.Subject, "Bandon Dunes") {
		t.Errorf("subject = %q", msg.Subject)
	}
	if strings.Contains(msg.HTML, "<2026>") || !strings.Contains(msg.HTML, "&lt;2026&gt;") {
		t.Error("event name should be escaped in html")
	}
	if !strings.Contains(msg.HTML, "https://app.test/invitation/evt-1?email=pat%40club.test") {
		t.Error("html is missing the invitation link")
	}
	if !strings.Contains(msg.Text, "Accept your invitation") {
		t.Errorf("text = %q", msg.Text)
	}

	t.Run("defaults", func(t *testing.T) {
		msg, err := RenderInvitation(Invitation{EventName: "Trip", Email: "a@b.test", Link: "x"})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(msg.Text, "Hi there") || !strings.Contains(msg.Text, "Your trip organizer") {
			t.Errorf("text = %q", msg.Text)
		}
	})
}

func TestResendMailer(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/emails" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got.To[0] == "bounce@club.test" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"invalid recipient"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"em_1"}`))
	}))
	defer srv.Close()

	m, err := NewResendMailer(&config.Config{
		ResendAPIKey:  "re_test",
		ResendBaseURL: srv.URL + "/",
		SMTPFromEmail: "trips@club.test",
		SMTPFromName:  "Golf Trip",
	}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Send(context.Background(), Message{To: "pat@club.test", Subject: "Hi", HTML: "<p>hi</p>"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if auth != "Bearer re_test" {
		t.Errorf("auth = %q", auth)
	}
	if got.From != "Golf Trip <trips@club.test>" || got.Subject != "Hi" {
		t.Errorf("request = %+v", got)
	}

	err = m.Send(context.Background(), Message{To: "bounce@club.test", Subject: "Hi", HTML: "x"})
	if err == nil || !strings.Contains(err.Error(), "422") {
		t.Fatalf("err = %v", err)
	}
}

func TestNewDeliveryMailer(t *testing.T) {
	cfg := &config.Config{SMTPPort: "587"}

	if m, err := NewDeliveryMailer("console", cfg, zerolog.Nop()); err != nil || m == nil {
		t.Fatalf("console: %v", err)
	}
	if _, err := NewDeliveryMailer("smtp", cfg, zerolog.Nop()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("smtp without host: err = %v", err)
	}
	if _, err := NewDeliveryMailer("resend", cfg, zerolog.Nop()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("resend without key: err = %v", err)
	}
	if _, err := NewDeliveryMailer("carrier-pigeon", cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected unknown provider error")
	}

	cfg.SMTPHost, cfg.SMTPFromEmail = "smtp.club.test", "trips@club.test"
	m, err := NewDeliveryMailer("SMTP", cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(*SMTPMailer); !ok {
		t.Fatalf("got %T", m)
	}
}

func TestNewMailerQueueConfig(t *testing.T) {
	if _, _, err := NewMailer(&config.Config{EmailProvider: "kafka"}, zerolog.Nop()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("kafka: err = %v", err)
	}
	if _, _, err := NewMailer(&config.Config{EmailProvider: "rabbitmq"}, zerolog.Nop()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("rabbitmq: err = %v", err)
	}

	m, closeFn, err := NewMailer(&config.Config{EmailProvider: "kafka", KafkaBrokers: []string{"localhost:9092"}, KafkaInvitationTopic: "invites"}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := m.(*KafkaMailer); !ok {
		t.Fatalf("got %T", m)
	}

	w, err := NewWorker(&config.Config{EmailProvider: "console"}, zerolog.Nop())
	if err != nil || w != nil {
		t.Fatalf("inline provider should not start a worker: %v %v", w, err)
	}
}

func TestWorkerHandle(t *testing.T) {
	var delivered []Message
	deliver := MailerFunc(func(ctx context.Context, msg Message) error {
		if msg.To == "down@club.test" {
			return errors.New("relay unavailable")
		}
		delivered = append(delivered, msg)
		return nil
	})
	w := &Worker{deliver: deliver, log: zerolog.Nop()}

	payload, _ := json.Marshal(Message{To: "pat@club.test", Subject: "Hi", EventID: "evt-1"})
	if err := w.handle(context.Background(), payload); err != nil {
		t.Fatal(err)
	}
	if len(delivered) != 1 || delivered[0].EventID != "evt-1" {
		t.Fatalf("delivered = %+v", delivered)
	}

	failing, _ := json.Marshal(Message{To: "down@club.test"})
	if err := w.handle(context.Background(), failing); err == nil {
		t.Fatal("expected delivery error")
	}
	if err := w.handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
	if err := w.handle(context.Background(), []byte(`{"subject":"no recipient"}`)); err == nil {
		t.Fatal("expected missing recipient error")
	}
}

func TestConsoleMailerHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewConsoleMailer(zerolog.Nop()).Send(ctx, Message{To: "a@b.test"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildMIME(t *testing.T) {
	raw := string(buildMIME("Golf Trip <trips@club.test>", Message{To: "pat@club.test", Subject: "Hi", HTML: "<p>x</p>"}))
	for _, want := range []string{"From: Golf Trip <trips@club.test>\r\n", "To: pat@club.test\r\n", "Subject: Hi\r\n", "\r\n\r\n<p>x</p>"} {
		if !strings.Contains(raw, want) {
			t.Errorf("missing %q in %q", want, raw)
		}
	}
}
