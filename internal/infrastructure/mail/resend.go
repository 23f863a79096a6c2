package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/taskflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ResendSender posts messages to the Resend HTTP API behind a circuit breaker
type ResendSender struct {
	client  *http.Client
	baseURL string
	apiKey  string
	from    string
	breaker *gobreaker.CircuitBreaker
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// NewResendSender creates a ResendSender from configuration
func NewResendSender(cfg config.MailConfig, logger *zap.Logger) *ResendSender {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "resend",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &ResendSender{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.ResendBaseURL, "/"),
		apiKey:  cfg.ResendAPIKey,
		from:    cfg.From,
		breaker: breaker,
	}
}

// Send delivers msg; it fails fast with gobreaker.ErrOpenState while the breaker is open
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.post(ctx, msg)
	})
	return err
}

func (s *ResendSender) post(ctx context.Context, msg Message) error {
	body, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("encode resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
