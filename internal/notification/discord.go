// Package notification delivers fire-and-forget events to an external
// Discord webhook. Delivery is at-most-once and best-effort: every failure
// is logged and fully absorbed, never surfaced to the caller.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"easyerd/internal/domain/models"
)

// Embed is the rich-message payload accepted by Discord webhooks.
// https://discord.com/developers/docs/resources/channel#embed-object
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedImage struct {
	URL string `json:"url"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type webhookMessage struct {
	Embeds []Embed `json:"embeds"`
}

const colorGreen = 0x00ff00

// Service posts notifications to a fixed webhook endpoint. A Service with
// an empty URL is a valid no-op sink.
type Service struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewService creates the webhook notification sink.
func NewService(webhookURL string, logger *slog.Logger) *Service {
	return &Service{
		url: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NotifyMemberCreated announces a newly registered member. Errors are
// logged and swallowed; member creation must never fail on notification
// problems.
func (s *Service) NotifyMemberCreated(ctx context.Context, member *models.Member) {
	if s.url == "" {
		return
	}

	embed := Embed{
		Color:       colorGreen,
		Title:       "🎉 A new member has joined! 🎉",
		Description: fmt.Sprintf("%s just joined the community. Say hello!", member.Name),
		Fields: []EmbedField{
			{Name: "name", Value: member.Name, Inline: true},
			{Name: "email", Value: member.Email, Inline: true},
		},
		Thumbnail: &EmbedImage{URL: member.Image},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &EmbedFooter{Text: "easyerd"},
	}

	if err := s.send(ctx, webhookMessage{Embeds: []Embed{embed}}); err != nil {
		s.logger.Error("failed to send member-created notification",
			"member_id", member.ID,
			"error", err,
		)
	}
}

func (s *Service) send(ctx context.Context, message webhookMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
