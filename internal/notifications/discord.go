package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Discord is a simple Discord webhook notifier.
type Discord struct {
	webhookURL string
	logger     *log.Logger
	client     *http.Client
}

// NewDiscord creates a new Discord notifier. If webhookURL is empty,
// notifications are silently skipped.
func NewDiscord(webhookURL string, logger *log.Logger) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		logger:     logger,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled returns true if the webhook is configured.
func (d *Discord) Enabled() bool {
	return d.webhookURL != ""
}

// discordMessage is the payload for Discord webhook.
type discordMessage struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// NotifyUpstreamFailure reports a failed speech or synthesis provider call.
func (d *Discord) NotifyUpstreamFailure(ctx context.Context, stage, detail string) {
	d.send(ctx, discordMessage{
		Embeds: []discordEmbed{{
			Title:       fmt.Sprintf("Provider failure: %s", stage),
			Description: truncate(detail, 1000),
			Color:       0xE74C3C, // red
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	})
}

// NotifyReply reports a new chatbot reply arriving.
func (d *Discord) NotifyReply(ctx context.Context, text string) {
	d.send(ctx, discordMessage{
		Embeds: []discordEmbed{{
			Title:       "Chatbot reply stored",
			Description: truncate(text, 1000),
			Color:       0x2ECC71, // green
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}},
	})
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// send posts a message to Discord webhook asynchronously.
// Errors are logged but don't affect caller.
func (d *Discord) send(ctx context.Context, msg discordMessage) {
	if !d.Enabled() {
		return
	}

	go func() {
		body, err := json.Marshal(msg)
		if err != nil {
			d.logger.Printf("discord: failed to marshal message: %v", err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", d.webhookURL, bytes.NewReader(body))
		if err != nil {
			d.logger.Printf("discord: failed to create request: %v", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			d.logger.Printf("discord: failed to send webhook: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			d.logger.Printf("discord: webhook returned status %d", resp.StatusCode)
		}
	}()
}
