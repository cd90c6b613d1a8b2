package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	colorGreen  = 0x2ECC71 // target reached
	colorYellow = 0xF1C40F // price drop
)

// maxEmbedsPerMessage is Discord's per-message embed limit.
const maxEmbedsPerMessage = 10

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendAlert sends a single price alert as a Discord embed.
func (d *DiscordNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(alert)},
	}
	return d.post(ctx, payload)
}

// SendBatchAlert sends multiple alerts as a single Discord message.
func (d *DiscordNotifier) SendBatchAlert(
	ctx context.Context,
	alerts []AlertPayload,
	title string,
) error {
	embeds := make([]discordEmbed, 0, len(alerts))

	limit := min(len(alerts), maxEmbedsPerMessage)
	for i := range limit {
		embeds = append(embeds, buildEmbed(&alerts[i]))
	}

	if len(alerts) > maxEmbedsPerMessage {
		embeds = append(embeds, discordEmbed{
			Title:       fmt.Sprintf("... and %d more alerts for %s", len(alerts)-maxEmbedsPerMessage, title),
			Color:       colorYellow,
			Description: "Check the dashboard for the full list.",
		})
	}

	payload := discordWebhookPayload{Embeds: embeds}
	return d.post(ctx, payload)
}

func buildEmbed(alert *AlertPayload) discordEmbed {
	embed := discordEmbed{
		Title: embedTitle(alert),
		URL:   alert.ProductURL,
		Color: kindColor(alert.Kind),
		Fields: []discordEmbedField{
			{Name: "Price", Value: alert.TriggerPrice, Inline: true},
			{Name: "Site", Value: alert.Site, Inline: true},
		},
	}

	if alert.PreviousPrice != "" {
		embed.Fields = append(embed.Fields,
			discordEmbedField{Name: "Was", Value: alert.PreviousPrice, Inline: true},
		)
	}
	if alert.PercentChange != "" {
		embed.Fields = append(embed.Fields,
			discordEmbedField{Name: "Drop", Value: alert.PercentChange, Inline: true},
		)
	}
	if alert.TargetPrice != "" {
		embed.Fields = append(embed.Fields,
			discordEmbedField{Name: "Target", Value: alert.TargetPrice, Inline: true},
		)
	}

	return embed
}

func embedTitle(alert *AlertPayload) string {
	if alert.Kind == "TARGET_REACHED" {
		return fmt.Sprintf("Target Reached: %s", alert.ProductName)
	}
	return fmt.Sprintf("Price Drop: %s", alert.ProductName)
}

func kindColor(kind string) int {
	if kind == "TARGET_REACHED" {
		return colorGreen
	}
	return colorYellow
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
