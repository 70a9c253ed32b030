package discord

import (
	"fmt"
	"net/url"
	"strings"
)

// Webhook identifies a Discord webhook.
type Webhook struct {
	ID    string
	Token string
}

// ParseWebhookURL splits https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(raw string) (Webhook, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Webhook{}, fmt.Errorf("webhook url: %w", err)
	}
	if u.Scheme != "https" {
		return Webhook{}, fmt.Errorf("webhook url: scheme must be https")
	}

	_, rest, ok := strings.Cut(u.Path, "/webhooks/")
	if !ok {
		return Webhook{}, fmt.Errorf("webhook url: want .../webhooks/<id>/<token>")
	}
	id, token, _ := strings.Cut(strings.Trim(rest, "/"), "/")
	if id == "" || token == "" || strings.Contains(token, "/") {
		return Webhook{}, fmt.Errorf("webhook url: want .../webhooks/<id>/<token>")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return Webhook{}, fmt.Errorf("webhook url: id must be a Discord snowflake (digits only)")
		}
	}
	return Webhook{ID: id, Token: token}, nil
}
