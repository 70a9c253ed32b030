package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"xcmerge/internal/domain/entities"
	"xcmerge/internal/ports/output"
	pkgdiscord "xcmerge/pkg/discord"
)

var _ output.Notifier = (*WebhookNotifier)(nil)

// webhookExecutor is the part of *discordgo.Session the notifier uses.
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// WebhookNotifier posts one embed per changed run to a Discord webhook.
type WebhookNotifier struct {
	session  webhookExecutor
	webhook  pkgdiscord.Webhook
	location *time.Location
	log      *slog.Logger
}

// NewWebhookNotifier parses webhookURL and prepares an unauthenticated
// session; webhook calls carry their own token.
func NewWebhookNotifier(webhookURL string, loc *time.Location, log *slog.Logger) (*WebhookNotifier, error) {
	hook, err := pkgdiscord.ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &WebhookNotifier{session: s, webhook: hook, location: loc, log: log}, nil
}

func (n *WebhookNotifier) NotifyRun(ctx context.Context, run *entities.MergeRun) error {
	params := &discordgo.WebhookParams{
		Username: "xcmerge",
		Embeds:   []*discordgo.MessageEmbed{pkgdiscord.BuildRunEmbed(run, n.location)},
	}
	if _, err := n.session.WebhookExecute(n.webhook.ID, n.webhook.Token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	n.log.Debug("merge run announced", "run_id", run.ID, "changed", run.Changed)
	return nil
}
