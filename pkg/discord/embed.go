package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
	"xcmerge/pkg/tz"
)

const (
	embedColor  = 0x5865F2
	embedTitle  = "🌍 Translations merged"
	maxListed   = 10
	maxFieldLen = 1024
)

// ChangedPhrases returns the decisions of run that modified the catalog.
func ChangedPhrases(run *entities.MergeRun) []entities.RunDecision {
	out := make([]entities.RunDecision, 0, run.Changed)
	for _, d := range run.Decisions {
		if domain.Outcome(d.Outcome).Changed() {
			out = append(out, d)
		}
	}
	return out
}

func formatChanges(changed []entities.RunDecision) string {
	var b strings.Builder
	for i, d := range changed {
		if i == maxListed {
			b.WriteString(fmt.Sprintf("… and %d more", len(changed)-maxListed))
			break
		}
		line := fmt.Sprintf("• %s → %s\n", d.Phrase, d.Value)
		if b.Len()+len(line) > maxFieldLen-32 {
			b.WriteString(fmt.Sprintf("… and %d more", len(changed)-i))
			break
		}
		b.WriteString(line)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// BuildRunEmbed builds the webhook embed announcing a merge run. Times are
// shown in loc.
func BuildRunEmbed(run *entities.MergeRun, loc *time.Location) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       embedTitle,
		Description: fmt.Sprintf("**%s** merged into `%s`", run.Source, run.CatalogPath),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Locale", Value: run.Locale, Inline: true},
			{Name: "Policy", Value: run.Policy, Inline: true},
			{Name: "Changed", Value: fmt.Sprintf("%d", run.Changed), Inline: true},
			{Name: "Skipped", Value: fmt.Sprintf("%d", run.Skipped), Inline: true},
			{Name: "Entries", Value: fmt.Sprintf("%d", run.Total), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Run " + run.ID},
	}
	if !run.CreatedAt.IsZero() {
		embed.Timestamp = run.CreatedAt.UTC().Format(time.RFC3339)
		embed.Footer.Text += " • " + tz.Stamp(run.CreatedAt, loc)
	}
	if changed := ChangedPhrases(run); len(changed) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Changes",
			Value: formatChanges(changed),
		})
	}
	return embed
}
