package i18n

import (
	"embed"
	"fmt"
	"log/slog"
	"maps"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"xcmerge/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var messageFiles = []string{"active.en.toml", "active.sv.toml"}

// Ensure Translator implements the output.T port.
var _ output.T = (*Translator)(nil)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	log             *slog.Logger
}

// NewTranslator builds a Translator using the given default language
// (e.g. "en"). Messages come from the embedded active.*.toml files.
func NewTranslator(defaultLang string, log *slog.Logger) (*Translator, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("i18n: default language %q: %w", defaultLang, err)
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range messageFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", file, err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		log:             log,
	}, nil
}

// Languages lists the tags that have a message file.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}

// T renders the message identified by key for the given language.
// If the key/language is not found, it falls back to the default language,
// then finally to the key itself.
func (t *Translator) T(lang, key string, data map[string]any) string {
	return t.localize(lang, &i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
}

// Plural is T with a plural form chosen by count, exposed as .Count.
func (t *Translator) Plural(lang, key string, count int, data map[string]any) string {
	td := make(map[string]any, len(data)+1)
	maps.Copy(td, data)
	td["Count"] = count
	return t.localize(lang, &i18n.LocalizeConfig{
		MessageID:    key,
		PluralCount:  count,
		TemplateData: td,
	})
}

func (t *Translator) localize(lang string, cfg *i18n.LocalizeConfig) string {
	if cfg.MessageID == "" {
		return ""
	}

	languages := []string{}
	if lang != "" {
		languages = append(languages, lang)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(cfg)
	if err != nil {
		if t.log != nil {
			t.log.Debug("i18n: localize failed", "key", cfg.MessageID, "languages", languages, "error", err)
		}
		return cfg.MessageID
	}
	return msg
}
