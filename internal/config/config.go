package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"xcmerge/internal/domain"
	"xcmerge/pkg/jsonobj"
	"xcmerge/pkg/tz"
)

// EnvPrefix prefixes every environment variable, e.g. XCMERGE_LOCALE.
const EnvPrefix = "XCMERGE"

type Config struct {
	Catalog  string        `mapstructure:"catalog"`
	Locale   string        `mapstructure:"locale"`
	Policy   string        `mapstructure:"policy"`
	Timezone string        `mapstructure:"timezone"`
	Write    WriteConfig   `mapstructure:"write"`
	Report   ReportConfig  `mapstructure:"report"`
	Log      LogConfig     `mapstructure:"log"`
	History  HistoryConfig `mapstructure:"history"`
	Discord  DiscordConfig `mapstructure:"discord"`
}

type WriteConfig struct {
	Style string `mapstructure:"style"` // auto, json or xcode
}

type ReportConfig struct {
	Lang string `mapstructure:"lang"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HistoryConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
}

type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// New returns a viper instance with defaults and environment lookup set up.
// Command-line flags are bound to it by the CLI before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog", "Localizable.xcstrings")
	v.SetDefault("locale", domain.DefaultLocale)
	v.SetDefault("policy", string(domain.PolicyOverwrite))
	v.SetDefault("timezone", "UTC")
	v.SetDefault("write.style", "auto")
	v.SetDefault("report.lang", "en")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("history.database_url", "")
	v.SetDefault("discord.webhook_url", "")
}

// Load reads .env (optional), the config file and the environment, then
// validates the result. An empty file means ./xcmerge.yaml when it exists.
func Load(v *viper.Viper, file string) (*Config, error) {
	// .env is optional when the variables come from the environment.
	_ = godotenv.Load()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	} else {
		v.SetConfigName("xcmerge")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate normalizes codes in place and rejects unusable values.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Catalog) == "" {
		return fmt.Errorf("config: catalog is required")
	}

	locale, err := domain.NormalizeLocale(c.Locale)
	if err != nil {
		return fmt.Errorf("config: locale: %w", err)
	}
	c.Locale = locale

	policy, err := domain.ParsePolicy(c.Policy)
	if err != nil {
		return fmt.Errorf("config: policy: %w", err)
	}
	c.Policy = string(policy)

	if !strings.EqualFold(c.Write.Style, "auto") {
		if _, err := jsonobj.ParseStyle(c.Write.Style); err != nil {
			return fmt.Errorf("config: write.style: %w", err)
		}
	}

	lang, err := language.Parse(c.Report.Lang)
	if err != nil {
		return fmt.Errorf("config: report.lang %q: %w", c.Report.Lang, err)
	}
	c.Report.Lang = lang.String()

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format %q: want text or json", c.Log.Format)
	}

	if _, err := tz.Load(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone: %w", err)
	}

	if c.History.DatabaseURL != "" {
		parsed, err := url.Parse(c.History.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: history.database_url: %w", err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: history.database_url: scheme or host missing")
		}
	}

	if c.Discord.WebhookURL != "" {
		parsed, err := url.Parse(c.Discord.WebhookURL)
		if err != nil {
			return fmt.Errorf("config: discord.webhook_url: %w", err)
		}
		if parsed.Scheme != "https" || !strings.Contains(parsed.Path, "/webhooks/") {
			return fmt.Errorf("config: discord.webhook_url: want https://discord.com/api/webhooks/<id>/<token>")
		}
	}

	return nil
}

// HistoryEnabled reports whether runs are recorded.
func (c *Config) HistoryEnabled() bool {
	return c.History.DatabaseURL != ""
}

// NotifyEnabled reports whether changed runs are posted to Discord.
func (c *Config) NotifyEnabled() bool {
	return c.Discord.WebhookURL != ""
}
