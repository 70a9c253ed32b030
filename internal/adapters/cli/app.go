// Package cli is the command-line adapter: cobra commands wired to the
// application services.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xcmerge/internal/adapters/discord"
	"xcmerge/internal/config"
	"xcmerge/internal/infrastructure/database"
	"xcmerge/internal/infrastructure/i18n"
	"xcmerge/internal/infrastructure/logger"
	"xcmerge/internal/ports/output"
	"xcmerge/pkg/tz"
)

// App holds what every command needs once configuration is loaded.
type App struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *slog.Logger
	tr      *i18n.Translator
	loc     *time.Location
	out     io.Writer
	errOut  io.Writer
	closers []func()
}

// NewApp prepares an App writing reports to out and logs to errOut.
func NewApp(out, errOut io.Writer) (*App, error) {
	tr, err := i18n.NewTranslator("en", nil)
	if err != nil {
		return nil, err
	}
	return &App{
		v:      config.New(),
		log:    logger.Default(),
		tr:     tr,
		loc:    time.UTC,
		out:    out,
		errOut: errOut,
	}, nil
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	a, err := NewApp(os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx, os.Args[1:])
}

// Run executes args and reports any error on errOut.
func (a *App) Run(ctx context.Context, args []string) int {
	defer a.close()
	root := a.RootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		a.renderer(a.errOut).Error(err)
		return 1
	}
	return 0
}

func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "xcmerge",
		Short: "Merge translations into Xcode string catalogs",
		Long: `xcmerge adds or updates target-locale translations in an Xcode .xcstrings catalog.
Translation batches are embedded in the binary or read from YAML, JSON or TOML files.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "Path to config file (default: ./xcmerge.yaml when present)")
	pf.String("catalog", "", "Path to the .xcstrings catalog (default: Localizable.xcstrings)")
	pf.StringP("locale", "l", "", "Target locale (default: sv)")
	pf.String("policy", "", "Conflict policy: overwrite or keep (default: overwrite)")
	pf.String("lang", "", "Report language: en or sv (default: en)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	for key, flag := range map[string]string{
		"catalog":     "catalog",
		"locale":      "locale",
		"policy":      "policy",
		"report.lang": "lang",
		"log.level":   "log-level",
		"log.format":  "log-format",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.newMergeCommand(),
		a.newBatchesCommand(),
		a.newStatsCommand(),
		a.newHistoryCommand(),
		a.newMigrateCommand(),
	)
	return root
}

// setup loads configuration and replaces the bootstrap logger.
func (a *App) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	log, err := logger.New(a.errOut, logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	loc, err := tz.Load(cfg.Timezone)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.loc = cfg, log, loc
	a.log.Debug("config loaded", "catalog", cfg.Catalog, "locale", cfg.Locale, "policy", cfg.Policy)
	return nil
}

func (a *App) lang() string {
	if a.cfg != nil {
		return a.cfg.Report.Lang
	}
	return "en"
}

func (a *App) renderer(w io.Writer) *Renderer {
	return NewRenderer(w, a.tr, a.lang())
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// historyRepo connects to the history database. It returns nil when history
// is disabled.
func (a *App) historyRepo(ctx context.Context) (output.RunHistoryRepository, error) {
	if !a.cfg.HistoryEnabled() {
		return nil, nil
	}
	pool, err := database.NewPool(ctx, a.cfg.History.DatabaseURL, a.log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)
	return database.NewHistoryRepository(pool), nil
}

// notifier returns nil when no webhook is configured.
func (a *App) notifier() (output.Notifier, error) {
	if !a.cfg.NotifyEnabled() {
		return nil, nil
	}
	n, err := discord.NewWebhookNotifier(a.cfg.Discord.WebhookURL, a.loc, a.log)
	if err != nil {
		return nil, err
	}
	return n, nil
}
