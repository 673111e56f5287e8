package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kenkkoko/SmartDCA-BOT/internal/advisor"
	"github.com/kenkkoko/SmartDCA-BOT/internal/config"
	"github.com/kenkkoko/SmartDCA-BOT/internal/fetcher"
	"github.com/kenkkoko/SmartDCA-BOT/internal/notify"
	"github.com/kenkkoko/SmartDCA-BOT/internal/scheduler"
	"github.com/kenkkoko/SmartDCA-BOT/internal/service"
	"github.com/kenkkoko/SmartDCA-BOT/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetchers() (fetcher.CryptoSentimentFetcher, fetcher.EquitySentimentFetcher, fetcher.PriceHistoryFetcher) {
	crypto := fetcher.NewAlternative(fetcher.AlternativeOptions{
		BaseURL: a.Config.Sources.Crypto.BaseURL,
		Timeout: a.Config.Sources.Timeout,
	}, a.Logger)

	us := fetcher.NewCNN(fetcher.CNNOptions{
		BaseURL:   a.Config.Sources.US.BaseURL,
		Timeout:   a.Config.Sources.Timeout,
		UserAgent: a.Config.Sources.US.UserAgent,
	}, a.Logger)

	prices := fetcher.NewYahoo(fetcher.YahooOptions{
		BaseURL: a.Config.Sources.TW.BaseURL,
		Timeout: a.Config.Sources.Timeout,
	}, a.Logger)

	return crypto, us, prices
}

func (a *App) newAdvisor() advisor.Advisor {
	cfg := a.Config.Advisor
	if !cfg.Enabled {
		return nil
	}
	if cfg.APIKey == "" {
		a.Logger.Warn().Msg("advisor.enabled 已開啟但缺少 API key，停用 AI 建議")
		return nil
	}
	return advisor.NewOpenAI(advisor.OpenAIOptions{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}, a.Logger)
}

func (a *App) newNotifier() notify.Notifier {
	cfg := a.Config.Line
	return notify.NewLineNotifier(notify.LineOptions{
		ChannelToken: cfg.ChannelToken,
		RecipientID:  cfg.RecipientID,
		Broadcast:    cfg.Broadcast,
		APIBase:      cfg.APIBase,
		Timeout:      10 * time.Second,
	}, a.Logger)
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	if err := store.Bootstrap(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) newService(ctx context.Context) (*service.Service, func(), error) {
	// Missing delivery credentials are a per-run precondition, not a crash:
	// log the reason and exit cleanly so a half-configured deploy stays quiet.
	if !a.Config.Line.Configured() {
		return nil, nil, errMissingCredentials
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; persistence disabled")
	}

	crypto, us, prices := a.newFetchers()

	var runStore storage.RunStore
	if store != nil {
		runStore = store
	}

	svc := service.New(a.Config, crypto, us, prices, a.newAdvisor(), a.newNotifier(), runStore, a.Logger)
	return svc, closeStore, nil
}

var errMissingCredentials = errors.New("LINE 憑證未設定")

// RunOnce performs a single signal evaluation and exits.
func (a *App) RunOnce(ctx context.Context) error {
	svc, closeStore, err := a.newService(ctx)
	if errors.Is(err, errMissingCredentials) {
		a.Logger.Warn().Msg("LINE channel token/recipient not configured; skipping run")
		return nil
	}
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	return svc.Run(ctx)
}

// Watch runs the evaluation on the configured cron schedule until interrupted.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, closeStore, err := a.newService(ctx)
	if errors.Is(err, errMissingCredentials) {
		a.Logger.Warn().Msg("LINE channel token/recipient not configured; skipping watch")
		return nil
	}
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	sched := scheduler.New(a.Config.Schedule.Cron, a.Logger)

	a.Logger.Info().Str("cron", a.Config.Schedule.Cron).Msg("starting watch mode")
	err = sched.Run(ctx, svc.Run)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch stopped")
	return nil
}

// ExportOptions hold parameters for exporting historical runs.
type ExportOptions struct {
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
