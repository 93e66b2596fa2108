package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/cloudsongbot/cloudsong/internal/bot"
	"github.com/cloudsongbot/cloudsong/internal/config"
	"github.com/cloudsongbot/cloudsong/internal/convstate"
	"github.com/cloudsongbot/cloudsong/internal/extractor"
	"github.com/cloudsongbot/cloudsong/internal/handlers"
	"github.com/cloudsongbot/cloudsong/internal/logger"
	"github.com/cloudsongbot/cloudsong/internal/retention"
	"github.com/cloudsongbot/cloudsong/internal/server"
	"github.com/cloudsongbot/cloudsong/internal/version"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBotAPI,
			provideBotSurface,
			convstate.NewStore,
			provideExtractor,
			provideFetcher,
			provideRetention,
			provideScheduler,
			provideController,
			provideDispatcher,
			handlers.NewHealthHandler,
			provideWebhookHandler,
			provideServer,
		),
		fx.Invoke(
			startDispatcher,
			startBot,
			startServer,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	return logger.L
}

func provideBotAPI(cfg config.Config) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return api, nil
}

func provideBotSurface(api *tgbotapi.BotAPI) bot.API { return api }

func provideExtractor(log *slog.Logger, cfg config.Config) (*extractor.Service, error) {
	runner := &extractor.ExecRunner{Binary: cfg.YtDlpPath}
	return extractor.NewService(log, runner, extractor.Options{
		ScratchDir:  cfg.ScratchDir,
		CookiesFile: cfg.CookiesFile,
		Timeout:     cfg.FetchTimeout,
	})
}

func provideFetcher(svc *extractor.Service) bot.Fetcher { return svc }

func provideRetention(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) *retention.Manager {
	mgr := retention.NewManager(log, cfg.RetentionDelay)
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
		mgr.Stop()
		return nil
	}})
	return mgr
}

func provideScheduler(mgr *retention.Manager) bot.Scheduler { return mgr }

func provideController(log *slog.Logger, api bot.API, states *convstate.Store, fetcher bot.Fetcher, sched bot.Scheduler, cfg config.Config) *bot.Controller {
	return bot.NewController(log, api, states, fetcher, sched, cfg.OwnerContact)
}

func provideDispatcher(log *slog.Logger, controller *bot.Controller, cfg config.Config) *bot.Dispatcher {
	return bot.NewDispatcher(log, controller, cfg.MaxConcurrentFetches)
}

func provideWebhookHandler(log *slog.Logger, dispatcher *bot.Dispatcher) *handlers.WebhookHandler {
	return handlers.NewWebhookHandler(log, dispatcher)
}

func provideServer(cfg config.Config, log *slog.Logger, healthHandler *handlers.HealthHandler, webhookHandler *handlers.WebhookHandler) *server.Server {
	return server.NewServer(cfg.Addr(), log, healthHandler, webhookHandler)
}

func startDispatcher(lc fx.Lifecycle, dispatcher *bot.Dispatcher) {
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
		dispatcher.Shutdown()
		return nil
	}})
}

// startBot advertises the command list and registers the webhook with the
// Telegram control API. Both are best effort; a registration failure leaves
// the server up so an operator can retry out of band.
func startBot(lc fx.Lifecycle, log *slog.Logger, api *tgbotapi.BotAPI, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			commands := tgbotapi.NewSetMyCommands(
				tgbotapi.BotCommand{Command: "start", Description: "Say hello"},
				tgbotapi.BotCommand{Command: "mode", Description: "Choose audio, video, or link delivery"},
				tgbotapi.BotCommand{Command: "help", Description: "How to use the bot"},
				tgbotapi.BotCommand{Command: "about", Description: "Who runs this bot"},
			)
			if _, err := api.Request(commands); err != nil {
				log.Warn("advertise commands failed", slog.Any("error", err))
			}
			if cfg.WebhookURL == "" {
				log.Info("no webhook url configured, skipping registration")
				return nil
			}
			wh, err := tgbotapi.NewWebhook(cfg.WebhookURL)
			if err != nil {
				log.Warn("build webhook config failed", slog.String("url", cfg.WebhookURL), slog.Any("error", err))
				return nil
			}
			if _, err := api.Request(wh); err != nil {
				log.Warn("register webhook failed", slog.String("url", cfg.WebhookURL), slog.Any("error", err))
				return nil
			}
			log.Info("webhook registered", slog.String("url", cfg.WebhookURL))
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting CloudSong %s\n", version.GetInfo())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
