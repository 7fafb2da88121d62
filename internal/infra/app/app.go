package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sssalamanders/penny-lane/internal/infra/config"
	"github.com/sssalamanders/penny-lane/internal/infra/logger"
	"github.com/sssalamanders/penny-lane/internal/infra/telemetry"
	"github.com/sssalamanders/penny-lane/internal/repository/memory"
	"github.com/sssalamanders/penny-lane/internal/transport/http/routes"
	"github.com/sssalamanders/penny-lane/internal/transport/telegram"
	"github.com/sssalamanders/penny-lane/internal/usecase"
)

type Application struct {
	cfg     *config.AppConfig
	engine  *gin.Engine
	logger  *zap.Logger
	poller  *telegram.Poller
	sweeper *memory.Sweeper
}

func New(cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics := telemetry.Attach()

	store := memory.NewRegistrationStore(cfg.Registry.TTL)

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("authenticate with bot api (token %s): %w",
			logger.MaskString(cfg.Telegram.Token), err)
	}
	log.Info("authenticated with the bot api",
		zap.String("bot", bot.Self.UserName),
	)

	gateway := telegram.NewGateway(bot)

	relay := usecase.NewRelayService(store, gateway, cfg.Registry.TTL, log).
		WithTelemetry(metrics).
		WithAdminCheckTimeout(cfg.Telegram.AdminCheckTimeout)

	poller := telegram.NewPoller(bot, relay, gateway, cfg, log)
	sweeper := memory.NewSweeper(store, cfg.Registry.SweepInterval, log, metrics)

	engine := routes.Register(routes.Dependencies{
		Config: cfg,
		Logger: log,
		Relay:  relay,
	})

	return &Application{
		cfg:     cfg,
		engine:  engine,
		logger:  log,
		poller:  poller,
		sweeper: sweeper,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()

	go a.sweeper.Run(ctx)

	pollerErrCh := make(chan error, 1)
	go func() {
		if err := a.poller.Run(ctx); err != nil {
			pollerErrCh <- fmt.Errorf("run poller: %w", err)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting penny lane",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
		zap.Duration("registry_ttl", a.cfg.Registry.TTL),
		zap.Duration("sweep_interval", a.cfg.Registry.SweepInterval),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		a.logger.Info("stopped, all registration state discarded")
		return nil
	case err := <-serverErrCh:
		return err
	case err := <-pollerErrCh:
		return err
	}
}
