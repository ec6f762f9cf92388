package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"station-inspector/config"
	"station-inspector/internal/api/telegram"
	"station-inspector/internal/container"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config (optional)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, *debug); err != nil {
		slog.Error("station stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.SlogLevel()
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := appContainer.Close(); err != nil {
			slog.Error("error releasing resources", "error", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Telegram.Token != "" {
		bot, err := telegram.NewBot(cfg.Telegram.Token, appContainer.Operators, appContainer.InspectionService)
		if err != nil {
			// Без бота станция работает, операторы видят только лампы
			slog.Error("telegram bot disabled", "error", err)
		} else {
			appContainer.InspectionService.SetNotifier(bot)
			g.Go(func() error { return bot.Run(ctx) })
		}
	}

	g.Go(func() error { return appContainer.Intake.ListenAndServe(ctx) })
	g.Go(func() error {
		return appContainer.InspectionService.Serve(ctx, appContainer.Queue, appContainer.MES, appContainer.Indicator)
	})
	g.Go(func() error { return appContainer.MES.Watch(ctx) })
	g.Go(func() error { return appContainer.Indicator.Watch(ctx) })
	if appContainer.Health != nil {
		g.Go(func() error { return appContainer.Health.Run(ctx) })
	}

	slog.Info("station is running",
		"intake_addr", cfg.Intake.ListenAddr,
		"mes_addr", cfg.MES.Addr,
		"indicator_addr", cfg.Indicator.Addr,
		"stations", cfg.Station.Labels,
	)

	err = g.Wait()
	slog.Info("station shutting down")
	return err
}
