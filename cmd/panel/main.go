package main

import (
	"context"

	"futures_panel/internal/modules/close_all"
	"futures_panel/internal/modules/coindcx"
	"futures_panel/internal/modules/config"
	"futures_panel/internal/modules/health"
	telegram "futures_panel/internal/modules/telegram_bot"
	"futures_panel/pkg/logger"
	"futures_panel/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const serviceName = "futures_panel"

func main() {
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			func(cfg *config.Config) (*zap.Logger, error) {
				return logger.New(cfg.Log.Level)
			},
			// *zap.Logger в зависимостях: глобальный logger уже собран
			func(lc fx.Lifecycle, cfg *config.Config, _ *zap.Logger) (opentracing.Tracer, error) {
				tracer, closeFn, err := tracing.InitTracer(tracing.Config{
					Enabled: cfg.Tracing.Enabled,
					Host:    cfg.Tracing.Host,
					Port:    cfg.Tracing.Port,
				})
				if err != nil {
					return nil, err
				}
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						closeFn()
						return nil
					},
				})
				return tracer, nil
			},
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config.Module(),
		health.Module(),
		coindcx.Module(),
		close_all.Module(),
		telegram.Module(),
		fx.Invoke(
			func(_ opentracing.Tracer, cfg *config.Config, log *zap.Logger) {
				log.Info("futures panel starting",
					zap.String("base_url", cfg.Exchange.BaseURL),
					zap.Bool("paper_trade_default", cfg.PaperTrade),
					zap.Bool("tracing", cfg.Tracing.Enabled),
					zap.Bool("telegram", cfg.Telegram.Token != ""),
				)
			},
		),
	)
	app.Run()
}
