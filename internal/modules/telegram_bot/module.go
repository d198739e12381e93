package telegram

import (
	"context"

	"go.uber.org/fx"

	closeall "futures_panel/internal/modules/close_all/service"
	"futures_panel/internal/modules/telegram_bot/service"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// 1. Адаптер: оркестратор -> то, что нужно панели
		fx.Provide(
			func(c *closeall.CloseAll) service.Closer { return c },
		),

		// 2. Сервис Telegram (nil, если токена нет)
		fx.Provide(
			service.NewTelegram,
		),

		// Запуск long-polling через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram, root context.Context) {
				if t == nil {
					return
				}
				// отмена на OnStop прерывает ожидающие Confirm
				ctx, cancel := context.WithCancel(root)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						go t.Start(ctx)
						return nil
					},
					OnStop: func(context.Context) error {
						cancel()
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
