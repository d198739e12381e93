package coindcx

import (
	"futures_panel/internal/modules/coindcx/service"

	"go.uber.org/fx"
)

// Module поднимает REST-клиент CoinDCX фьючерсов.
func Module() fx.Option {
	return fx.Module("coindcx",
		fx.Provide(
			service.NewClient, // func(*config.Config, models.Credentials, *zap.Logger) *service.Client
		),
	)
}
