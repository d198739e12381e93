package close_all

import (
	"futures_panel/internal/modules/close_all/service"
	coindcx "futures_panel/internal/modules/coindcx/service"
	health "futures_panel/internal/modules/health/service"

	"go.uber.org/fx"
)

// Module: оркестратор закрытия позиций поверх клиента CoinDCX.
func Module() fx.Option {
	return fx.Module("close_all",
		fx.Provide(
			func(c *coindcx.Client) service.PositionsAPI { return c },
			func(s *health.State) service.RunObserver { return s },
			service.NewCloseAll,
		),
	)
}
