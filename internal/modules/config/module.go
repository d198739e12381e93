package config

import (
	"futures_panel/internal/models"

	"go.uber.org/fx"
)

// Module отдаёт *Config и ключи биржи как отдельное значение.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
			func(cfg *Config) models.Credentials { return cfg.Credentials() },
		),
	)
}
