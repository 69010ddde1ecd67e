package bootstrap

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"ui-probe/internal/ports"
)

func manageSession(lc fx.Lifecycle, session ports.BrowserSession, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Launching browser...")

			if err := session.Launch(ctx); err != nil {
				logger.Error("Failed to launch browser", zap.Error(err))

				return err
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down browser session...")

			if err := session.Close(ctx); err != nil {
				logger.Error("Failed to close browser", zap.Error(err))
			}

			return nil
		},
	})
}
