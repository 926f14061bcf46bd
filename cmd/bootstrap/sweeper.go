package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"tourbook/internal/pkg/config"
	"tourbook/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

// StartSweeper runs the lifecycle sweep on a fixed ticker for the lifetime of
// the process. Admission checks compare against the clock directly, so a
// missed tick only delays the visible status change, never lets a started
// tour accept bookings.
func StartSweeper(lc fx.Lifecycle, cfg config.Config, lifecycle commands.LifecycleCommands) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Sweep.Interval)
				defer ticker.Stop()

				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if _, err := lifecycle.RunSweep(ctx); err != nil {
							slog.Error("lifecycle sweep failed", "error", err.Error())
						}
					}
				}
			}()
			slog.Info("lifecycle sweeper started", "interval", cfg.Sweep.Interval)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
