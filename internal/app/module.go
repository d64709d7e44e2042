package app

import (
	"context"

	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/config"
	"github.com/matheus3301/wpplocal/internal/logging"
	"github.com/matheus3301/wpplocal/internal/nav"
	"github.com/matheus3301/wpplocal/internal/profile"
	"github.com/matheus3301/wpplocal/internal/store"
	"github.com/matheus3301/wpplocal/internal/tui"
	"github.com/matheus3301/wpplocal/internal/tui/model"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the resolved profile passed to the fx module.
type Params struct {
	ProfileName string
	// Config overrides the config file; nil loads it from disk.
	Config *config.Config
}

// Module returns the fx module for the terminal client, composing all
// providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("wpptui",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideBackend,
			provideStore,
			provideMachine,
			provideViewModel,
			provideApp,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	if p.Config != nil {
		return p.Config, nil
	}
	return config.LoadOrDefault(profile.ConfigPath())
}

// The TUI owns the terminal, so logs go to the profile log file only.
func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName, cfg.Log.Level, false)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideBackend(lc fx.Lifecycle, p Params, cfg *config.Config, b *bus.Bus, logger *zap.Logger) (*Backend, error) {
	be, err := OpenStore(context.Background(), cfg, p.ProfileName, b, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return be.Close()
		},
	})
	return be, nil
}

func provideStore(be *Backend) store.Store {
	return be.Store
}

func provideMachine(b *bus.Bus) *nav.Machine {
	return nav.NewMachine(b)
}

func provideViewModel(s store.Store, m *nav.Machine, b *bus.Bus, cfg *config.Config, logger *zap.Logger) *model.ViewModel {
	vm := model.NewViewModel(s, m, b, logger)
	vm.SetSeedDemo(cfg.SeedDemo())
	return vm
}

func provideApp(p Params, vm *model.ViewModel, b *bus.Bus, logger *zap.Logger) *tui.App {
	return tui.NewApp(vm, b, p.ProfileName, logger)
}

func registerLifecycle(lc fx.Lifecycle, sd fx.Shutdowner, a *tui.App, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if err := a.Run(ctx); err != nil {
					logger.Error("tui exited", zap.Error(err))
					code = 1
				}
				_ = sd.Shutdown(fx.ExitCode(code))
			}()
			logger.Info("tui started")
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			a.Stop()
			logger.Info("tui stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
