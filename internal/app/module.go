package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/dmelnik/chatty/internal/bus"
	"github.com/dmelnik/chatty/internal/lock"
	"github.com/dmelnik/chatty/internal/logging"
	"github.com/dmelnik/chatty/internal/profile"
	"github.com/dmelnik/chatty/internal/remote"
	"github.com/dmelnik/chatty/internal/status"
	intsync "github.com/dmelnik/chatty/internal/sync"
	"github.com/dmelnik/chatty/internal/thread"
	"github.com/dmelnik/chatty/internal/tui"
)

// Params holds the resolved client configuration passed to the fx module.
type Params struct {
	ServerURL string
	PushURL   string
}

// Module returns the fx module for the client, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("chatty",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideRESTClient,
			providePush,
			provideSyncController,
			provideThreadController,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger() (*zap.Logger, error) {
	if err := profile.EnsureDirs(); err != nil {
		return nil, err
	}
	return logging.New(profile.LogPath())
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("dir", profile.BaseDir()))
	l, err := lock.Acquire(profile.BaseDir())
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideRESTClient(p Params, logger *zap.Logger) *remote.Client {
	return remote.NewClient(p.ServerURL, remote.WithLogger(logger))
}

func providePush(p Params, b *bus.Bus, m *status.Machine, logger *zap.Logger) *remote.Push {
	return remote.NewPush(p.ServerURL, p.PushURL, b, m, logger)
}

func provideSyncController(rest *remote.Client, push *remote.Push, b *bus.Bus, logger *zap.Logger) *intsync.Controller {
	return intsync.NewController(rest, push, b, logger)
}

func provideThreadController(rest *remote.Client, push *remote.Push, b *bus.Bus, logger *zap.Logger) *thread.Controller {
	return thread.NewController(rest, push, b, logger)
}

func provideApp(sc *intsync.Controller, tc *thread.Controller, b *bus.Bus, logger *zap.Logger) *tui.App {
	return tui.NewApp(sc, tc, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, sc *intsync.Controller, tc *thread.Controller, p Params, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("client starting", zap.String("server", p.ServerURL))
			// The thread controller subscribes before the sync
			// controller connects, so no push event slips past it.
			tc.Start(context.Background())
			sc.Start(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			tc.Stop()
			sc.Stop()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			return nil
		},
	})
}
