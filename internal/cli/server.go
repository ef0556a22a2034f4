package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/transducer"
	"github.com/aretw0/transducer/internal/config"
	"github.com/aretw0/transducer/pkg/adapters/redis"
	"github.com/aretw0/transducer/pkg/observability"
	"github.com/aretw0/transducer/pkg/session"
)

// NewManager builds the machine registry used by the serve and mcp commands.
// A Redis locker is attached when the config names a Redis address, and the
// source, when set, is loaded and registered under its definition name.
// The returned close function releases the Redis connection.
func NewManager(ctx context.Context, cfg config.Server, src Source, metrics *observability.Metrics, logger *slog.Logger) (*session.Manager, func() error, error) {
	closer := func() error { return nil }

	machineOpts := []transducer.Option{transducer.WithLogger(logger)}
	if metrics != nil {
		machineOpts = append(machineOpts, transducer.WithLifecycleHooks(metrics.Hooks()))
	}
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.LockTTL),
		session.WithMachineOptions(machineOpts...),
	}

	if cfg.UseRedis() {
		locker := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithPrefix(cfg.RedisPrefix))
		if err := locker.Ping(ctx); err != nil {
			_ = locker.Close()
			return nil, nil, fmt.Errorf("redis unavailable at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("distributed locking enabled", "redis", cfg.RedisAddr)
		opts = append(opts, session.WithLocker(locker))
		closer = locker.Close
	}

	mgr := session.NewManager(opts...)
	if src.IsZero() {
		return mgr, closer, nil
	}

	loader, err := src.Loader()
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	def, err := loader.Load(ctx)
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("failed to load definition: %w", err)
	}
	name := def.Name
	if name == "" {
		name = "default"
	}
	if _, err := mgr.Load(ctx, name, def); err != nil {
		_ = closer()
		return nil, nil, err
	}
	return mgr, closer, nil
}
