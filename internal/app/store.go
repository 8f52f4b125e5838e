package service

import (
	"context"
	"fmt"

	"github.com/okian/crease/internal/adapters/repository"
	"github.com/okian/crease/internal/config"
)

// OpenStore connects the store backend named by cfg.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store {
	case config.StoreMemory, "":
		return repository.NewMemoryStore(), nil
	case config.StoreRedis:
		s, err := repository.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			repository.WithKeyPrefix(cfg.KeyPrefix))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorePostgres:
		s, err := repository.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}
}

// FromConfig returns the service options cfg describes, store included.
func FromConfig(ctx context.Context, cfg *config.Config) ([]Option, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithStore(store),
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.QueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithSeed(cfg.RandomSeed),
	}, nil
}
