package preference

import (
	"context"
	"fmt"

	"github.com/zhouzirui/billboard/backend/internal/config"
)

// NewBackend opens the configured primary backend. It returns a nil Backend
// and no error when the backend's settings are absent, selecting memory.
func NewBackend(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	if !cfg.PrimaryConfigured() {
		return nil, nil
	}

	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case config.BackendDynamoDB:
		backend, err = asBackend(NewDynamoBackend(ctx, cfg))
	case config.BackendRedis:
		backend, err = asBackend(NewRedisBackend(ctx, cfg))
	case config.BackendSQLite:
		backend, err = asBackend(NewSQLiteBackend(ctx, cfg.SQLitePath))
	case config.BackendPostgres:
		backend, err = asBackend(NewPostgresBackend(ctx, cfg.DatabaseURL))
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	return backend, nil
}

// asBackend keeps a failed constructor's typed nil out of the interface.
func asBackend[B Backend](b B, err error) (Backend, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}
