package preference

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zhouzirui/billboard/backend/internal/config"
	"github.com/zhouzirui/billboard/backend/internal/model/preference"
)

// RedisBackend appends JSON-encoded records to a Redis list, which keeps
// insertion order for Scan.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend connects and pings the server.
func NewRedisBackend(ctx context.Context, cfg config.StorageConfig) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBackend{client: client, key: cfg.RedisKey}, nil
}

func (r *RedisBackend) Name() string { return config.BackendRedis }

func (r *RedisBackend) Put(ctx context.Context, rec preference.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}
	return nil
}

func (r *RedisBackend) Scan(ctx context.Context) ([]preference.Record, error) {
	values, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	return decodeRecords(values)
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

func decodeRecords(values []string) ([]preference.Record, error) {
	records := make([]preference.Record, 0, len(values))
	for _, v := range values {
		var rec preference.Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
