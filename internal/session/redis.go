package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "session:"

	fieldInputText      = "input_text"
	fieldTranslatedText = "translated_text"
	fieldUpdatedAt      = "updated_at"
)

// RedisConfig contains the redis-backed store configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore keeps sessions in a redis hash per session, expiring them
// through redis key TTLs instead of a local sweeper.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, config RedisConfig, logger *slog.Logger) (*RedisStore, error) {
	if config.TTL <= 0 {
		config.TTL = 30 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to redis", slog.String("addr", config.Addr), slog.Int("db", config.DB))

	return &RedisStore{
		client: client,
		ttl:    config.TTL,
		logger: logger,
	}, nil
}

func (r *RedisStore) Snapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	values, err := r.client.HGetAll(ctx, redisKeyPrefix+sessionID).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read session: %w", err)
	}

	snapshot := Snapshot{
		InputText:      values[fieldInputText],
		TranslatedText: values[fieldTranslatedText],
	}
	if raw, ok := values[fieldUpdatedAt]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			snapshot.UpdatedAt = ts
		}
	}
	return snapshot, nil
}

func (r *RedisStore) SetInput(ctx context.Context, sessionID, text string) error {
	return r.setField(ctx, sessionID, fieldInputText, text)
}

func (r *RedisStore) SetTranslated(ctx context.Context, sessionID, text string) error {
	return r.setField(ctx, sessionID, fieldTranslatedText, text)
}

func (r *RedisStore) setField(ctx context.Context, sessionID, field, text string) error {
	key := redisKeyPrefix + sessionID
	updatedAt := time.Now().UTC().Format(time.RFC3339Nano)

	if err := r.client.HSet(ctx, key, field, text, fieldUpdatedAt, updatedAt).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh session TTL: %w", err)
	}
	return nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	var count int
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return count, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
