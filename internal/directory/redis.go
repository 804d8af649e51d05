package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one string key per company. SetIfAbsent maps to SETNX.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func OpenRedis(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return NewRedis(client, prefix), nil
}

func NewRedis(client redis.UniversalClient, prefix string) *RedisStore {
	trimmed := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if trimmed == "" {
		trimmed = "bookings"
	}
	return &RedisStore{client: client, prefix: trimmed}
}

func (r *RedisStore) key(companyID string) string {
	return fmt.Sprintf("%s:company:%s:stripe_account", r.prefix, companyID)
}

func (r *RedisStore) Get(ctx context.Context, companyID string) (string, error) {
	accountID, err := r.client.Get(ctx, r.key(companyID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read company %s: %w", companyID, err)
	}
	return accountID, nil
}

func (r *RedisStore) Set(ctx context.Context, companyID, accountID string) error {
	if err := validate(companyID, accountID); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(companyID), accountID, 0).Err(); err != nil {
		return fmt.Errorf("failed to write company %s: %w", companyID, err)
	}
	return nil
}

func (r *RedisStore) SetIfAbsent(ctx context.Context, companyID, accountID string) (string, bool, error) {
	if err := validate(companyID, accountID); err != nil {
		return "", false, err
	}

	ok, err := r.client.SetNX(ctx, r.key(companyID), accountID, 0).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to link company %s: %w", companyID, err)
	}
	if ok {
		return accountID, true, nil
	}

	existing, err := r.Get(ctx, companyID)
	if err != nil {
		return "", false, err
	}
	return existing, false, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
