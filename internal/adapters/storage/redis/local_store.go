// Package redis guarda el estado por usuario en un hash por namespace.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dog-adoption-search/internal/platform/config"
	"dog-adoption-search/internal/ports/localstore"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "dogsearch:state:"

// NewClient crea el cliente Redis con los mismos timeouts/pool del resto de servicios.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// Ping valida la conexión.
func Ping(ctx context.Context, c *goredis.Client) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

type LocalStore struct {
	client *goredis.Client
}

func NewLocalStore(client *goredis.Client) *LocalStore {
	return &LocalStore{client: client}
}

func hashKey(namespace string) string {
	return keyPrefix + namespace
}

func (s *LocalStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	v, err := s.client.HGet(ctx, hashKey(namespace), key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, localstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, nil
}

func (s *LocalStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("key required")
	}
	if err := s.client.HSet(ctx, hashKey(namespace), key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Clear(ctx context.Context, namespace string) error {
	if err := s.client.Del(ctx, hashKey(namespace)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
