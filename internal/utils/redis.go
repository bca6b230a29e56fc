package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient обертка над Redis клиентом для удобной работы
type RedisClient struct {
	client  *redis.Client
	ctx     context.Context
	timeout time.Duration
}

// NewRedisClient создает новый Redis клиент
func NewRedisClient(client *redis.Client) *RedisClient {
	return &RedisClient{
		client:  client,
		ctx:     context.Background(),
		timeout: 3 * time.Second,
	}
}

// Set сохраняет строковое значение с TTL (0 = без истечения)
func (r *RedisClient) Set(key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Get получает значение. Для отсутствующего ключа возвращает redis.Nil
func (r *RedisClient) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()
	return r.client.Get(ctx, key).Result()
}
