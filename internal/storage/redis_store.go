package storage

import (
	"errors"
	"fmt"

	"agroledger/server/internal/utils"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "agroledger:"

// RedisStore хранит коллекции в Redis (общее хранилище для нескольких инстансов)
type RedisStore struct {
	client *utils.RedisClient
}

// NewRedisStore создает хранилище поверх Redis клиента
func NewRedisStore(client *utils.RedisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(key string) (string, bool, error) {
	value, err := s.client.Get(redisKeyPrefix + key)
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis: чтение ключа %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Save(key, value string) error {
	// TTL = 0: коллекции учета не истекают
	if err := s.client.Set(redisKeyPrefix+key, value, 0); err != nil {
		return fmt.Errorf("redis: запись ключа %s: %w", key, err)
	}
	return nil
}
