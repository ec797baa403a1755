package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is an alternative backend for runs that share a cache between
// hosts. Category TTLs map onto key expirations; SetNX preserves the
// at-most-one-write-per-TTL-window contract.
type RedisStore struct {
	client *redis.Client
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
	}
}

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) redisKey(cat Category, key string) string {
	return "holidayplanner:" + string(cat) + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, cat Category, key string) ([]byte, bool) {
	payload, err := s.client.Get(ctx, s.redisKey(cat, key)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (s *RedisStore) Put(ctx context.Context, cat Category, key string, payload []byte) error {
	return s.client.SetNX(ctx, s.redisKey(cat, key), payload, TTL(cat)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
