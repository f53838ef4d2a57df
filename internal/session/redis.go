package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps session records in redis so every api replica sees
// the same sessions. Records expire with the session ttl; a zero ttl
// stores them without expiry.
type RedisStore struct {
	redisdb *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig) *RedisStore {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &RedisStore{redisdb: redisdb}
}

func (s *RedisStore) Save(ctx context.Context, jti string, rec Record, ttl time.Duration) error {
	payload, err := json.Marshal(rec)

	if err != nil {
		return err
	}

	return s.redisdb.Set(ctx, redisKeyPrefix+jti, payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, jti string) (Record, error) {
	payload, err := s.redisdb.Get(ctx, redisKeyPrefix+jti).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNoSession
		}

		return Record{}, err
	}

	var rec Record

	err = json.Unmarshal(payload, &rec)

	if err != nil {
		return Record{}, err
	}

	return rec, nil
}

func (s *RedisStore) Delete(ctx context.Context, jti string) error {
	return s.redisdb.Del(ctx, redisKeyPrefix+jti).Err()
}

// Ping checks redis connectivity for the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

// Close shuts the underlying client down.
func (s *RedisStore) Close() error {
	return s.redisdb.Close()
}
