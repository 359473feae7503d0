package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisUserProfileCacheStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisUserProfileCacheStore(client redis.UniversalClient, prefix string) *RedisUserProfileCacheStore {
	if prefix == "" {
		prefix = "credential_service:profile_cache"
	}
	return &RedisUserProfileCacheStore{client: client, prefix: prefix}
}

func (s *RedisUserProfileCacheStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.dataKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisUserProfileCacheStore) Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	dataKey := s.dataKey(namespace, key)
	indexKey := s.namespaceIndexKey(namespace)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, dataKey, value, ttl)
	pipe.SAdd(ctx, indexKey, dataKey)
	pipe.Expire(ctx, indexKey, ttl+time.Minute)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisUserProfileCacheStore) Delete(ctx context.Context, namespace, key string) error {
	dataKey := s.dataKey(namespace, key)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, dataKey)
	pipe.SRem(ctx, s.namespaceIndexKey(namespace), dataKey)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisUserProfileCacheStore) InvalidateNamespace(ctx context.Context, namespace string) error {
	indexKey := s.namespaceIndexKey(namespace)
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	pipe := s.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisUserProfileCacheStore) dataKey(namespace, key string) string {
	return fmt.Sprintf("%s:data:%s:%s", s.prefix, namespace, hashCacheKey(key))
}

func (s *RedisUserProfileCacheStore) namespaceIndexKey(namespace string) string {
	return fmt.Sprintf("%s:index:%s", s.prefix, namespace)
}

func hashCacheKey(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}
