package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisStore keeps each session as a JSON value whose key expires after the
// session TTL, so Redis handles idle expiry itself.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, o RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", o.Addr, err)
	}
	return NewRedisStoreWithClient(client, o.Prefix, o.TTL), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + "session:" + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeRecord(data)
}

func (s *RedisStore) Save(ctx context.Context, r *Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(r.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) List(ctx context.Context, p ListParams) ([]Record, error) {
	var out []Record
	iter := s.client.Scan(ctx, 0, s.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired between SCAN and GET
		}
		if err != nil {
			return nil, fmt.Errorf("redis get: %w", err)
		}
		r, err := decodeRecord(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strings.TrimPrefix(iter.Val(), s.prefix), err)
		}
		r.Trace = nil
		out = append(out, *r)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}

	sortByActivity(out)
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

// Sweep is a no-op: keys expire on their own TTL.
func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &r, nil
}
