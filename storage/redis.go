package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "kt"

// Redis is a go-redis backed backend for multi-process deployments. Records
// are stored as encoded blobs under a namespaced key with a native TTL
// derived from the record expiry, so Redis reclaims dead records on its own;
// the manager's lazy expiry checks remain the source of truth.
//
// Redis implements [Consumer] via GETDEL, giving the manager atomic
// conditional-delete semantics for rotation and revocation.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis backend on the given client. prefix namespaces
// the keys; empty selects the default "kt".
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{
		client: client,
		prefix: prefix,
	}
}

func (r *Redis) key(key string) string {
	return r.prefix + ":" + key
}

// Set stores the encoded record with a TTL covering its remaining lifetime.
//
//	Performance: 1 Redis SET.
func (r *Redis) Set(ctx context.Context, key string, record *Record) error {
	data, err := EncodeRecord(record)
	if err != nil {
		return err
	}

	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		// Already-dead record: keep it long enough for the manager's lazy
		// expiry path to observe and purge it deterministically.
		ttl = time.Second
	}

	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get fetches and decodes the record, or reports absence.
//
//	Performance: 1 Redis GET.
func (r *Redis) Get(ctx context.Context, key string) (*Record, bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	record, err := DecodeRecord(data)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// Delete removes the record. Missing keys are a no-op.
//
//	Performance: 1 Redis DEL.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Consume atomically removes and returns the record.
//
//	Performance: 1 Redis GETDEL.
func (r *Redis) Consume(ctx context.Context, key string) (*Record, bool, error) {
	data, err := r.client.GetDel(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	record, err := DecodeRecord(data)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (r *Redis) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return time.Since(start), nil
}
