package routecache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bassbeaver/gdispatch/config"
)

// Redis keeps the snapshot msgpack encoded under a single key, without expiration.
type Redis struct {
	client redis.UniversalClient
	key    string
}

func (r *Redis) Load(ctx context.Context) (*Snapshot, error) {
	data, getError := r.client.Get(ctx, r.key).Bytes()
	if nil != getError {
		if errors.Is(getError, redis.Nil) {
			return nil, ErrCacheMiss
		}

		return nil, fmt.Errorf("failed to read route cache %s: %w", r.key, getError)
	}

	snapshot := &Snapshot{}
	if unmarshalError := msgpack.Unmarshal(data, snapshot); nil != unmarshalError {
		return nil, fmt.Errorf("failed to decode route cache %s: %w", r.key, unmarshalError)
	}

	return checkVersion(snapshot)
}

func (r *Redis) Store(ctx context.Context, snapshot *Snapshot) error {
	data, marshalError := msgpack.Marshal(snapshot)
	if nil != marshalError {
		return fmt.Errorf("failed to encode route cache: %w", marshalError)
	}

	return r.client.Set(ctx, r.key, data, 0).Err()
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

//--------------------

func NewRedis(client redis.UniversalClient, key string) *Redis {
	return &Redis{
		client: client,
		key:    key,
	}
}

func NewRedisClient(cfg config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
