package artifact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions locates an artifact stored as a single string value
type RedisOptions struct {
	Addr        string
	DB          int
	Key         string
	DialTimeout time.Duration
}

// Redis reads an artifact from a redis key
type Redis struct {
	client *redis.Client
	key    string
	where  string
}

// NewRedis builds the client lazily; nothing is dialed until Read
func NewRedis(o RedisOptions) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:        o.Addr,
		DB:          o.DB,
		DialTimeout: o.DialTimeout,
		MaxRetries:  1,
	})
	return &Redis{
		client: client,
		key:    o.Key,
		where:  fmt.Sprintf("redis://%s/%d/%s", o.Addr, o.DB, o.Key),
	}
}

// Read fetches the key; a missing key is ErrNotFound
func (r *Redis) Read(ctx context.Context) ([]byte, string, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, r.where, ErrNotFound
	}
	if err != nil {
		return nil, r.where, err
	}
	return data, r.where, nil
}

// Put stores data under the key, used to publish an artifact
func (r *Redis) Put(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, r.key, data, 0).Err()
}

// Close releases the client connections
func (r *Redis) Close() error { return r.client.Close() }
