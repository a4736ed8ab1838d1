package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	defaultTTL   = 10 * time.Second
	defaultRetry = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a SET NX lock shared by every replica that talks to the same server.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

func NewRedis(addr, password string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		prefix: "lock:",
		ttl:    defaultTTL,
		retry:  defaultRetry,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	k := r.prefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()
	for {
		ok, err := r.client.SetNX(ctx, k, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", k, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func() {
		// the request context may already be gone
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, r.client, []string{k}, token).Err()
	}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
