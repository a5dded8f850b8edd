package lock

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "postflow:lock:publish-tick"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serialises ticks across instances. The key holds a random
// token and expires after ttl so a crashed holder cannot wedge the scheduler.
type RedisLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, key string, ttl time.Duration) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis locker requires a client")
	}
	if ttl <= 0 {
		return nil, errors.New("redis locker requires a positive ttl")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return &RedisLocker{client: client, key: key, ttl: ttl}, nil
}

func (l *RedisLocker) TryLock(ctx context.Context) (func(), bool, error) {
	token, err := gonanoid.New()
	if err != nil {
		return nil, false, err
	}

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	unlock := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{l.key}, token).Err(); err != nil {
			slog.Warn("release tick lock", "key", l.key, "error", err)
		}
	}
	return unlock, true, nil
}
