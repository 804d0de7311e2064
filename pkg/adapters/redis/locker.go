package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/valet/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// unlockScript deletes the lock only when we still own it, so a lock that
// expired and was re-acquired by another replica is never released by us.
const unlockScript = `
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`

// Locker implements ports.DistributedLocker using Redis SET NX PX. It lets
// multiple valet replicas share one session store without interleaving turns.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker. Keys are written as <prefix>lock:<key>.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

// Lock acquires a distributed lock for the given key, polling until the lock
// is free or the context ends. The token value is checked on unlock.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	token := fmt.Sprintf("%d", time.Now().UnixNano())

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		success, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis error acquiring lock: %w", err)
		}
		if success {
			return func(ctx context.Context) error {
				return l.client.Eval(ctx, unlockScript, []string{lockKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			// Holder may have released or expired; try again.
		}
	}
}
