package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/railatlas-loader/internal/domain/repository"
)

const reloadLockKey = "railatlas:reload:lock"

// releaseScript deletes the lock only if this process still owns it, so a
// reload that outlived its TTL cannot release a successor's lock.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

type reloadLock struct {
	client *redis.Client
	ttl    time.Duration
	token  string
	logger *zap.Logger
}

// NewReloadLock returns the single-writer reload lock. The TTL bounds how
// long a crashed loader can block subsequent reloads.
func NewReloadLock(r *Redis, ttl time.Duration, logger *zap.Logger) repository.ReloadLocker {
	return &reloadLock{
		client: r.Client(),
		ttl:    ttl,
		logger: logger,
	}
}

func (l *reloadLock) Acquire(ctx context.Context) (bool, error) {
	l.token = uuid.NewString()
	ok, err := l.client.SetNX(ctx, reloadLockKey, l.token, l.ttl).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		l.logger.Warn("Reload lock is held by another process")
		return false, nil
	}
	return true, nil
}

func (l *reloadLock) Release(ctx context.Context) error {
	released, err := releaseScript.Run(ctx, l.client, []string{reloadLockKey}, l.token).Int()
	if err != nil {
		return err
	}
	if released == 0 {
		l.logger.Warn("Reload lock was not owned at release time")
	}
	return nil
}
