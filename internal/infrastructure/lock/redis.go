package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

const keyPrefix = "library:lock:"

// releaseScript 只删除自己持有的锁
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis 基于SET NX PX的分布式锁
// 设计说明:
// 1. value为随机token,释放时校验,避免误删他人的锁
// 2. TTL兜底持锁进程崩溃的情况,临界区必须短于TTL
// 3. 抢锁失败按RetryInterval重试,超过WaitTimeout返回ErrLockTimeout
type Redis struct {
	client        *goredis.Client
	ttl           time.Duration
	retryInterval time.Duration
	waitTimeout   time.Duration
}

// NewRedis 创建Redis锁
func NewRedis(client *goredis.Client, cfg config.LockConfig) *Redis {
	r := &Redis{
		client:        client,
		ttl:           cfg.TTL,
		retryInterval: cfg.RetryInterval,
		waitTimeout:   cfg.WaitTimeout,
	}
	if r.ttl <= 0 {
		r.ttl = 10 * time.Second
	}
	if r.retryInterval <= 0 {
		r.retryInterval = 20 * time.Millisecond
	}
	if r.waitTimeout <= 0 {
		r.waitTimeout = 5 * time.Second
	}
	return r
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	key = keyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.waitTimeout)

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "获取锁失败", Err: err}
		}
		if ok {
			return r.releaser(key, token), nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		timer := time.NewTimer(r.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Redis) releaser(key, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		// 调用方的ctx可能已取消,释放使用独立的ctx
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.client, []string{key}, token).Err(); err != nil {
			zap.L().Warn("释放锁失败,等待TTL过期", zap.String("key", key), zap.Error(err))
		}
	}
}
