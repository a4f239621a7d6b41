// Package lock 借还临界区使用的键锁
//
// local实现用于单实例部署;多实例共享数据库时使用redis实现。
// 两者都按key互斥,获取失败返回存储类错误,ctx取消时返回ctx.Err()。
package lock

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Locker 键锁
type Locker interface {
	// Acquire 阻塞直到获得key的锁,返回的release必须调用且只生效一次
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// ErrLockTimeout 等待锁超时
var ErrLockTimeout = apperrors.New(apperrors.ErrCodeLockFailed, "系统繁忙,请稍后重试")

// New 按配置创建Locker,redis后端需要传入client
func New(cfg config.LockConfig, client *goredis.Client) (Locker, error) {
	switch cfg.Backend {
	case config.LockLocal, "":
		return NewLocal(), nil
	case config.LockRedis:
		if client == nil {
			return nil, fmt.Errorf("redis锁需要Redis客户端")
		}
		return NewRedis(client, cfg), nil
	default:
		return nil, fmt.Errorf("不支持的锁后端: %s", cfg.Backend)
	}
}
