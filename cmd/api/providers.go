package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	bookapp "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/discovery"
	"github.com/xiebiao/library/internal/application/lending"
	appreview "github.com/xiebiao/library/internal/application/review"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/member"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/lock"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Engine *gin.Engine
}

func provideRepositories(cfg *config.Config, log *zap.Logger) (*persistence.Repositories, func(), error) {
	repos, err := persistence.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("仓储初始化完成", zap.String("backend", cfg.Storage.Backend))

	cleanup := func() {
		if err := repos.Close(); err != nil {
			log.Warn("关闭仓储失败", zap.Error(err))
		}
	}
	return repos, cleanup, nil
}

// provideRedisClient 仅redis锁需要连接Redis,否则返回nil
func provideRedisClient(cfg *config.Config) (*goredis.Client, func(), error) {
	if cfg.Lock.Backend != config.LockRedis {
		return nil, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideLocker(cfg *config.Config, client *goredis.Client) (lending.Locker, error) {
	return lock.New(cfg.Lock, client)
}

// provideEventPublisher mq未启用时使用空实现
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (lending.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return messaging.Noop{}, func() {}, nil
	}

	sender, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := sender.Close(); err != nil {
			log.Warn("关闭消息发布者失败", zap.Error(err))
		}
	}
	return messaging.NewPublisher(sender, log), cleanup, nil
}

func provideCatalogService(repos *persistence.Repositories) catalog.Service {
	return catalog.NewService(repos.Books, repos.Authors, repos.Publishers, repos.Categories)
}

func provideMemberService(repos *persistence.Repositories) member.Service {
	return member.NewService(repos.Members, repos.Staff)
}

func provideLendingService(
	repos *persistence.Repositories,
	locker lending.Locker,
	publisher lending.EventPublisher,
	log *zap.Logger,
) *lending.Service {
	return lending.NewService(
		repos.Books,
		repos.Members,
		repos.Loans,
		repos.Reservations,
		repos.Tx,
		locker,
		lending.WithEventPublisher(publisher),
		lending.WithLogger(log.Named("lending")),
	)
}

// provideBookService 与借阅用例共用同一个Locker
func provideBookService(
	repos *persistence.Repositories,
	catalogService catalog.Service,
	locker lending.Locker,
	log *zap.Logger,
) *bookapp.Service {
	return bookapp.NewService(catalogService, repos.Tx, locker, log.Named("book"))
}

func provideReviewService(repos *persistence.Repositories, log *zap.Logger) *appreview.Service {
	return appreview.NewService(repos.Reviews, repos.Books, repos.Members, repos.Loans, log.Named("review"))
}

func provideDiscoveryService(repos *persistence.Repositories) *discovery.Service {
	return discovery.NewService(repos.Books, repos.Members, repos.Loans, repos.Reviews)
}

func provideGinEngine(cfg *config.Config, log *zap.Logger, handlers router.Handlers) *gin.Engine {
	return router.New(cfg.Server.Mode, log, handlers)
}
