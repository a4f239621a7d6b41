//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/router"
)

// Wire依赖注入配置
// 修改后执行 `wire ./cmd/api` 重新生成 wire_gen.go

// infrastructureSet 基础设施层:仓储、Redis、锁、事件发布
var infrastructureSet = wire.NewSet(
	provideRepositories,
	provideRedisClient,
	provideLocker,
	provideEventPublisher,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideCatalogService,
	provideMemberService,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	provideLendingService,
	provideBookService,
	provideReviewService,
	provideDiscoveryService,
)

// handlerSet HTTP处理器
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewCatalogHandler,
	handler.NewMemberHandler,
	handler.NewLendingHandler,
	handler.NewReviewHandler,
	wire.Struct(new(router.Handlers), "*"),
)

// InitializeApp 组装整个应用
// 返回的cleanup按依赖逆序释放资源
func InitializeApp(cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		handlerSet,
		provideGinEngine,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
