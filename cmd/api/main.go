package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
	"github.com/xiebiao/library/pkg/tracing"
)

// @title        Library API
// @version      1.0
// @description  图书馆借阅服务:馆藏、会员、借还书、预约、书评
// @BasePath     /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "library",
		Short:        "图书馆借阅服务",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径(默认 config/config.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "启动HTTP服务",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(configPath, runServe)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "自动迁移数据库表结构(storage.backend=database)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(configPath, runMigrate)
			},
		},
		&cobra.Command{
			Use:   "watch-events",
			Short: "订阅并打印借阅事件",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withRuntime(configPath, runWatchEvents)
			},
		},
	)
	return root
}

// withRuntime 加载配置、初始化日志,并提供随SIGINT/SIGTERM取消的ctx
func withRuntime(configPath string, run func(ctx context.Context, cfg *config.Config, log *zap.Logger) error) error {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, log)
}

func runServe(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("关闭Tracer失败", zap.Error(err))
			}
		}()
		log.Info("链路追踪已启用", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	app, cleanup, err := InitializeApp(cfg, log)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("storage", cfg.Storage.Backend),
			zap.String("lock", cfg.Lock.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP服务异常退出: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("收到关闭信号,开始优雅关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("优雅关闭失败: %w", err)
	}
	log.Info("服务已关闭")
	return nil
}

func runMigrate(_ context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.Storage.Backend != config.BackendDatabase {
		return fmt.Errorf("migrate仅适用于database后端,当前为%s", cfg.Storage.Backend)
	}

	// NewDB内部执行AutoMigrate
	db, err := database.NewDB(cfg)
	if err != nil {
		return err
	}
	store := database.NewStore(db)
	defer store.Close()

	log.Info("数据库迁移完成", zap.String("driver", cfg.Database.Driver))
	return nil
}

// runWatchEvents 绑定全部借阅事件,逐条打印
func runWatchEvents(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		"topic",
		"library.events.watch",
		[]string{"loan.*", "reservation.*"},
		log,
	)
	if err != nil {
		return err
	}
	defer consumer.Close()

	return consumer.Consume(ctx, func(routingKey string, body []byte) error {
		switch routingKey {
		case lending.EventLoanCreated, lending.EventLoanReturned,
			lending.EventReservationCreated, lending.EventReservationFulfilled:
			log.Info("借阅事件", zap.String("event", routingKey), zap.ByteString("payload", body))
		default:
			log.Warn("未知事件", zap.String("routing_key", routingKey))
		}
		return nil
	})
}
