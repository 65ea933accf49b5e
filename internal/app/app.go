package app

import (
	"context"
	"time"

	"github.com/kafka-dispatcher/kafka-dispatcher/internal/config"
	"github.com/kafka-dispatcher/kafka-dispatcher/internal/server"
	"github.com/kafka-dispatcher/kafka-dispatcher/internal/signal"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// Consumer App管理的消费者生命周期
type Consumer interface {
	Start(ctx context.Context) error
	Close(ctx context.Context) error
	Ready() bool
}

// App 应用生命周期：启动时连接并订阅，收到关闭信号时断开
type App struct {
	consumer Consumer
	server   *server.Server
}

// New 创建App
func New(cfg config.Config, consumer Consumer) *App {
	return &App{
		consumer: consumer,
		server:   server.NewServer(cfg, consumer.Ready),
	}
}

// Start 启动HTTP服务器和消费者
func (a *App) Start(ctx context.Context) error {
	logger.Info("starting application")

	if err := a.server.Start(); err != nil {
		return err
	}

	if err := a.consumer.Start(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeKafkaConsume, "failed to start consumer", err)
	}

	logger.Info("application started")
	return nil
}

// Stop 断开消费者并关闭HTTP服务器
func (a *App) Stop(ctx context.Context, reason string) error {
	logger.Warn("application shutting down, disconnecting kafka client", zap.String("reason", reason))

	if err := a.consumer.Close(ctx); err != nil {
		logger.Error("failed to close consumer", zap.Error(err))
	}

	if err := a.server.Stop(ctx); err != nil {
		logger.Error("failed to stop server", zap.Error(err))
	}

	logger.Info("application stopped")
	return nil
}

// Run 启动后阻塞到收到关闭信号或ctx取消，然后优雅关闭
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx); err != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		a.Stop(shutdownCtx, "startup failure")
		return err
	}

	reason := signal.WaitForShutdown(ctx, cancel)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	return a.Stop(shutdownCtx, reason)
}
