package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/logger"
	"go.uber.org/zap"
)

// WaitForShutdown 等待关闭信号，返回触发关闭的信号名
func WaitForShutdown(ctx context.Context, cancel context.CancelFunc) string {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		return sig.String()
	case <-ctx.Done():
		logger.Info("context cancelled")
		return "context cancelled"
	}
}
