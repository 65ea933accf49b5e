package utils

import (
	"context"
	"time"

	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/logger"
	"go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// RetryFunc 重试函数类型
type RetryFunc func(ctx context.Context) error

// Retry 重试执行函数，指数退避；不可重试的错误（见errors.IsRetryable）立即返回
func Retry(ctx context.Context, op string, maxRetries int, initialBackoff time.Duration, fn RetryFunc) error {
	var err error
	backoff := initialBackoff

	for i := 0; i <= maxRetries; i++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}

		if i == maxRetries || !errors.IsRetryable(err) {
			return err
		}

		logger.Warn("operation failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", i+1),
			zap.Int("max_retries", maxRetries),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}

	return err
}
